// Package errlog implements the error ledger: a bounded FIFO record of
// classified runtime errors with rolling counts consumed by health
// evaluation.
package errlog

import (
	"time"
)

// Severity is the ordered seriousness of a recorded error.
// The ordering (LOW < MEDIUM < HIGH < CRITICAL) lets thresholds be
// expressed as "count at or above X".
type Severity int

const (
	// SeverityLow marks errors that do not affect operation.
	SeverityLow Severity = iota

	// SeverityMedium marks errors that may degrade functionality.
	SeverityMedium

	// SeverityHigh marks errors that impair operation.
	SeverityHigh

	// SeverityCritical marks errors that stop a subsystem.
	SeverityCritical
)

// String returns the stable lowercase identifier of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so severities
// serialize as their identifiers in JSON payloads.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Category classifies where an error originated. Categories are an
// open set: upstream subsystems evolve independently of the ledger, so
// new categories need no code change here. An empty category is
// recorded as CategoryUnknown.
type Category string

// Known categories. Callers may pass any non-empty identifier.
const (
	CategoryDatabase      Category = "database"
	CategoryCache         Category = "cache"
	CategoryExternalAPI   Category = "external_api"
	CategoryNetwork       Category = "network"
	CategoryValidation    Category = "validation"
	CategoryTelegram      Category = "telegram"
	CategoryParser        Category = "parser"
	CategoryBusinessLogic Category = "business_logic"
	CategoryUnknown       Category = "unknown"
)

// Record is one immutable error event.
type Record struct {
	Timestamp time.Time      `json:"timestamp"`
	Severity  Severity       `json:"severity"`
	Category  Category       `json:"category"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// IsCritical reports whether the record counts toward the critical
// threshold (HIGH and CRITICAL by policy).
func (r Record) IsCritical() bool {
	return r.Severity >= SeverityHigh
}

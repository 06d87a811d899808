package errlog

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bondradar/bondmon/pkg/logging"
)

// DefaultMaxRecords is the retained-record bound used when New is
// given a non-positive limit.
const DefaultMaxRecords = 1000

// Ledger records classified error events. It retains at most a fixed
// number of records, dropping the oldest first, and derives its counts
// from the retained window. Record never fails: logging an error must
// not produce a new failure.
type Ledger struct {
	mu      sync.RWMutex
	max     int
	records []Record

	logger zerolog.Logger
}

// New creates a ledger retaining at most maxRecords records.
func New(maxRecords int) *Ledger {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &Ledger{
		max:     maxRecords,
		records: make([]Record, 0, maxRecords),
		logger:  logging.NewLogger("error-ledger"),
	}
}

// Record appends an error event and returns the stored record.
// An out-of-range severity is clamped and an empty category becomes
// CategoryUnknown. When the retained bound is exceeded the oldest
// record is dropped.
func (l *Ledger) Record(severity Severity, category Category, message string, details map[string]any) Record {
	if severity < SeverityLow {
		severity = SeverityLow
	}
	if severity > SeverityCritical {
		severity = SeverityCritical
	}
	if category == "" {
		category = CategoryUnknown
	}

	rec := Record{
		Timestamp: time.Now(),
		Severity:  severity,
		Category:  category,
		Message:   message,
		Details:   details,
	}

	l.mu.Lock()
	l.records = append(l.records, rec)
	if len(l.records) > l.max {
		// FIFO: drop the oldest.
		drop := len(l.records) - l.max
		l.records = append(l.records[:0], l.records[drop:]...)
	}
	retained := len(l.records)
	l.mu.Unlock()

	ErrorsRecorded.WithLabelValues(string(category), severity.String()).Inc()
	LedgerRecords.Set(float64(retained))

	l.log(rec)
	return rec
}

// log writes the record through zerolog at a level mapped from its
// severity.
func (l *Ledger) log(rec Record) {
	var event *zerolog.Event
	switch rec.Severity {
	case SeverityCritical, SeverityHigh:
		event = l.logger.Error()
	case SeverityMedium:
		event = l.logger.Warn()
	default:
		event = l.logger.Debug()
	}

	event = event.
		Str("category", string(rec.Category)).
		Str("severity", rec.Severity.String())
	if len(rec.Details) > 0 {
		event = event.Interface("details", rec.Details)
	}
	event.Msg(rec.Message)
}

// CriticalCount returns the number of retained HIGH and CRITICAL
// records. A positive window restricts the count to records no older
// than the window; zero counts all retained records.
func (l *Ledger) CriticalCount(window time.Duration) int {
	cutoff := time.Time{}
	if window > 0 {
		cutoff = time.Now().Add(-window)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	count := 0
	for _, rec := range l.records {
		if rec.IsCritical() && rec.Timestamp.After(cutoff) {
			count++
		}
	}
	return count
}

// CategoryBreakdown returns retained record counts per category.
func (l *Ledger) CategoryBreakdown() map[Category]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	breakdown := make(map[Category]int)
	for _, rec := range l.records {
		breakdown[rec.Category]++
	}
	return breakdown
}

// SeverityBreakdown returns retained record counts per severity.
func (l *Ledger) SeverityBreakdown() map[Severity]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	breakdown := make(map[Severity]int)
	for _, rec := range l.records {
		breakdown[rec.Severity]++
	}
	return breakdown
}

// Total returns the number of retained records.
func (l *Ledger) Total() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Recent returns up to n most recent records, newest first.
func (l *Ledger) Recent(n int) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || n > len(l.records) {
		n = len(l.records)
	}

	recent := make([]Record, n)
	for i := 0; i < n; i++ {
		recent[i] = l.records[len(l.records)-1-i]
	}
	return recent
}

// Reset drops all retained records and counts. Used after an operator
// acknowledges an incident.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.records = l.records[:0]
	l.mu.Unlock()

	LedgerRecords.Set(0)
	LedgerResets.Inc()
	l.logger.Info().Msg("Error ledger reset")
}

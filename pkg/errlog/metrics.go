package errlog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrorsRecorded tracks recorded errors by category and severity
	ErrorsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondmon_errors_recorded_total",
			Help: "Total number of errors recorded in the ledger",
		},
		[]string{"category", "severity"},
	)

	// LedgerRecords tracks the current number of retained records
	LedgerRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bondmon_error_ledger_records",
			Help: "Current number of records retained by the error ledger",
		},
	)

	// LedgerResets tracks explicit ledger resets
	LedgerResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bondmon_error_ledger_resets_total",
			Help: "Total number of explicit error ledger resets",
		},
	)
)

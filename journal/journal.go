// Package journal records exported computation runs for regulatory lineage.
// The engine itself persists nothing; the journal is the caller-side sink for
// the export artefact, with CSV and SQLite implementations.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one journaled computation run.
type Record struct {
	RunID          string
	Time           time.Time
	PolicyID       string
	PolicyHash     string // composite hash over all artefacts
	BaselineName   string
	BaselineTotal  decimal.Decimal
	ScenarioCount  int
	FailureCount   int
	BaselineDigest string // canonical digest of the baseline scenario input
}

// Journal is a lineage sink for computation runs.
type Journal interface {
	RecordRun(Record) error
	Close() error
}

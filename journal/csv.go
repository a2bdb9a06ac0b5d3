package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"run_id", "time", "policy_id", "policy_hash",
	"baseline_name", "baseline_total", "scenario_count", "failure_count",
	"baseline_digest",
}

type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

// NewCSV opens (or creates) a CSV lineage journal at path. The header is
// written only when the file starts empty, so runs append across processes.
func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordRun(r Record) error {
	err := j.w.Write([]string{
		r.RunID,
		r.Time.Format(time.RFC3339),
		r.PolicyID,
		r.PolicyHash,
		r.BaselineName,
		r.BaselineTotal.String(),
		strconv.Itoa(r.ScenarioCount),
		strconv.Itoa(r.FailureCount),
		r.BaselineDigest,
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.f.Close()
}

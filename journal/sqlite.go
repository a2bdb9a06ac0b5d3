package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLiteJournal stores lineage records in a SQLite database. Totals are
// stored as their exact decimal text, never as REAL.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r Record) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, time, policy_id, policy_hash, baseline_name, baseline_total,
		 scenario_count, failure_count, baseline_digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Time.UTC().Format(time.RFC3339), r.PolicyID, r.PolicyHash,
		r.BaselineName, r.BaselineTotal.String(), r.ScenarioCount,
		r.FailureCount, r.BaselineDigest,
	)
	return err
}

// ListRuns returns journaled runs for a policy, newest first, at most limit.
func (j *SQLiteJournal) ListRuns(policyID string, limit int) ([]Record, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, policy_id, policy_hash, baseline_name,
		       baseline_total, scenario_count, failure_count, baseline_digest
		FROM runs WHERE policy_id = ? ORDER BY time DESC, run_id DESC LIMIT ?`,
		policyID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var ts, total string
		if err := rows.Scan(&r.RunID, &ts, &r.PolicyID, &r.PolicyHash,
			&r.BaselineName, &total, &r.ScenarioCount, &r.FailureCount,
			&r.BaselineDigest); err != nil {
			return nil, err
		}
		r.Time, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parse run time %q: %w", ts, err)
		}
		r.BaselineTotal, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse run total %q: %w", total, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

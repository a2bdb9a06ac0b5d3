package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(runID string) Record {
	return Record{
		RunID:          runID,
		Time:           time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		PolicyID:       "BCBS_MAR",
		PolicyHash:     "abc123",
		BaselineName:   "baseline",
		BaselineTotal:  decimal.RequireFromString("13250"),
		ScenarioCount:  2,
		FailureCount:   0,
		BaselineDigest: "def456",
	}
}

func TestCSVJournalRecordsRuns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "runs.csv")

	j, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordRun(testRecord("RUN1")))
	require.NoError(t, j.Close())

	// Reopening must append without a second header.
	j, err = NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordRun(testRecord("RUN2")))
	require.NoError(t, j.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "RUN1", rows[1][0])
	assert.Equal(t, "RUN2", rows[2][0])
	assert.Equal(t, "13250", rows[1][5])
	assert.Equal(t, "2026-03-01T12:00:00Z", rows[1][1])
}

package journal

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	policy_id TEXT NOT NULL,
	policy_hash TEXT NOT NULL,
	baseline_name TEXT NOT NULL,
	baseline_total TEXT NOT NULL,
	scenario_count INTEGER NOT NULL,
	failure_count INTEGER NOT NULL,
	baseline_digest TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_policy ON runs(policy_id, time);
`

package postgresql

// migrations returns the numbered schema migrations for the console. Stage
// lists and run payloads are stored as JSONB documents; they are always read
// and written wholesale, matching the edit round trip which replaces the
// whole stage list on every update.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflows (
				id BIGSERIAL PRIMARY KEY,
				title TEXT NOT NULL,
				target_companies_category TEXT NOT NULL,
				is_scheduled BOOLEAN NOT NULL DEFAULT FALSE,
				schedule_frequency BIGINT NOT NULL DEFAULT 86400,
				is_sandbox BOOLEAN NOT NULL DEFAULT FALSE,
				data JSONB NOT NULL DEFAULT '{"stages": []}',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS workflow_runs (
				id BIGSERIAL PRIMARY KEY,
				workflow_id BIGINT NOT NULL REFERENCES workflows (id) ON DELETE CASCADE,
				target_companies_category TEXT NOT NULL,
				status TEXT NOT NULL,
				data JSONB NOT NULL DEFAULT '{}',
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_workflow_runs_workflow_id
				ON workflow_runs (workflow_id);
		`,
	}
}

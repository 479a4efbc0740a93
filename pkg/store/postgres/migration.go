package postgres

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create snapshots table
			CREATE TABLE snapshots (
				namespace VARCHAR(253) NOT NULL,
				name VARCHAR(253) NOT NULL,
				revision VARCHAR(255) NOT NULL DEFAULT '',
				pipeline_run JSONB NOT NULL,
				task_runs JSONB NOT NULL DEFAULT '[]',
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				PRIMARY KEY (namespace, name)
			);

			CREATE INDEX idx_snapshots_updated_at ON snapshots(updated_at);
		`,
	}
}

package database

const recordSchema = `
-- Records keep the nested persisted shape in data. The other columns are
-- copies of identity fields for lookups.
CREATE TABLE records (
	uid TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	data_source TEXT NOT NULL,
	id TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	year TEXT NOT NULL DEFAULT '',
	data TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TEXT NOT NULL,
	UNIQUE (data_source, id)
);

CREATE INDEX idx_records_type ON records(type);
CREATE INDEX idx_records_updated_at ON records(updated_at);
`

// recordMigrations contains incremental schema changes
// Each migration is applied in order based on the current user_version
// recordMigrations[0] is empty because version 0 uses the base schema
var recordMigrations = []string{
	"",
}

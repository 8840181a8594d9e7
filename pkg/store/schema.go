package store

// SchemaVersion is incremented on any incompatible schema change.
const SchemaVersion = 1

// Schema creates the fact table and supporting indexes.
const Schema = `
CREATE TABLE IF NOT EXISTS facts (
	subject    TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const insertSchemaVersion = `
INSERT OR IGNORE INTO schema_version (version) VALUES (?);
`

const getSchemaVersion = `
SELECT MAX(version) FROM schema_version;
`

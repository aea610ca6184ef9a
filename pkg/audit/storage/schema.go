package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the generations table and its indexes. Timestamps are
// stored as Unix milliseconds so both SQLite drivers read them the same way.
const Schema = `
CREATE TABLE IF NOT EXISTS generations (
    id TEXT PRIMARY KEY,
    request_id TEXT NOT NULL,

    engine TEXT NOT NULL,
    model TEXT NOT NULL DEFAULT '',
    is_edit INTEGER NOT NULL DEFAULT 0,
    prompt_hash TEXT NOT NULL,

    status TEXT NOT NULL,
    error_type TEXT NOT NULL DEFAULT '',
    error_message TEXT NOT NULL DEFAULT '',

    chunks INTEGER NOT NULL DEFAULT 0,
    response_bytes INTEGER NOT NULL DEFAULT 0,
    extraction_strategy TEXT NOT NULL DEFAULT '',
    client_disconnected INTEGER NOT NULL DEFAULT 0,

    started_at INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_generations_started_at ON generations(started_at);
CREATE INDEX IF NOT EXISTS idx_generations_engine ON generations(engine);
CREATE INDEX IF NOT EXISTS idx_generations_status ON generations(status);
CREATE INDEX IF NOT EXISTS idx_generations_request_id ON generations(request_id);
`

const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

const getSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertRecord = `
INSERT INTO generations (
    id, request_id,
    engine, model, is_edit, prompt_hash,
    status, error_type, error_message,
    chunks, response_bytes, extraction_strategy, client_disconnected,
    started_at, duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectColumns = `
SELECT id, request_id,
    engine, model, is_edit, prompt_hash,
    status, error_type, error_message,
    chunks, response_bytes, extraction_strategy, client_disconnected,
    started_at, duration_ms
FROM generations
`

package repository

import (
	"context"

	apperrors "audio-pipeline/internal/app/errors"
)

// schema holds the bootstrap DDL of one dialect. Statements are idempotent.
type schema struct {
	idColumn  string
	timestamp string
}

var schemas = map[string]schema{
	DriverSQLite:   {idColumn: "INTEGER PRIMARY KEY AUTOINCREMENT", timestamp: "TIMESTAMP"},
	DriverPostgres: {idColumn: "BIGSERIAL PRIMARY KEY", timestamp: "TIMESTAMPTZ"},
}

func (s schema) statements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS audio_files (
			id ` + s.idColumn + `,
			entity_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			path TEXT NOT NULL,
			content_hash CHAR(64) NOT NULL UNIQUE,
			created_at ` + s.timestamp + ` NOT NULL,
			updated_at ` + s.timestamp + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transcriptions (
			id ` + s.idColumn + `,
			entity_id TEXT NOT NULL,
			model_name TEXT NOT NULL,
			filename TEXT NOT NULL,
			transcript_hash CHAR(64) NOT NULL UNIQUE,
			transcript_text TEXT NOT NULL,
			created_at ` + s.timestamp + ` NOT NULL,
			updated_at ` + s.timestamp + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS backend_logs (
			id ` + s.idColumn + `,
			log_timestamp ` + s.timestamp + ` NOT NULL,
			log_level VARCHAR(20) NOT NULL,
			message TEXT NOT NULL,
			log_hash CHAR(64) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS frontend_logs (
			id ` + s.idColumn + `,
			log_timestamp ` + s.timestamp + ` NOT NULL,
			log_level VARCHAR(20) NOT NULL,
			message TEXT NOT NULL,
			metadata TEXT,
			log_hash CHAR(64) NOT NULL UNIQUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transcriptions_created_at ON transcriptions (created_at)`,
	}
}

// EnsureSchema creates the tables if they are missing
func (c *CommonDB) EnsureSchema(ctx context.Context) error {
	s, ok := schemas[c.driverName]
	if !ok {
		s = schemas[DriverSQLite]
	}
	for _, stmt := range s.statements() {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.WithKind(apperrors.KindPersistence, err, "ensure schema")
		}
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "audio-pipeline/internal/app/errors"
	"audio-pipeline/internal/app/model"
	"audio-pipeline/internal/app/utils"
)

// Driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// CommonDB provides shared database functionality
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
	now          func() time.Time
}

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

var _ Store = (*CommonDB)(nil)

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB, driverName string) *CommonDB {
	var placeholders PlaceholderFunc

	switch driverName {
	case DriverPostgres:
		placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
	default:
		placeholders = func(n int) string { return "?" }
	}

	return &CommonDB{
		db:           db,
		driverName:   driverName,
		placeholders: placeholders,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// DriverForDSN picks the driver from the connection string. Anything that is not a
// postgres URL or keyword DSN is treated as a sqlite file.
func DriverForDSN(dsn string) string {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres
	case strings.Contains(lower, "host=") && strings.Contains(lower, "dbname="):
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

// params returns n comma separated placeholders starting at 1
func (c *CommonDB) params(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = c.placeholders(i + 1)
	}
	return strings.Join(ps, ", ")
}

// RecordAudio records the audio at localPath, keyed by the sha-256 of its bytes
func (c *CommonDB) RecordAudio(ctx context.Context, entityID, filename, localPath, location string) error {
	hash, err := utils.CalculateFileHash(localPath)
	if err != nil {
		return apperrors.WithKind(apperrors.KindPersistence, err, "hash audio %s", filename)
	}
	if entityID == "" {
		entityID = uuid.NewString()
	}
	if location == "" {
		location = localPath
	}

	now := c.now()
	query := fmt.Sprintf(
		`INSERT INTO audio_files (entity_id, filename, path, content_hash, created_at, updated_at)
		 VALUES (%s)
		 ON CONFLICT (content_hash) DO UPDATE SET updated_at = excluded.updated_at`,
		c.params(6),
	)

	if _, err := c.db.ExecContext(ctx, query, entityID, filename, location, hash, now, now); err != nil {
		return apperrors.WithKind(apperrors.KindPersistence, err, "insert audio %s", filename)
	}
	return nil
}

// RecordTranscription records text, keyed by its sha-256
func (c *CommonDB) RecordTranscription(ctx context.Context, entityID, modelName, filename, text string) error {
	if entityID == "" {
		entityID = uuid.NewString()
	}

	now := c.now()
	query := fmt.Sprintf(
		`INSERT INTO transcriptions (entity_id, model_name, filename, transcript_hash, transcript_text, created_at, updated_at)
		 VALUES (%s)
		 ON CONFLICT (transcript_hash) DO UPDATE SET updated_at = excluded.updated_at`,
		c.params(7),
	)

	if _, err := c.db.ExecContext(ctx, query, entityID, modelName, filename, utils.HashText(text), text, now, now); err != nil {
		return apperrors.WithKind(apperrors.KindPersistence, err, "insert transcription %s", filename)
	}
	return nil
}

// CountAudio returns the number of distinct audio records
func (c *CommonDB) CountAudio(ctx context.Context) (int, error) {
	return c.count(ctx, "audio_files")
}

// CountTranscriptions returns the number of distinct transcription records
func (c *CommonDB) CountTranscriptions(ctx context.Context) (int, error) {
	return c.count(ctx, "transcriptions")
}

// CountLogs returns the number of rows in a log table
func (c *CommonDB) CountLogs(ctx context.Context, table LogTable) (int, error) {
	if err := table.validate(); err != nil {
		return 0, err
	}
	return c.count(ctx, string(table))
}

func (c *CommonDB) count(ctx context.Context, table string) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, apperrors.WithKind(apperrors.KindPersistence, err, "count %s", table)
	}
	return count, nil
}

// GetAudioByHash looks up one audio record
func (c *CommonDB) GetAudioByHash(ctx context.Context, contentHash string) (*model.AudioRecord, error) {
	query := fmt.Sprintf(
		`SELECT id, entity_id, filename, path, content_hash, created_at, updated_at
		 FROM audio_files WHERE content_hash = %s`,
		c.placeholders(1),
	)

	var r model.AudioRecord
	err := c.db.QueryRowContext(ctx, query, contentHash).Scan(
		&r.ID, &r.EntityID, &r.Filename, &r.Path, &r.ContentHash, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("audio record", contentHash)
	}
	if err != nil {
		return nil, apperrors.WithKind(apperrors.KindPersistence, err, "query audio %s", contentHash)
	}
	return &r, nil
}

// ListTranscriptions returns transcription records, newest first
func (c *CommonDB) ListTranscriptions(ctx context.Context, limit int) ([]model.TranscriptionRecord, error) {
	query := `SELECT id, entity_id, model_name, filename, transcript_hash, transcript_text, created_at, updated_at
		 FROM transcriptions
		 ORDER BY created_at DESC, id DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT " + c.placeholders(1)
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.WithKind(apperrors.KindPersistence, err, "query transcriptions")
	}
	defer rows.Close()

	var records []model.TranscriptionRecord
	for rows.Next() {
		var r model.TranscriptionRecord
		if err := rows.Scan(
			&r.ID, &r.EntityID, &r.ModelName, &r.Filename,
			&r.TranscriptHash, &r.TranscriptText, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, apperrors.WithKind(apperrors.KindPersistence, err, "scan transcription")
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.WithKind(apperrors.KindPersistence, err, "rows error")
	}
	return records, nil
}

// InsertLog inserts one parsed log line unless its hash is already stored
func (c *CommonDB) InsertLog(ctx context.Context, table LogTable, entry model.LogEntry) (bool, error) {
	if err := table.validate(); err != nil {
		return false, err
	}

	var (
		query string
		args  []interface{}
	)
	switch table {
	case FrontendLogs:
		query = fmt.Sprintf(
			`INSERT INTO frontend_logs (log_timestamp, log_level, message, metadata, log_hash)
			 VALUES (%s) ON CONFLICT (log_hash) DO NOTHING`, c.params(5))
		args = []interface{}{entry.Timestamp, entry.Level, entry.Message, entry.Metadata, entry.Hash}
	default:
		query = fmt.Sprintf(
			`INSERT INTO backend_logs (log_timestamp, log_level, message, log_hash)
			 VALUES (%s) ON CONFLICT (log_hash) DO NOTHING`, c.params(4))
		args = []interface{}{entry.Timestamp, entry.Level, entry.Message, entry.Hash}
	}

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, apperrors.WithKind(apperrors.KindPersistence, err, "insert %s", table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.WithKind(apperrors.KindPersistence, err, "insert %s", table)
	}
	return n > 0, nil
}

func (t LogTable) validate() error {
	switch t {
	case BackendLogs, FrontendLogs:
		return nil
	}
	return apperrors.InvalidField("log table", string(t))
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (c *CommonDB) DB() *sql.DB {
	return c.db
}

// DriverName returns the database/sql driver in use
func (c *CommonDB) DriverName() string {
	return c.driverName
}

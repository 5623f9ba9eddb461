package repository

import (
	"context"

	"audio-pipeline/internal/app/model"
)

// LogTable names one of the two log tables filled by the log ETL.
type LogTable string

const (
	BackendLogs  LogTable = "backend_logs"
	FrontendLogs LogTable = "frontend_logs"
)

// Store is the dedup-aware persistence layer. Writes keyed by content hash are idempotent:
// a repeated hash only refreshes updated_at.
type Store interface {
	// EnsureSchema creates missing tables and indexes; it never alters existing ones.
	EnsureSchema(ctx context.Context) error

	// RecordAudio hashes the bytes at localPath and records them once per distinct content.
	// location is stored as the record's path; empty means localPath.
	RecordAudio(ctx context.Context, entityID, filename, localPath, location string) error

	// RecordTranscription hashes text and records it once per distinct transcript.
	RecordTranscription(ctx context.Context, entityID, modelName, filename, text string) error

	CountAudio(ctx context.Context) (int, error)
	CountTranscriptions(ctx context.Context) (int, error)
	GetAudioByHash(ctx context.Context, contentHash string) (*model.AudioRecord, error)

	// ListTranscriptions returns the newest records first; limit <= 0 means all.
	ListTranscriptions(ctx context.Context, limit int) ([]model.TranscriptionRecord, error)

	// InsertLog stores entry unless its hash is already present; inserted reports which happened.
	InsertLog(ctx context.Context, table LogTable, entry model.LogEntry) (inserted bool, err error)
	CountLogs(ctx context.Context, table LogTable) (int, error)

	Close() error
}

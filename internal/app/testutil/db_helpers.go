package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"audio-pipeline/internal/app/repository"
	"audio-pipeline/internal/app/repository/sqlite"
)

// SetupTestStore opens a sqlite store in a temporary directory and bootstraps the schema.
// The store is closed when the test finishes.
func SetupTestStore(t *testing.T) *repository.CommonDB {
	t.Helper()

	store, err := sqlite.NewSQLiteStore("file:" + filepath.Join(t.TempDir(), "data", "audio.db"))
	require.NoError(t, err, "failed to open sqlite test store")
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.EnsureSchema(context.Background()), "failed to create test tables")
	return store
}

// SeedTranscriptions records n distinct transcripts under one entity and returns that entity ID.
func SeedTranscriptions(t *testing.T, store repository.Store, modelName string, n int) string {
	t.Helper()

	entityID := uuid.NewString()
	for i := 0; i < n; i++ {
		filename := fmt.Sprintf("clip-%02d.wav", i)
		text := fmt.Sprintf("transcript number %d", i)
		require.NoError(t, store.RecordTranscription(context.Background(), entityID, modelName, filename, text))
	}
	return entityID
}

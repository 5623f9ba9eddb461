package logetl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-pipeline/internal/app/logging"
	"audio-pipeline/internal/app/model"
	"audio-pipeline/internal/app/repository"
	"audio-pipeline/internal/app/testutil"
)

func TestParseLine(t *testing.T) {
	entry, ok := ParseLine("2025-05-22 15:22:30,123 - ERROR - Something bad happened")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 5, 22, 15, 22, 30, 123000000, time.UTC), entry.Timestamp)
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "Something bad happened", entry.Message)
	assert.Equal(t, "7aca77a0f3d7c3cf5c546eb0a117c093ab591194edbf27f3ac52aa731bd202c4", entry.Hash)

	entry, ok = ParseLine("2025-05-22 15:22:30 - ERROR - Something bad happened")
	require.True(t, ok)
	assert.Equal(t, "e7c9ce9124cb4d5661781c56f4128bb8a2317cde68503a9a271810d737929ea5", entry.Hash)

	entry, ok = ParseLine("2025-05-22 15:22:30,123 - INFO - a - b - c")
	require.True(t, ok)
	assert.Equal(t, "a - b - c", entry.Message)

	for _, line := range []string{
		"",
		"Traceback (most recent call last):",
		"2025-05-22 - INFO - no time",
		"2025-13-40 99:99:99 - INFO - impossible date",
	} {
		_, ok := ParseLine(line)
		assert.False(t, ok, line)
	}
}

func TestSplitMetadata(t *testing.T) {
	msg, meta := SplitMetadata(`clicked | Metadata: {"button": "upload"}`)
	assert.Equal(t, "clicked", msg)
	require.NotNil(t, meta)
	assert.JSONEq(t, `{"button":"upload"}`, *meta)

	msg, meta = SplitMetadata(`clicked | Metadata: {'button': 'upload'}`)
	assert.Equal(t, "clicked", msg)
	require.NotNil(t, meta)
	assert.JSONEq(t, `{"button":"upload"}`, *meta)

	msg, meta = SplitMetadata(`clicked | Metadata: {not json`)
	assert.Equal(t, "clicked", msg)
	assert.Nil(t, meta)

	msg, meta = SplitMetadata("plain message")
	assert.Equal(t, "plain message", msg)
	assert.Nil(t, meta)
}

func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestIngester_ReingestIsNoop(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := testutil.SetupTestStore(t)

	backend := writeFile(t, dir, "app.log",
		"2025-05-22 15:22:30,123 - INFO - server started",
		"2025-05-22 15:22:31,000 - ERROR - backend failed",
		"    at some stack frame",
		"2025-05-22 15:22:30,123 - INFO - server started",
	)
	frontend := writeFile(t, dir, "frontend.log",
		`2025-05-22 15:22:32,500 - INFO - clicked | Metadata: {'button': 'upload'}`,
		"2025-05-22 15:22:33,000 - WARN - slow render",
	)

	ing := NewIngester(store, nil)
	stats, err := ing.Run(ctx, backend, frontend)
	require.NoError(t, err)
	assert.Equal(t, Stats{Lines: 4, Inserted: 2, Duplicates: 1, Skipped: 1}, stats[repository.BackendLogs])
	assert.Equal(t, Stats{Lines: 2, Inserted: 2}, stats[repository.FrontendLogs])

	again, err := ing.Run(ctx, backend, frontend)
	require.NoError(t, err)
	assert.Zero(t, again[repository.BackendLogs].Inserted)
	assert.Zero(t, again[repository.FrontendLogs].Inserted)

	n, err := store.CountLogs(ctx, repository.BackendLogs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = store.CountLogs(ctx, repository.FrontendLogs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIngester_MissingFileIsNotAnError(t *testing.T) {
	stats, err := NewIngester(testutil.SetupTestStore(t), nil).IngestFile(context.Background(), "/nonexistent/app.log", repository.BackendLogs)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

type flakySink struct {
	entries []model.LogEntry
}

func (s *flakySink) InsertLog(_ context.Context, _ repository.LogTable, entry model.LogEntry) (bool, error) {
	if strings.Contains(entry.Message, "poison") {
		return false, errors.New("constraint violated")
	}
	s.entries = append(s.entries, entry)
	return true, nil
}

func TestIngester_PerLineFailuresAreCounted(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.log",
		"2025-05-22 15:22:30 - INFO - first",
		"2025-05-22 15:22:31 - INFO - poison",
		"2025-05-22 15:22:32 - INFO - third",
	)
	sink := &flakySink{}

	stats, err := NewIngester(sink, nil).IngestFile(context.Background(), path, repository.BackendLogs)
	require.NoError(t, err)
	assert.Equal(t, Stats{Lines: 3, Inserted: 2, Failed: 1}, stats)
	require.Len(t, sink.entries, 2)
	assert.Equal(t, "third", sink.entries[1].Message)
}

func TestIngester_ReadsFrontendLoggerOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frontend.log")
	fl, err := logging.NewFrontendLogger(path)
	require.NoError(t, err)
	require.NoError(t, fl.Log("log", "upload finished", map[string]interface{}{"count": 2}))
	require.NoError(t, fl.Close())

	sink := &flakySink{}
	stats, err := NewIngester(sink, nil).IngestFile(context.Background(), path, repository.FrontendLogs)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)

	entry := sink.entries[0]
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "upload finished", entry.Message)
	require.NotNil(t, entry.Metadata)
	assert.JSONEq(t, `{"count":2}`, *entry.Metadata)
}

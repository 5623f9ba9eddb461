package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-pipeline/internal/app/api/provider"
)

func TestMockProvider_ResponseOrder(t *testing.T) {
	dir := t.TempDir()
	staged := WriteAudio(t, dir, "echo.wav", "bytes")

	m := NewMockProvider(provider.BackendWhisper)
	m.ResponseMap["mapped.wav"] = "mapped"
	m.ErrorMap["broken.wav"] = errors.New("boom")

	resp, err := m.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{FileName: "mapped.wav"})
	require.NoError(t, err)
	assert.Equal(t, "mapped", resp.Text)

	_, err = m.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{FileName: "broken.wav"})
	assert.EqualError(t, err, "boom")

	resp, err = m.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{FileName: "other.wav"})
	require.NoError(t, err)
	assert.Equal(t, m.DefaultResponse, resp.Text)

	m.EchoPrefix = "heard: "
	resp, err = m.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{FileName: "echo.wav", InputFilePath: staged})
	require.NoError(t, err)
	assert.Equal(t, "heard: bytes", resp.Text)

	assert.Equal(t, 4, m.CallCount())
	assert.Equal(t, "mapped.wav", m.Calls()[0].FileName)
}

func TestSeedTranscriptions(t *testing.T) {
	store := SetupTestStore(t)
	SeedTranscriptions(t, store, "whisper", 3)

	n, err := store.CountTranscriptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	records, err := store.ListTranscriptions(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

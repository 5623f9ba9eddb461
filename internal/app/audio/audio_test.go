package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-pipeline/internal/app/testutil"
)

func TestIs16kHzWavFile(t *testing.T) {
	dir := t.TempDir()

	ok16 := testutil.WriteWAV(t, dir, "ok.wav", 16000)
	got, err := Is16kHzWavFile(ok16)
	require.NoError(t, err)
	assert.True(t, got)

	cd := testutil.WriteWAV(t, dir, "cd.wav", 44100)
	got, err = Is16kHzWavFile(cd)
	require.NoError(t, err)
	assert.False(t, got)

	mp3 := filepath.Join(dir, "clip.mp3")
	require.NoError(t, os.WriteFile(mp3, []byte("ID3 not really audio"), 0644))
	got, err = Is16kHzWavFile(mp3)
	require.NoError(t, err)
	assert.False(t, got)

	_, err = Is16kHzWavFile(filepath.Join(dir, "missing.wav"))
	assert.Error(t, err)
}

func TestSupportedExt(t *testing.T) {
	assert.True(t, SupportedExt("a.MP3"))
	assert.True(t, SupportedExt("a.m4a"))
	assert.True(t, SupportedExt("a.wav"))
	assert.False(t, SupportedExt("a.flac"))
}

func TestConvertTo16kHzWav_UnsupportedFormat(t *testing.T) {
	_, err := ConvertTo16kHzWav(context.Background(), "/tmp/voice.ogg", t.TempDir())
	assert.ErrorContains(t, err, "unsupported audio format")
}

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFileHash_Deterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	require.NoError(t, os.WriteFile(a, []byte("RIFF-same-bytes"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("RIFF-same-bytes"), 0o644))

	ha, err := CalculateFileHash(a)
	require.NoError(t, err)
	hb, err := CalculateFileHash(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)
}

func TestCalculateFileHash_MissingFile(t *testing.T) {
	_, err := CalculateFileHash(filepath.Join(t.TempDir(), "nope.mp3"))
	assert.Error(t, err)
}

func TestHashText(t *testing.T) {
	// sha256("hello")
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", HashText("hello"))
	assert.NotEqual(t, HashText("hello"), HashText("hello "))
}

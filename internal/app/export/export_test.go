package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"audio-pipeline/internal/app/model"
)

func TestToExcel(t *testing.T) {
	created := time.Date(2025, 5, 22, 15, 22, 30, 0, time.UTC)
	records := []model.TranscriptionRecord{
		{ID: 2, EntityID: "batch-2", ModelName: "whisper", Filename: "b.wav", TranscriptHash: "h2", TranscriptText: "second", CreatedAt: created, UpdatedAt: created},
		{ID: 1, EntityID: "batch-1", ModelName: "deepgram", Filename: "a.mp3", TranscriptHash: "h1", TranscriptText: "first", CreatedAt: created, UpdatedAt: created},
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")

	require.NoError(t, ToExcel(records, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := file.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Transcription", sheet.Rows[0].Cells[7].Value)
	assert.Equal(t, "2", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "whisper", sheet.Rows[1].Cells[2].Value)
	assert.Equal(t, "2025-05-22T15:22:30Z", sheet.Rows[1].Cells[4].Value)
	assert.Equal(t, "first", sheet.Rows[2].Cells[7].Value)
}

func TestToExcel_BadPath(t *testing.T) {
	err := ToExcel(nil, filepath.Join(t.TempDir(), "missing", "out.xlsx"))
	assert.Error(t, err)
}

package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	apperrors "audio-pipeline/internal/app/errors"
	"audio-pipeline/internal/app/model"
)

// SheetName is the worksheet written by ToExcel.
const SheetName = "Transcriptions"

var header = []string{"ID", "Entity", "Model", "File Name", "Created At", "Updated At", "Transcript Hash", "Transcription"}

// ToExcel writes one row per transcription record below a header row.
func ToExcel(records []model.TranscriptionRecord, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return apperrors.Wrap(err, "failed to add sheet")
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().Value = h
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(r.ID)
		row.AddCell().Value = r.EntityID
		row.AddCell().Value = r.ModelName
		row.AddCell().Value = r.Filename
		row.AddCell().Value = r.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = r.UpdatedAt.Format(time.RFC3339)
		row.AddCell().Value = r.TranscriptHash
		row.AddCell().Value = r.TranscriptText
	}

	if err := file.Save(outputFilePath); err != nil {
		return apperrors.Wrapf(err, "failed to save %s", outputFilePath)
	}
	return nil
}

package model

import "time"

// AudioRecord is one persisted source audio file, unique by ContentHash.
type AudioRecord struct {
	ID          int64
	EntityID    string
	Filename    string
	Path        string
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TranscriptionRecord is one persisted transcript, unique by TranscriptHash.
type TranscriptionRecord struct {
	ID             int64
	EntityID       string
	ModelName      string
	Filename       string
	TranscriptHash string
	TranscriptText string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TranscriptionResult is what a caller gets back for one file.
type TranscriptionResult struct {
	Filename      string `json:"filename"`
	Transcription string `json:"transcription"`
}

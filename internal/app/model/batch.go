package model

import "audio-pipeline/internal/app/errors"

// ItemResult is the tagged outcome of one batch item.
type ItemResult struct {
	Filename      string      `json:"filename"`
	Transcription string      `json:"transcription"`
	Error         string      `json:"error,omitempty"`
	Kind          errors.Kind `json:"kind,omitempty"`
	Cached        bool        `json:"-"`
	Err           error       `json:"-"`
}

// OK reports whether the item produced a transcript.
func (r ItemResult) OK() bool {
	return r.Err == nil
}

// Result drops the failure details for the plain response shape.
func (r ItemResult) Result() TranscriptionResult {
	return TranscriptionResult{Filename: r.Filename, Transcription: r.Transcription}
}

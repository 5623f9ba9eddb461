package model

import "time"

// LogEntry is one parsed line of the backend or frontend log file.
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  *string // frontend only, JSON text
	Hash      string
}

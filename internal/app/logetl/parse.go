// Package logetl loads the backend and frontend log files into the log tables.
package logetl

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"audio-pipeline/internal/app/logging"
	"audio-pipeline/internal/app/model"
)

var linePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(?:,\d{1,6})?) - (\w+) - (.*)$`)

// ParseLine parses "YYYY-MM-DD HH:MM:SS[,fff] - LEVEL - message".
// The returned entry carries the raw message and its hash but no metadata.
func ParseLine(line string) (model.LogEntry, bool) {
	m := linePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return model.LogEntry{}, false
	}
	ts, err := time.Parse("2006-01-02 15:04:05", m[1])
	if err != nil {
		return model.LogEntry{}, false
	}
	return model.LogEntry{
		Timestamp: ts,
		Level:     m[2],
		Message:   m[3],
		Hash:      Hash(ts, m[2], m[3]),
	}, true
}

// Hash is the hex sha-256 of "<iso timestamp>|<level>|<message>". The ISO form carries
// microseconds only when the timestamp has a fractional part.
func Hash(ts time.Time, level, message string) string {
	sum := sha256.Sum256([]byte(isoformat(ts) + "|" + level + "|" + message))
	return hex.EncodeToString(sum[:])
}

func isoformat(ts time.Time) string {
	if ts.Nanosecond()/1000 != 0 {
		return ts.Format("2006-01-02T15:04:05.000000")
	}
	return ts.Format("2006-01-02T15:04:05")
}

// SplitMetadata separates "message | Metadata: {json}". Single quotes in the metadata are
// read as double quotes; metadata that still is not JSON is dropped.
func SplitMetadata(message string) (string, *string) {
	marker := strings.TrimRight(logging.MetadataMarker, " ")
	text, raw, found := strings.Cut(message, marker)
	if !found {
		return message, nil
	}
	text = strings.TrimSpace(text)

	var decoded interface{}
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), "'", `"`)
	if err := json.Unmarshal([]byte(normalized), &decoded); err != nil {
		return text, nil
	}
	compact, err := json.Marshal(decoded)
	if err != nil {
		return text, nil
	}
	out := string(compact)
	return text, &out
}

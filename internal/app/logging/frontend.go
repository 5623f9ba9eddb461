package logging

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apperrors "audio-pipeline/internal/app/errors"
)

// MetadataMarker separates a frontend message from its JSON metadata.
const MetadataMarker = " | Metadata: "

// ParseFrontendLevel maps a browser console level onto a zap level. "log" is info.
func ParseFrontendLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "log", "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	}
	return zapcore.InfoLevel, apperrors.InvalidField("level", fmt.Sprintf("%q is not one of log, info, warn, error, debug", s))
}

// FrontendLogger appends client-side log events to the frontend log file.
type FrontendLogger struct {
	logger *zap.Logger
	close  func()
}

// NewFrontendLogger opens path for appending. Every level down to debug is kept.
func NewFrontendLogger(path string) (*FrontendLogger, error) {
	sink, closeSink, err := zap.Open(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to open frontend log %q", path)
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(LineEncoderConfig()), sink, zapcore.DebugLevel)
	return &FrontendLogger{logger: zap.New(core), close: closeSink}, nil
}

// Log writes "message | Metadata: {json}", or just message when metadata is empty.
func (f *FrontendLogger) Log(level, message string, metadata map[string]interface{}) error {
	lvl, err := ParseFrontendLevel(level)
	if err != nil {
		return err
	}

	line := message
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return apperrors.WithKind(apperrors.KindInvalidInput, err, "metadata is not serializable")
		}
		line = message + MetadataMarker + string(raw)
	}

	if ce := f.logger.Check(lvl, line); ce != nil {
		ce.Write()
	}
	return nil
}

// Close flushes and closes the file.
func (f *FrontendLogger) Close() error {
	err := f.logger.Sync()
	f.close()
	return err
}

// Package logging builds the zap loggers used by the server and CLI.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TimeLayout is the timestamp layout of every line written to a log file.
const TimeLayout = "2006-01-02 15:04:05,000"

// Separator sits between timestamp, level and message in file lines.
const Separator = " - "

// LineEncoderConfig renders entries as "2006-01-02 15:04:05,000 - LEVEL - message".
// Structured fields follow the message as a JSON object.
func LineEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: Separator,
	}
}

// Options configure New.
type Options struct {
	Development bool
	// File, when set, receives a copy of every entry in the line layout.
	File string
	// Quiet drops the stderr core and keeps only the file.
	Quiet bool
}

// New builds a logger that writes to stderr and optionally tees into a log file.
// The returned close function flushes and closes the file.
func New(opts Options) (*zap.Logger, func(), error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Development {
		level.SetLevel(zapcore.DebugLevel)
	}

	var cores []zapcore.Core
	if !opts.Quiet {
		var enc zapcore.Encoder
		if opts.Development {
			cfg := zap.NewDevelopmentEncoderConfig()
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
			enc = zapcore.NewConsoleEncoder(cfg)
		} else {
			enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level))
	}

	closeFile := func() {}
	if opts.File != "" {
		sink, closeSink, err := zap.Open(opts.File)
		if err != nil {
			return nil, nil, err
		}
		closeFile = closeSink
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(LineEncoderConfig()), sink, level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return logger, func() {
		_ = logger.Sync()
		closeFile()
	}, nil
}

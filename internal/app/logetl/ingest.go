package logetl

import (
	"bufio"
	"context"
	"os"

	"go.uber.org/zap"

	apperrors "audio-pipeline/internal/app/errors"
	"audio-pipeline/internal/app/metrics"
	"audio-pipeline/internal/app/model"
	"audio-pipeline/internal/app/repository"
)

const maxLineBytes = 1 << 20

// Sink is the part of the store the ingester writes to.
type Sink interface {
	InsertLog(ctx context.Context, table repository.LogTable, entry model.LogEntry) (bool, error)
}

// Stats counts what happened to the lines of one file.
type Stats struct {
	Lines      int `json:"lines"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Ingester copies log files into the log tables. Re-running it over the same files
// inserts nothing new.
type Ingester struct {
	sink   Sink
	logger *zap.Logger
}

func NewIngester(sink Sink, logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{sink: sink, logger: logger.Named("logetl")}
}

// Run ingests the backend file into backend_logs and the frontend file into frontend_logs.
func (i *Ingester) Run(ctx context.Context, backendPath, frontendPath string) (map[repository.LogTable]Stats, error) {
	out := make(map[repository.LogTable]Stats, 2)

	backend, err := i.IngestFile(ctx, backendPath, repository.BackendLogs)
	if err != nil {
		return nil, err
	}
	out[repository.BackendLogs] = backend

	frontend, err := i.IngestFile(ctx, frontendPath, repository.FrontendLogs)
	if err != nil {
		return nil, err
	}
	out[repository.FrontendLogs] = frontend
	return out, nil
}

// IngestFile reads path line by line. A missing file is a warning. Lines that do not parse
// are skipped and lines the store rejects are counted as failed; neither stops the run.
func (i *Ingester) IngestFile(ctx context.Context, path string, table repository.LogTable) (Stats, error) {
	var stats Stats
	logger := i.logger.With(zap.String("file", path), zap.String("table", string(table)))

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("log file not found")
			return stats, nil
		}
		return stats, apperrors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Lines++

		entry, ok := ParseLine(scanner.Text())
		if !ok {
			stats.Skipped++
			metrics.LogLinesTotal.WithLabelValues(string(table), "skipped").Inc()
			continue
		}
		if table == repository.FrontendLogs {
			entry.Message, entry.Metadata = SplitMetadata(entry.Message)
		}

		inserted, err := i.sink.InsertLog(ctx, table, entry)
		switch {
		case err != nil:
			stats.Failed++
			metrics.LogLinesTotal.WithLabelValues(string(table), "failed").Inc()
			logger.Error("failed to process line", zap.Int("line", stats.Lines), zap.String("text", scanner.Text()), zap.Error(err))
		case inserted:
			stats.Inserted++
			metrics.LogLinesTotal.WithLabelValues(string(table), "inserted").Inc()
		default:
			stats.Duplicates++
			metrics.LogLinesTotal.WithLabelValues(string(table), "duplicate").Inc()
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, apperrors.Wrapf(err, "failed to read %s", path)
	}

	logger.Info("log file ingested",
		zap.Int("lines", stats.Lines),
		zap.Int("inserted", stats.Inserted),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

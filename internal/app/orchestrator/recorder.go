package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"audio-pipeline/internal/app/metrics"
	"audio-pipeline/internal/app/model"
	"audio-pipeline/internal/app/repository"
)

// PersistenceFailure describes one swallowed bookkeeping error.
type PersistenceFailure struct {
	Record   string // "audio" or "transcription"
	Filename string
	Err      error
}

// Recorder writes audio and transcription records without ever failing the caller.
type Recorder struct {
	store   repository.Store
	logger  *zap.Logger
	onError func(PersistenceFailure)
}

// NewRecorder wraps store. store may be nil, in which case nothing is recorded.
func NewRecorder(store repository.Store, logger *zap.Logger, onError func(PersistenceFailure)) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, logger: logger, onError: onError}
}

// Record persists the staged audio and its transcript. Writes survive cancellation of ctx.
func (r *Recorder) Record(ctx context.Context, entityID, modelName string, staged *model.StagedFile, text string) {
	if r == nil || r.store == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	if err := r.store.RecordAudio(ctx, entityID, staged.Filename, staged.LocalPath, staged.Origin); err != nil {
		r.fail("audio", staged.Filename, err)
	}
	if err := r.store.RecordTranscription(ctx, entityID, modelName, staged.Filename, text); err != nil {
		r.fail("transcription", staged.Filename, err)
	}
}

func (r *Recorder) fail(record, filename string, err error) {
	metrics.PersistenceFailuresTotal.WithLabelValues(record).Inc()
	r.logger.Error("persistence failed",
		zap.String("record", record),
		zap.String("filename", filename),
		zap.Error(err))
	if r.onError != nil {
		r.onError(PersistenceFailure{Record: record, Filename: filename, Err: err})
	}
}

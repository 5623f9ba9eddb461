// Package orchestrator runs a batch of audio references through staging,
// transcription and best-effort persistence.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"audio-pipeline/internal/app/api/provider"
	"audio-pipeline/internal/app/cache"
	apperrors "audio-pipeline/internal/app/errors"
	"audio-pipeline/internal/app/metrics"
	"audio-pipeline/internal/app/model"
	"audio-pipeline/internal/app/utils"
)

// Stager is the part of the resolver the orchestrator needs.
type Stager interface {
	OpenArea(namespace string) (string, error)
	CloseArea(namespace string) error
	Resolve(ctx context.Context, namespace string, ref model.AudioReference) (*model.StagedFile, error)
	Release(staged *model.StagedFile) error
}

// ProgressFunc observes finished items.
type ProgressFunc func(done, total int, item model.ItemResult)

// Options tune batch execution.
type Options struct {
	// Workers bounds how many items are in flight; values below 1 mean 1.
	Workers int
	// Policy is the default failure policy; empty means abort.
	Policy Policy
	// Progress is called once per finished item, serialized.
	Progress ProgressFunc
}

// Batch is one submitted unit of work.
type Batch struct {
	// ID names the working-area namespace. When empty a fresh one is created and
	// removed after the batch; when set the caller owns the namespace.
	ID      string
	Backend string
	Items   []model.AudioReference
	// Policy overrides Options.Policy when set.
	Policy Policy
}

// BatchResult carries one ItemResult per submitted item, in submission order.
type BatchResult struct {
	BatchID string
	Backend provider.BackendID
	Items   []model.ItemResult
}

// Results returns the plain {filename, transcription} list.
func (b *BatchResult) Results() []model.TranscriptionResult {
	out := make([]model.TranscriptionResult, len(b.Items))
	for i, item := range b.Items {
		out[i] = item.Result()
	}
	return out
}

// Failed counts items that did not produce a transcript.
func (b *BatchResult) Failed() int {
	n := 0
	for _, item := range b.Items {
		if !item.OK() {
			n++
		}
	}
	return n
}

// Orchestrator wires Resolver -> Backend -> Store.
type Orchestrator struct {
	stager   Stager
	registry provider.ProviderRegistry
	recorder *Recorder
	cache    cache.TranscriptCache
	stats    provider.ProviderMetrics
	logger   *zap.Logger
	opts     Options
}

// New creates an orchestrator. recorder, transcripts and stats may be nil.
func New(stager Stager, registry provider.ProviderRegistry, recorder *Recorder,
	transcripts cache.TranscriptCache, stats provider.ProviderMetrics, logger *zap.Logger, opts Options) *Orchestrator {
	if transcripts == nil {
		transcripts = cache.Noop{}
	}
	if stats == nil {
		stats = provider.NewProviderMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Policy == "" {
		opts.Policy = PolicyAbort
	}
	return &Orchestrator{
		stager:   stager,
		registry: registry,
		recorder: recorder,
		cache:    transcripts,
		stats:    stats,
		logger:   logger.Named("orchestrator"),
		opts:     opts,
	}
}

// Registry exposes the backend registry.
func (o *Orchestrator) Registry() provider.ProviderRegistry {
	return o.registry
}

// Stats exposes per-backend statistics.
func (o *Orchestrator) Stats() provider.ProviderMetrics {
	return o.stats
}

// RunBatch runs items against backendName with the default policy.
func (o *Orchestrator) RunBatch(ctx context.Context, backendName string, items []model.AudioReference) (*BatchResult, error) {
	return o.Run(ctx, Batch{Backend: backendName, Items: items})
}

// Run executes a batch. The backend is resolved before anything is staged.
// Under PolicyAbort (the default) the first failing item, or cancellation of ctx
// before every item finished, yields a *BatchError and no results. Under
// PolicyIsolate the error is only non-nil for batch-level problems.
func (o *Orchestrator) Run(ctx context.Context, b Batch) (*BatchResult, error) {
	backendID, backend, err := o.registry.Lookup(b.Backend)
	if err != nil {
		return nil, err
	}
	if len(b.Items) == 0 {
		return nil, apperrors.ErrEmptyBatch
	}

	policy := b.Policy
	if policy == "" {
		policy = o.opts.Policy
	}

	batchID := b.ID
	ownsArea := batchID == ""
	if ownsArea {
		batchID = uuid.NewString()
	}
	if _, err := o.stager.OpenArea(batchID); err != nil {
		return nil, err
	}
	if ownsArea {
		defer func() {
			if err := o.stager.CloseArea(batchID); err != nil {
				o.logger.Warn("failed to remove working area", zap.String("batch", batchID), zap.Error(err))
			}
		}()
	}

	logger := o.logger.With(zap.String("batch", batchID), zap.String("backend", string(backendID)))
	logger.Info("batch started", zap.Int("items", len(b.Items)), zap.String("policy", string(policy)))

	results := make([]model.ItemResult, len(b.Items))
	var (
		progressMu sync.Mutex
		done       int
	)
	finish := func(i int) {
		if o.opts.Progress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		done++
		o.opts.Progress(done, len(b.Items), results[i])
	}

	workers := o.opts.Workers
	if hasDuplicateNames(b.Items) {
		// items sharing a name share a staging path
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, ref := range b.Items {
		if policy == PolicyAbort && gctx.Err() != nil {
			break
		}
		i, ref := i, ref
		g.Go(func() error {
			if policy == PolicyAbort && gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = o.processItem(gctx, logger, batchID, backendID, backend, ref)
			finish(i)
			if policy == PolicyAbort && !results[i].OK() {
				return &BatchError{BatchID: batchID, Index: i, Filename: ref.Filename, Err: results[i].Err}
			}
			return nil
		})
	}

	err = g.Wait()
	if err == nil && policy == PolicyAbort && ctx.Err() != nil {
		if unfinished := cancelled(batchID, b.Items, results, ctx.Err()); unfinished != nil {
			err = unfinished
		}
	}
	if err != nil {
		var batchErr *BatchError
		if !errors.As(err, &batchErr) {
			if unfinished := cancelled(batchID, b.Items, results, err); unfinished != nil {
				err = unfinished
			}
		}
		logger.Warn("batch aborted", zap.Error(err))
		return nil, err
	}

	result := &BatchResult{BatchID: batchID, Backend: backendID, Items: results}
	logger.Info("batch finished", zap.Int("items", len(results)), zap.Int("failed", result.Failed()))
	return result, nil
}

// processItem runs one item through Pending -> Staged -> Transcribed -> Recorded -> Done.
// Staged bytes are released on every path.
func (o *Orchestrator) processItem(ctx context.Context, logger *zap.Logger, batchID string,
	backendID provider.BackendID, backend provider.TranscriptionProvider, ref model.AudioReference) model.ItemResult {

	fail := func(err error) model.ItemResult {
		metrics.ItemsTotal.WithLabelValues(string(backendID), "failed").Inc()
		logger.Warn("item failed", zap.String("filename", ref.Filename), zap.Error(err))
		return model.ItemResult{
			Filename: ref.Filename,
			Error:    err.Error(),
			Kind:     apperrors.KindOf(err),
			Err:      err,
		}
	}

	staged, err := o.stager.Resolve(ctx, batchID, ref)
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err := o.stager.Release(staged); err != nil {
			logger.Warn("failed to release staged file", zap.String("path", staged.LocalPath), zap.Error(err))
		}
	}()

	audioHash := ""
	if _, disabled := o.cache.(cache.Noop); !disabled {
		if audioHash, err = utils.CalculateFileHash(staged.LocalPath); err != nil {
			logger.Warn("cannot hash staged file", zap.String("filename", ref.Filename), zap.Error(err))
		}
	}

	if audioHash != "" {
		if text, ok := o.cache.Get(ctx, string(backendID), audioHash); ok {
			metrics.ItemsTotal.WithLabelValues(string(backendID), "cached").Inc()
			o.recorder.Record(ctx, batchID, string(backendID), staged, text)
			return model.ItemResult{Filename: ref.Filename, Transcription: text, Cached: true}
		}
	}

	start := time.Now()
	resp, err := backend.TranscriptWithOptions(ctx, &provider.TranscriptionRequest{
		InputFilePath: staged.LocalPath,
		FileName:      staged.Filename,
		RelPath:       staged.RelPath,
	})
	if err != nil {
		o.stats.RecordFailure(backendID, string(apperrors.KindOf(err)))
		return fail(err)
	}
	o.stats.RecordSuccess(backendID, time.Since(start).Milliseconds())

	if audioHash != "" {
		o.cache.Set(ctx, string(backendID), audioHash, resp.Text)
	}

	o.recorder.Record(ctx, batchID, string(backendID), staged, resp.Text)

	metrics.ItemsTotal.WithLabelValues(string(backendID), "ok").Inc()
	logger.Info("item transcribed", zap.String("filename", ref.Filename), zap.Int("chars", len(resp.Text)))
	return model.ItemResult{Filename: ref.Filename, Transcription: resp.Text}
}

// cancelled points an abort caused by the caller going away at the first unfinished item.
// It returns nil when every item finished anyway.
func cancelled(batchID string, items []model.AudioReference, results []model.ItemResult, err error) *BatchError {
	for i, item := range results {
		if item.Filename == "" {
			return &BatchError{BatchID: batchID, Index: i, Filename: items[i].Filename, Err: err}
		}
	}
	return nil
}

func hasDuplicateNames(items []model.AudioReference) bool {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.Filename]; ok {
			return true
		}
		seen[item.Filename] = struct{}{}
	}
	return false
}

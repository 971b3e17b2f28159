// Package engine ties the pieces together: it runs the context pipeline for a
// query, hands the enriched request to the agent runtime, and records the run.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/bunmyaku/internal/agent"
	"github.com/hyperjump/bunmyaku/internal/config"
	"github.com/hyperjump/bunmyaku/internal/history"
	"github.com/hyperjump/bunmyaku/internal/models"
	"github.com/hyperjump/bunmyaku/internal/pipeline"
	"github.com/hyperjump/bunmyaku/internal/techniques"
)

// Engine executes queries end to end.
type Engine struct {
	searcher techniques.Searcher
	runtime  agent.Runtime
	history  *history.Store
	logger   *zap.Logger
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithHistory attaches a run history store. Without one, runs are not recorded.
func WithHistory(h *history.Store) Option {
	return func(e *Engine) { e.history = h }
}

// New creates an engine over a searcher and an agent runtime.
func New(searcher techniques.Searcher, runtime agent.Runtime, opts ...Option) *Engine {
	e := &Engine{
		searcher: searcher,
		runtime:  runtime,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one query under the given configuration and returns the
// recorded run. Configuration errors abort before any module executes. A
// history write failure is logged but does not fail the run.
func (e *Engine) Run(ctx context.Context, query string, cfg *config.ContextConfig) (*models.RunRecord, error) {
	start := time.Now()

	// Modules hold per-request state, so each run gets fresh instances.
	p := pipeline.New(techniques.NewModules(e.searcher), pipeline.WithLogger(e.logger))
	result, err := p.Run(ctx, query, cfg)
	if err != nil {
		return nil, err
	}

	resp, err := e.runtime.Respond(ctx, &agent.Request{
		EnrichedMessage: result.Context.EnrichedMessage,
		Capabilities:    result.Capabilities,
	})
	if err != nil {
		return nil, err
	}

	run := &models.RunRecord{
		ID:                uuid.New().String(),
		Query:             query,
		Response:          agent.StripInvocationMarkers(resp.Text),
		Config:            cfg,
		Metrics:           result.Metrics.Numeric(),
		EnabledTechniques: cfg.EnabledTechniques(),
		Model:             cfg.Model,
		DurationMs:        float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:         start,
	}

	if e.history != nil {
		if recErr := e.history.Record(run); recErr != nil {
			e.logger.Warn("Failed to record run", zap.Error(recErr))
		}
	}

	e.logger.Info("Run completed",
		zap.String("run_id", run.ID),
		zap.Strings("techniques", run.EnabledTechniques),
		zap.Float64("duration_ms", run.DurationMs))
	return run, nil
}

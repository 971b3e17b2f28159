package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/bunmyaku/internal/agent"
	"github.com/hyperjump/bunmyaku/internal/config"
	"github.com/hyperjump/bunmyaku/internal/models"
)

// Pipeline holds an ordered, fixed list of module instances. The order is a
// correctness invariant: it is identical across requests so multi-run
// comparisons stay meaningful. Memory- and cache-like concerns run first so
// later modules see consolidated context; retrieval runs before modules that
// depend on retrieved text.
type Pipeline struct {
	modules []Module
	logger  *zap.Logger // optional
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a logger for module failure warnings.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline over the given modules, executed in the given order.
func New(modules []Module, opts ...Option) *Pipeline {
	p := &Pipeline{modules: modules}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the outcome of one pipeline run.
type Result struct {
	Context      *models.PipelineContext
	Capabilities []agent.Capability
	Metrics      *models.PipelineMetrics
}

// Run reconfigures every module from cfg, threads a fresh pipeline context
// through the enabled modules in fixed order, and aggregates metrics.
//
// Configuration errors are fatal and reported before any module runs. Runtime
// failures inside a module are contained at the module boundary: the context
// passes through that module unchanged and the failure lands in its metrics.
// When ctx expires mid-run the partial context is returned rather than hanging.
func (p *Pipeline) Run(ctx context.Context, query string, cfg *config.ContextConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, m := range p.modules {
		if err := m.Configure(cfg); err != nil {
			return nil, err
		}
	}

	pc := models.NewPipelineContext(query)
	start := time.Now()
	for _, m := range p.modules {
		if ctx.Err() != nil {
			if p.logger != nil {
				p.logger.Warn("pipeline deadline hit, returning partial context",
					zap.String("next_module", m.Name()))
			}
			break
		}
		if !m.Enabled() {
			continue
		}
		p.runModule(ctx, m, pc)
	}
	if pc.EnrichedMessage == "" {
		pc.EnrichedMessage = pc.OriginalQuery
	}

	var capabilities []agent.Capability
	for _, m := range p.modules {
		if !m.Enabled() {
			continue
		}
		if cp, ok := m.(CapabilityProvider); ok {
			capabilities = append(capabilities, cp.Capabilities()...)
		}
	}

	return &Result{
		Context:      pc,
		Capabilities: capabilities,
		Metrics: &models.PipelineMetrics{
			TotalTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
			Modules:     pc.ModuleMetrics,
		},
	}, nil
}

// runModule executes one module with the boundary guard: panics and errors are
// converted into an error annotation on that module's metrics entry, and
// exactly one entry is appended per enabled module.
func (p *Pipeline) runModule(ctx context.Context, m Module, pc *models.PipelineContext) {
	start := time.Now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return m.Process(ctx, pc)
	}()

	mm := m.Metrics()
	if mm == nil {
		mm = &models.ModuleMetrics{}
	}
	mm.ModuleName = m.Name()
	mm.ExecutionTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		if mm.TechniqueSpecific == nil {
			mm.TechniqueSpecific = make(map[string]interface{})
		}
		mm.TechniqueSpecific["error"] = err.Error()
		if p.logger != nil {
			p.logger.Warn("module failed, continuing with unmodified context",
				zap.String("module", m.Name()), zap.Error(err))
		}
	}
	pc.ModuleMetrics = append(pc.ModuleMetrics, mm)
}

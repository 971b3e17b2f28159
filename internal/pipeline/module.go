// Package pipeline orchestrates the ordered composition of technique modules
// for one request.
package pipeline

import (
	"context"

	"github.com/hyperjump/bunmyaku/internal/agent"
	"github.com/hyperjump/bunmyaku/internal/config"
	"github.com/hyperjump/bunmyaku/internal/models"
)

// Module is a pluggable, independently toggleable unit of context enrichment.
//
// Configure validates and stores technique-specific tunables. Enabled is a pure
// predicate read from configuration. Process may mutate the pipeline context
// when enabled; the orchestrator guards the boundary, so internal failures
// degrade to a no-op pass-through with an error annotation in that module's
// metrics. Metrics returns the most recent execution's metrics.
type Module interface {
	Name() string
	Configure(cfg *config.ContextConfig) error
	Enabled() bool
	Process(ctx context.Context, pc *models.PipelineContext) error
	Metrics() *models.ModuleMetrics
}

// CapabilityProvider is implemented by modules that expose callable
// capabilities to the agent runtime instead of (or in addition to) mutating
// the message. Capabilities of disabled modules are not collected, so toggling
// a module off removes its capability on the next run without a restart.
type CapabilityProvider interface {
	Capabilities() []agent.Capability
}

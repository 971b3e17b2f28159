// Package agent defines the boundary between the context pipeline and the
// conversational agent runtime. The core never depends on how the runtime reasons.
package agent

import "context"

// ToolResult is what a capability invocation returns to the runtime: formatted
// text for the model plus the structured documents behind it.
type ToolResult struct {
	Text      string                   `json:"text"`
	Documents []map[string]interface{} `json:"documents"`
}

// Handler executes one capability invocation.
type Handler func(ctx context.Context, query string) (*ToolResult, error)

// Capability is a callable the agent runtime may invoke zero or more times
// during its own reasoning.
type Capability struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
	Handler     Handler                `json:"-"`
}

// Request is what the pipeline hands the runtime.
type Request struct {
	EnrichedMessage string
	Capabilities    []Capability
}

// Invocation records one capability call made by the runtime.
type Invocation struct {
	Capability string                 `json:"capability"`
	Input      map[string]interface{} `json:"input"`
	Output     string                 `json:"output"`
}

// Response is what the runtime returns.
type Response struct {
	Text        string
	Invocations []Invocation
}

// Runtime turns an enriched request into a natural-language answer.
type Runtime interface {
	Respond(ctx context.Context, req *Request) (*Response, error)
}

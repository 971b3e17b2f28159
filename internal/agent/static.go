package agent

import "context"

// StaticRuntime is a Runtime that returns a fixed response, for tests and for
// exercising the pipeline without a model attached. When Text is empty it
// echoes the enriched message.
type StaticRuntime struct {
	Text string
}

// Respond returns the configured text, or the enriched message when none is set.
func (r *StaticRuntime) Respond(ctx context.Context, req *Request) (*Response, error) {
	text := r.Text
	if text == "" {
		text = req.EnrichedMessage
	}
	return &Response{Text: text}, nil
}

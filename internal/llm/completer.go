package llm

import "context"

// Completer is the single-call interface the engine components depend on.
// *Client satisfies it; tests substitute scripted fakes.
type Completer interface {
	// SimpleCall sends one system+user prompt pair and returns the text output.
	SimpleCall(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var _ Completer = (*Client)(nil)

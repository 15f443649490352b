package interfaces

import (
	"context"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
)

// LLMClient abstracts a hosted generative-model backend. Implementations
// are safe for use from concurrent call sites as long as each call site
// owns its own instance; the client performs no cross-call caching.
type LLMClient interface {
	// GenerateAnalysis sends one system+user prompt pair and returns the raw
	// response text. Transport and API errors propagate unchanged.
	GenerateAnalysis(ctx context.Context, systemPrompt, prompt string) (string, error)

	// Usage returns the token counters accumulated by this client instance.
	Usage() model.TokenUsage

	// Provider returns the backend name (e.g. "openai").
	Provider() string
}

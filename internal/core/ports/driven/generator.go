package driven

import "context"

// Generator produces text from a prompt. It fronts an external,
// possibly rate-limited, possibly slow service and carries no retry
// logic of its own; callers wrap invocations with the retry package.
//
// Implementations must classify rate-limit rejections as
// domain.RateLimitError at this boundary so the orchestrator never
// has to parse message text.
type Generator interface {
	// Generate produces a free-text completion.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// GenerateJSON produces a completion constrained to the given
	// JSON schema and returns the raw JSON text.
	GenerateJSON(ctx context.Context, prompt string, schema map[string]any) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

package outbound

import "context"

type GenerateTextRequest struct {
	SystemPrompt string
	Prompt       string
}

// TextGeneratorPort is the single polymorphic content-generation capability.
// The pipeline core never branches on provider identity; adapters exist per
// provider (OpenAI-compatible, Gemini, local runner, static). Failures are
// classified transient-vs-permanent via domain.TransientError.
type TextGeneratorPort interface {
	Generate(ctx context.Context, req GenerateTextRequest) (string, error)
}

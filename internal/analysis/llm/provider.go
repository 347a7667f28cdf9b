package llm

import "context"

// Prompt is everything a provider needs for one completion.
type Prompt struct {
	Model       string
	System      string
	User        string
	Temperature float32
}

type Provider interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

package analysis_test

import (
	"context"

	"github.com/akolanti/DocQuery/internal/analysis/llm"
)

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt llm.Prompt) (string, error)
	Prompts    []llm.Prompt
}

func (m *MockLLM) Generate(ctx context.Context, prompt llm.Prompt) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response", nil
}

type MockArtifacts struct {
	Texts map[string]string
	Err   error
}

func (m *MockArtifacts) ArtifactText(ctx context.Context, artifactId string) (string, bool, error) {
	if m.Err != nil {
		return "", false, m.Err
	}
	text, ok := m.Texts[artifactId]
	return text, ok, nil
}

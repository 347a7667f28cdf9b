package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/DocQuery/internal/analysis/llm"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/customHttpClient"
	"github.com/akolanti/DocQuery/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client *genai.Client
	logger *logger_i.Logger
}

func NewProvider(ctx context.Context, apiKey string) (llm.Provider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.Shared(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	logger := logger_i.NewLogger("llm_gemini")
	logger.Info("Gemini client created")
	return &llmClient{client: c, logger: logger}, nil
}

func (c *llmClient) Generate(ctx context.Context, prompt llm.Prompt) (string, error) {
	model := prompt.Model
	if model == "" {
		model = config.GeminiModelName
	}
	c.logger.WithTrace(ctx).Debug("Generating", "model", model)

	temperature := prompt.Temperature
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: prompt.System}},
		},
		Temperature: &temperature,
	}

	result, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt.User), contentConfig)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if result == nil {
		return "", errors.New("gemini returned no result")
	}
	return result.Text(), nil
}

package openaiLLM

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/DocQuery/internal/analysis/llm"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client openai.Client
	logger *logger_i.Logger
}

// NewProvider builds a chat-completions provider. Extra options (base url,
// custom http client) are passed straight to the sdk.
func NewProvider(apiKey string, opts ...option.RequestOption) (llm.Provider, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is empty")
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	logger := logger_i.NewLogger("llm_openai")
	logger.Info("OpenAI client created")
	return &llmClient{client: openai.NewClient(opts...), logger: logger}, nil
}

func (c *llmClient) Generate(ctx context.Context, prompt llm.Prompt) (string, error) {
	model := prompt.Model
	if model == "" {
		model = config.OpenAIModelName
	}
	c.logger.WithTrace(ctx).Debug("Generating", "model", model)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(float64(prompt.Temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

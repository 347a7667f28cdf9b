package bootstrap

import (
	"context"

	"github.com/akolanti/DocQuery/internal/analysis"
	"github.com/akolanti/DocQuery/internal/analysis/llm"
	"github.com/akolanti/DocQuery/internal/analysis/llm/gemini"
	"github.com/akolanti/DocQuery/internal/analysis/llm/openaiLLM"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/customHttpClient"
	"github.com/akolanti/DocQuery/internal/data/persistence"
	"github.com/akolanti/DocQuery/internal/data/store"
	"github.com/akolanti/DocQuery/internal/domain/docModel"
	"github.com/akolanti/DocQuery/internal/extraction"
	"github.com/akolanti/DocQuery/internal/workspace"
	"github.com/akolanti/DocQuery/pkg/logger_i"
	"github.com/openai/openai-go/option"
)

// Providers builds every analysis provider that has an api key. Missing keys are
// logged, not fatal; asking with that provider later returns a clear error.
func Providers(ctx context.Context, rt config.Runtime) map[string]llm.Provider {
	logger := logger_i.NewLogger("Bootstrap")
	providers := make(map[string]llm.Provider)

	if p, err := gemini.NewProvider(ctx, rt.GeminiAPIKey); err != nil {
		logger.Warn("Gemini provider unavailable", "error", err)
	} else {
		providers[config.ProviderGemini] = p
	}
	if p, err := openaiLLM.NewProvider(rt.OpenAIAPIKey, option.WithHTTPClient(customHttpClient.Shared())); err != nil {
		logger.Warn("OpenAI provider unavailable", "error", err)
	} else {
		providers[config.ProviderOpenAI] = p
	}
	return providers
}

// NewWorkspace assembles and restores the stores over the given substrates.
func NewWorkspace(ctx context.Context, subs Substrates, dispatcher docModel.Dispatcher, providers map[string]llm.Provider) *workspace.Service {
	codec := persistence.NewCodec(subs.State)
	extractor := extraction.NewLocalExtractor(subs.Artifacts)

	ws := workspace.NewService(
		codec,
		store.NewDocumentStore(codec, extractor, dispatcher),
		store.NewSessionStore(codec),
		store.NewChatStore(codec),
		analysis.NewService(extractor, providers),
	)
	ws.Restore(ctx)
	return ws
}

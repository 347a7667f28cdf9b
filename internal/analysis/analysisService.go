package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/DocQuery/internal/analysis/llm"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/domain/commonModels"
	"github.com/akolanti/DocQuery/internal/metrics"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

type Intent string

const (
	IntentSummary   Intent = "summary"
	IntentKeyPoints Intent = "key_points"
	IntentQuestion  Intent = "question"
)

var (
	ErrUnknownIntent       = errors.New("unknown intent")
	ErrEmptyQuery          = errors.New("a question needs a query")
	ErrArtifactNotFound    = errors.New("artifact not found")
	ErrProviderUnavailable = errors.New("analysis provider not configured")
)

func ParseIntent(s string) (Intent, error) {
	switch i := Intent(strings.TrimSpace(s)); i {
	case IntentSummary, IntentKeyPoints, IntentQuestion:
		return i, nil
	case "":
		return IntentQuestion, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIntent, s)
}

type Request struct {
	ArtifactId string
	Intent     Intent
	Query      string
	// History holds earlier turns of the conversation, oldest first.
	History []string
	Model   commonModels.ModelSettings
}

func (r Request) Validate() error {
	switch r.Intent {
	case IntentSummary, IntentKeyPoints:
		return nil
	case IntentQuestion:
		if strings.TrimSpace(r.Query) == "" {
			return ErrEmptyQuery
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownIntent, r.Intent)
}

type Result struct {
	Answer   string
	Evidence json.RawMessage
}

type evidence struct {
	Intent     Intent `json:"intent"`
	ArtifactId string `json:"artifactId"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	TextLength int    `json:"textLength"`
	Truncated  bool   `json:"truncated"`
}

// ArtifactReader resolves an artifact id to the extracted text.
type ArtifactReader interface {
	ArtifactText(ctx context.Context, artifactId string) (string, bool, error)
}

type Service interface {
	Analyze(ctx context.Context, req Request) (Result, error)
}

type service struct {
	artifacts ArtifactReader
	providers map[string]llm.Provider
	logger    *logger_i.Logger
}

// NewService takes the providers keyed by name (config.ProviderGemini, config.ProviderOpenAI).
// A provider that failed to initialize is simply left out.
func NewService(artifacts ArtifactReader, providers map[string]llm.Provider) Service {
	p := make(map[string]llm.Provider, len(providers))
	for name, provider := range providers {
		if provider != nil {
			p[name] = provider
		}
	}
	return &service{
		artifacts: artifacts,
		providers: p,
		logger:    logger_i.NewLogger("Analysis"),
	}
}

func (s *service) Analyze(ctx context.Context, req Request) (Result, error) {
	log := s.logger.WithTrace(ctx).With("artifactId", req.ArtifactId, "intent", req.Intent)

	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	providerName := req.Model.Provider
	if providerName == "" {
		providerName = config.DefaultProvider
	}
	provider, ok := s.providers[providerName]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrProviderUnavailable, providerName)
	}

	text, found, err := s.artifacts.ArtifactText(ctx, req.ArtifactId)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load artifact: %w", err)
	}
	if !found {
		return Result{}, ErrArtifactNotFound
	}
	text, truncated := truncateRunes(text, config.MaxArtifactPromptRunes)

	analyzeCtx, cancel := context.WithTimeout(ctx, config.AnalysisTimeout)
	defer cancel()

	start := time.Now()
	answer, err := provider.Generate(analyzeCtx, llm.Prompt{
		Model:       req.Model.Model,
		System:      config.ModelContext,
		User:        buildPrompt(req, text),
		Temperature: req.Model.Temperature,
	})
	metrics.CaptureExecutionMetrics("llm_generation", time.Since(start))
	if err != nil {
		log.Error("Analysis failed", "provider", providerName, "error", err)
		return Result{}, fmt.Errorf("analysis failed: %w", err)
	}

	ev, err := json.Marshal(evidence{
		Intent:     req.Intent,
		ArtifactId: req.ArtifactId,
		Provider:   providerName,
		Model:      req.Model.Model,
		TextLength: len([]rune(text)),
		Truncated:  truncated,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode evidence: %w", err)
	}

	log.Debug("Analysis complete", "provider", providerName)
	return Result{Answer: strings.TrimSpace(answer), Evidence: ev}, nil
}

func buildPrompt(req Request, text string) string {
	var b strings.Builder
	b.WriteString("Document:\n")
	b.WriteString(text)
	b.WriteString("\n\n")

	if history := lastN(req.History, config.MaxHistoryMessages); len(history) > 0 {
		b.WriteString("Earlier conversation:\n")
		b.WriteString(strings.Join(history, "\n"))
		b.WriteString("\n\n")
	}

	switch req.Intent {
	case IntentSummary:
		b.WriteString("Write a concise summary of the document.")
	case IntentKeyPoints:
		b.WriteString("List the key points of the document as short bullet points.")
	case IntentQuestion:
		b.WriteString("User Question: ")
		b.WriteString(strings.TrimSpace(req.Query))
	}
	if req.Intent != IntentQuestion && strings.TrimSpace(req.Query) != "" {
		b.WriteString("\nFocus on: ")
		b.WriteString(strings.TrimSpace(req.Query))
	}
	return b.String()
}

func truncateRunes(s string, limit int) (string, bool) {
	r := []rune(s)
	if len(r) <= limit {
		return s, false
	}
	return string(r[:limit]), true
}

func lastN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

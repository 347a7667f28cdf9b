package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/akolanti/DocQuery/internal/analysis"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/data/persistence"
	"github.com/akolanti/DocQuery/internal/data/store"
	"github.com/akolanti/DocQuery/internal/domain/chatModel"
	"github.com/akolanti/DocQuery/internal/domain/commonModels"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrAlreadyAttached      = errors.New("document already attached to session")
	ErrNoActiveDocument     = errors.New("session has no active document")
	ErrDocumentNotQueryable = errors.New("active document is not parsed")
	ErrAlreadySending       = errors.New("another question is still being answered")
	ErrInvalidSettings      = errors.New("invalid model settings")
	ErrEmptyQuery           = analysis.ErrEmptyQuery
	ErrUnknownIntent        = analysis.ErrUnknownIntent
)

type AskRequest struct {
	SessionId string
	Intent    string
	Query     string
}

type AskResult struct {
	Question chatModel.Message
	Answer   chatModel.Message
}

// Service composes the three stores with the analysis collaborator. The stores
// stay independent; cross-entity checks live here.
type Service struct {
	Documents *store.DocumentStore
	Sessions  *store.SessionStore
	Chat      *store.ChatStore

	codec    *persistence.Codec
	analyzer analysis.Service
	logger   *logger_i.Logger

	settingsMu sync.RWMutex
	settings   commonModels.ModelSettings
}

func NewService(codec *persistence.Codec, documents *store.DocumentStore, sessions *store.SessionStore, chat *store.ChatStore, analyzer analysis.Service) *Service {
	return &Service{
		Documents: documents,
		Sessions:  sessions,
		Chat:      chat,
		codec:     codec,
		analyzer:  analyzer,
		logger:    logger_i.NewLogger("Workspace"),
		settings:  DefaultSettings(),
	}
}

func DefaultSettings() commonModels.ModelSettings {
	return commonModels.ModelSettings{
		Provider:    config.DefaultProvider,
		Model:       defaultModelFor(config.DefaultProvider),
		Temperature: config.ModelTemperature,
	}
}

func defaultModelFor(provider string) string {
	if provider == config.ProviderOpenAI {
		return config.OpenAIModelName
	}
	return config.GeminiModelName
}

// Restore rebuilds every store and the settings from the substrate.
func (s *Service) Restore(ctx context.Context) {
	s.restore(ctx, true)
}

// restore keeps the sending flag when resetSending is false, so a clear cannot
// release the guard of an Ask still in flight.
func (s *Service) restore(ctx context.Context, resetSending bool) {
	s.Documents.Restore(ctx)
	s.Sessions.Restore(ctx)
	if resetSending {
		s.Chat.Restore(ctx)
	} else {
		s.Chat.Reload(ctx)
	}

	settings, ok := s.codec.LoadSettings(ctx)
	if ok {
		if normalized, err := normalizeSettings(settings); err == nil {
			settings = normalized
		} else {
			s.logger.WithTrace(ctx).Warn("stored settings rejected, using defaults", "error", err)
			ok = false
		}
	}
	if !ok {
		settings = DefaultSettings()
	}
	s.settingsMu.Lock()
	s.settings = settings
	s.settingsMu.Unlock()
}

// ClearStorage drops one entity family and reloads the stores so memory matches
// the substrate. Settings are left alone.
func (s *Service) ClearStorage(ctx context.Context, family persistence.Family) {
	s.codec.Clear(ctx, family)
	switch family {
	case persistence.FamilyDocuments:
		s.Documents.Restore(ctx)
	case persistence.FamilySessions:
		s.Sessions.Restore(ctx)
	case persistence.FamilyChat:
		s.Chat.Reload(ctx)
	}
	s.logger.WithTrace(ctx).Info("storage cleared", "family", family)
}

func (s *Service) ClearAll(ctx context.Context) {
	s.codec.ClearAll(ctx)
	s.restore(ctx, false)
	s.logger.WithTrace(ctx).Info("all storage cleared")
}

func (s *Service) Settings() commonModels.ModelSettings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.settings
}

func (s *Service) UpdateSettings(ctx context.Context, settings commonModels.ModelSettings) (commonModels.ModelSettings, error) {
	normalized, err := normalizeSettings(settings)
	if err != nil {
		return commonModels.ModelSettings{}, err
	}
	s.settingsMu.Lock()
	s.settings = normalized
	s.codec.SaveSettings(ctx, normalized)
	s.settingsMu.Unlock()
	return normalized, nil
}

func normalizeSettings(settings commonModels.ModelSettings) (commonModels.ModelSettings, error) {
	settings.Provider = strings.TrimSpace(settings.Provider)
	settings.Model = strings.TrimSpace(settings.Model)
	if settings.Provider == "" {
		settings.Provider = config.DefaultProvider
	}
	if settings.Provider != config.ProviderGemini && settings.Provider != config.ProviderOpenAI {
		return settings, fmt.Errorf("%w: unknown provider %q", ErrInvalidSettings, settings.Provider)
	}
	if settings.Temperature < 0 || settings.Temperature > 2 {
		return settings, fmt.Errorf("%w: temperature must be between 0 and 2", ErrInvalidSettings)
	}
	if settings.Model == "" {
		settings.Model = defaultModelFor(settings.Provider)
	}
	return settings, nil
}

// AttachDocument adds an existing document to an existing session.
func (s *Service) AttachDocument(ctx context.Context, sessionId string, docId string) error {
	if _, ok := s.Sessions.GetSession(sessionId); !ok {
		return ErrSessionNotFound
	}
	if _, ok := s.Documents.GetDocument(docId); !ok {
		return ErrDocumentNotFound
	}
	if !s.Sessions.AddDocumentToSession(ctx, sessionId, docId) {
		return ErrAlreadyAttached
	}
	return nil
}

// Ask answers one query against the session's active document and records both
// sides of the exchange. A failed analysis leaves only the question in the log.
func (s *Service) Ask(ctx context.Context, req AskRequest) (AskResult, error) {
	log := s.logger.WithTrace(ctx).With("sessionId", req.SessionId)

	intent, err := analysis.ParseIntent(req.Intent)
	if err != nil {
		return AskResult{}, err
	}
	query := strings.TrimSpace(req.Query)
	if intent == analysis.IntentQuestion && query == "" {
		return AskResult{}, ErrEmptyQuery
	}

	session, ok := s.Sessions.GetSession(req.SessionId)
	if !ok {
		return AskResult{}, ErrSessionNotFound
	}
	if session.ActiveDocumentId == "" {
		return AskResult{}, ErrNoActiveDocument
	}
	// the active document is a weak reference and may have been cleared
	artifactId, ok := s.Documents.ArtifactFor(session.ActiveDocumentId)
	if !ok {
		return AskResult{}, ErrDocumentNotQueryable
	}

	if !s.Chat.TryBeginSending() {
		return AskResult{}, ErrAlreadySending
	}
	defer s.Chat.SetSending(false)

	history := formatHistory(s.Chat.GetMessages(session.Id))

	content := query
	if content == "" {
		content = string(intent)
	}
	question, _ := s.Chat.AddMessage(ctx, session.Id, chatModel.RoleUser, content, nil)

	res, err := s.analyzer.Analyze(ctx, analysis.Request{
		ArtifactId: artifactId,
		Intent:     intent,
		Query:      query,
		History:    history,
		Model:      s.Settings(),
	})
	if err != nil {
		if errors.Is(err, analysis.ErrArtifactNotFound) {
			s.Documents.DropArtifact(ctx, session.ActiveDocumentId, artifactId)
		}
		log.Error("Ask failed", "documentId", session.ActiveDocumentId, "error", err)
		return AskResult{Question: question}, err
	}

	answer, _ := s.Chat.AddMessage(ctx, session.Id, chatModel.RoleAssistant, res.Answer, res.Evidence)
	log.Debug("Ask answered", "documentId", session.ActiveDocumentId, "messageId", answer.Id)
	return AskResult{Question: question, Answer: answer}, nil
}

func formatHistory(msgs []chatModel.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return out
}

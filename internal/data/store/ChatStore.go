package store

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocQuery/internal/data/persistence"
	"github.com/akolanti/DocQuery/internal/domain/chatModel"
	"github.com/akolanti/DocQuery/pkg/logger_i"
	"github.com/oklog/ulid/v2"
)

// ChatStore keeps an append-only message log per session id. The sending flag is
// process-local and never persisted.
type ChatStore struct {
	mu      sync.RWMutex
	logs    map[string][]chatModel.Message
	sending atomic.Bool
	entropy *ulid.MonotonicEntropy
	codec   *persistence.Codec
	logger  *logger_i.Logger
	now     func() time.Time
}

func NewChatStore(codec *persistence.Codec) *ChatStore {
	return &ChatStore{
		logs:    make(map[string][]chatModel.Message),
		entropy: ulid.Monotonic(rand.Reader, 0),
		codec:   codec,
		logger:  logger_i.NewLogger("ChatStore"),
		now:     time.Now,
	}
}

// AddMessage appends to the session's log, creating it if needed.
// It reports false for an empty session id or a role the codec would not restore.
func (s *ChatStore) AddMessage(ctx context.Context, sessionId string, role chatModel.Role, content string, evidence json.RawMessage) (chatModel.Message, bool) {
	if sessionId == "" || !role.Valid() {
		return chatModel.Message{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	msg := chatModel.Message{
		Id:        ulid.MustNew(ulid.Timestamp(now), s.entropy).String(),
		Role:      role,
		Content:   content,
		Evidence:  slices.Clone(evidence),
		CreatedAt: now,
	}
	s.logs[sessionId] = append(s.logs[sessionId], msg)
	s.persistLocked(ctx)

	s.logger.WithTrace(ctx).Debug("message added", "sessionId", sessionId, "role", role, "id", msg.Id)
	return msg.Clone(), true
}

// GetMessages returns a copy of the log; callers cannot reach store-owned state through it.
func (s *ChatStore) GetMessages(sessionId string) []chatModel.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log := s.logs[sessionId]
	out := make([]chatModel.Message, len(log))
	for i, m := range log {
		out[i] = m.Clone()
	}
	return out
}

func (s *ChatStore) SetSending(sending bool) {
	s.sending.Store(sending)
}

// TryBeginSending raises the sending flag unless it is already up.
func (s *ChatStore) TryBeginSending() bool {
	return s.sending.CompareAndSwap(false, true)
}

func (s *ChatStore) IsSending() bool {
	return s.sending.Load()
}

// Restore loads the logs and lowers the sending flag, as on a fresh start.
func (s *ChatStore) Restore(ctx context.Context) {
	s.Reload(ctx)
	s.sending.Store(false)
}

// Reload replaces the logs from the codec and leaves the sending flag as is.
func (s *ChatStore) Reload(ctx context.Context) {
	logs, _ := s.codec.LoadChat(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = make(map[string][]chatModel.Message, len(logs))
	for sessionId, msgs := range logs {
		s.logs[sessionId] = msgs
	}
	s.logger.WithTrace(ctx).Info("chat restored", "sessions", len(s.logs))
}

func (s *ChatStore) persistLocked(ctx context.Context) {
	s.codec.SaveChat(ctx, s.logs)
}

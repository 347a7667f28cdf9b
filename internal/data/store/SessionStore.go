package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/DocQuery/internal/adapter/utils"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/data/persistence"
	"github.com/akolanti/DocQuery/internal/domain/sessionModel"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

// SessionStore owns sessions and the global active-session pointer. Documents are
// referenced by id only; a referenced id may not resolve.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionModel.Session
	order    []string
	activeId string
	codec    *persistence.Codec
	logger   *logger_i.Logger
	now      func() time.Time
}

func NewSessionStore(codec *persistence.Codec) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionModel.Session),
		codec:    codec,
		logger:   logger_i.NewLogger("SessionStore"),
		now:      time.Now,
	}
}

// CreateSession makes a new ACTIVE session and points the global active id at it.
func (s *SessionStore) CreateSession(ctx context.Context, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = config.DefaultSessionName
	}
	session := &sessionModel.Session{
		Id:          utils.GetNewUUID(),
		Name:        name,
		State:       sessionModel.SessionActive,
		CreatedAt:   s.now().UTC(),
		DocumentIds: []string{},
	}
	s.sessions[session.Id] = session
	s.order = append(s.order, session.Id)
	s.activeId = session.Id
	s.persistLocked(ctx)

	s.logger.WithTrace(ctx).Debug("session created", "id", session.Id, "name", name)
	return session.Id
}

func (s *SessionStore) RenameSession(ctx context.Context, id string, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return false
	}
	session.Name = name
	s.persistLocked(ctx)
	return true
}

func (s *SessionStore) SetActiveSession(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	s.activeId = id
	s.persistLocked(ctx)
	return true
}

// AddDocumentToSession appends docId and selects it as the active document.
func (s *SessionStore) AddDocumentToSession(ctx context.Context, sessionId string, docId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionId]
	if !ok || docId == "" || session.HasDocument(docId) {
		return false
	}
	session.DocumentIds = append(session.DocumentIds, docId)
	session.ActiveDocumentId = docId
	s.persistLocked(ctx)

	s.logger.WithTrace(ctx).Debug("document added to session", "sessionId", sessionId, "documentId", docId)
	return true
}

// SetActiveDocument only selects documents already in the session.
func (s *SessionStore) SetActiveDocument(ctx context.Context, sessionId string, docId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionId]
	if !ok || !session.HasDocument(docId) {
		return false
	}
	session.ActiveDocumentId = docId
	s.persistLocked(ctx)
	return true
}

func (s *SessionStore) GetActiveSession() (sessionModel.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[s.activeId]
	if !ok {
		return sessionModel.Session{}, false
	}
	return session.Clone(), true
}

func (s *SessionStore) GetSession(id string) (sessionModel.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return sessionModel.Session{}, false
	}
	return session.Clone(), true
}

func (s *SessionStore) ListSessions() []sessionModel.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sessionModel.Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sessions[id].Clone())
	}
	return out
}

// Restore loads sessions and the active pointer. Sessions make no claims about
// external processes, so nothing is downgraded here.
func (s *SessionStore) Restore(ctx context.Context) {
	snap, _ := s.codec.LoadSessions(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*sessionModel.Session, len(snap.Sessions))
	s.order = make([]string, 0, len(snap.Sessions))
	for i := range snap.Sessions {
		session := snap.Sessions[i].Clone()
		s.sessions[session.Id] = &session
		s.order = append(s.order, session.Id)
	}
	s.activeId = snap.ActiveSessionId
	s.logger.WithTrace(ctx).Info("sessions restored", "count", len(s.order), "activeId", s.activeId)
}

func (s *SessionStore) persistLocked(ctx context.Context) {
	snap := persistence.SessionSnapshot{
		Sessions:        make([]sessionModel.Session, 0, len(s.order)),
		ActiveSessionId: s.activeId,
	}
	for _, id := range s.order {
		snap.Sessions = append(snap.Sessions, *s.sessions[id])
	}
	s.codec.SaveSessions(ctx, snap)
}

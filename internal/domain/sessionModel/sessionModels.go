package sessionModel

import (
	"slices"
	"time"
)

type SessionState string

const (
	SessionCreated  SessionState = "CREATED"
	SessionActive   SessionState = "ACTIVE"
	SessionArchived SessionState = "ARCHIVED"
)

func (s SessionState) Valid() bool {
	return s == SessionCreated || s == SessionActive || s == SessionArchived
}

type Session struct {
	Id               string
	Name             string
	State            SessionState
	CreatedAt        time.Time
	DocumentIds      []string
	ActiveDocumentId string
}

func (s Session) HasDocument(docId string) bool {
	return slices.Contains(s.DocumentIds, docId)
}

func (s Session) Clone() Session {
	s.DocumentIds = slices.Clone(s.DocumentIds)
	return s
}

package persistence

import (
	"encoding/json"
	"time"

	"github.com/akolanti/DocQuery/internal/domain/chatModel"
	"github.com/akolanti/DocQuery/internal/domain/docModel"
	"github.com/akolanti/DocQuery/internal/domain/sessionModel"
)

// Records are the allow-list of persisted fields. Anything not named here never
// reaches the substrate, no matter what the domain structs grow.

type documentRecord struct {
	Id         string         `json:"id"`
	State      string         `json:"state"`
	Metadata   metadataRecord `json:"metadata"`
	ArtifactId *string        `json:"artifactId"`
	ParseError *string        `json:"parseError"`
	TextLength int            `json:"textLength,omitempty"`
}

type metadataRecord struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"type"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type sessionsRecord struct {
	Sessions        []json.RawMessage `json:"sessions"`
	ActiveSessionId *string           `json:"activeSessionId"`
}

type sessionRecord struct {
	Id               string    `json:"id"`
	Name             string    `json:"name"`
	State            string    `json:"state"`
	CreatedAt        time.Time `json:"createdAt"`
	DocumentIds      []string  `json:"documentIds"`
	ActiveDocumentId *string   `json:"activeDocumentId"`
}

type messageRecord struct {
	Id        string          `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Evidence  json.RawMessage `json:"evidence"`
	CreatedAt time.Time       `json:"createdAt"`
}

type settingsRecord struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDocumentRecord(d docModel.Document) documentRecord {
	return documentRecord{
		Id:    d.Id,
		State: string(d.State),
		Metadata: metadataRecord{
			Name:       d.Metadata.Name,
			Size:       d.Metadata.Size,
			MimeType:   d.Metadata.MimeType,
			UploadedAt: d.Metadata.UploadedAt,
		},
		ArtifactId: optional(d.ArtifactId),
		ParseError: optional(d.ParseError),
		TextLength: d.TextLength,
	}
}

func toSessionRecord(s sessionModel.Session) sessionRecord {
	ids := s.DocumentIds
	if ids == nil {
		ids = []string{}
	}
	return sessionRecord{
		Id:               s.Id,
		Name:             s.Name,
		State:            string(s.State),
		CreatedAt:        s.CreatedAt,
		DocumentIds:      ids,
		ActiveDocumentId: optional(s.ActiveDocumentId),
	}
}

func toMessageRecord(m chatModel.Message) messageRecord {
	evidence := m.Evidence
	if len(evidence) == 0 {
		evidence = json.RawMessage("null")
	}
	return messageRecord{
		Id:        m.Id,
		Role:      string(m.Role),
		Content:   m.Content,
		Evidence:  evidence,
		CreatedAt: m.CreatedAt,
	}
}

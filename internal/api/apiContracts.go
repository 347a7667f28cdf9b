package api

import (
	"encoding/json"
	"time"
)

type ErrorResponse struct {
	Id      string `json:"id,omitempty" example:"3f0c2a9e-2d4e-4b61-9a55-7c1c8f0e2b10"`
	Code    int    `json:"code" example:"404"`
	Message string `json:"message" example:"Document not found"`
}

type ContentMetrics struct {
	Characters      int    `json:"characters" example:"18234"`
	CharactersHuman string `json:"characters_human" example:"18,234"`
	ApproxTokens    int    `json:"approx_tokens" example:"4558"`
}

type DocumentResponse struct {
	Id             string          `json:"id"`
	Name           string          `json:"name" example:"report.pdf"`
	State          string          `json:"state" example:"PARSED"`
	Size           int64           `json:"size" example:"52340"`
	SizeHuman      string          `json:"size_human" example:"52 kB"`
	MimeType       string          `json:"mime_type" example:"application/pdf"`
	UploadedAt     time.Time       `json:"uploaded_at"`
	UploadedAgo    string          `json:"uploaded_ago" example:"3 minutes ago"`
	HasFile        bool            `json:"has_file"`
	Queryable      bool            `json:"queryable"`
	ParseError     string          `json:"parse_error,omitempty"`
	ContentMetrics *ContentMetrics `json:"content_metrics,omitempty"`
}

type ParseResponse struct {
	Document  DocumentResponse `json:"document"`
	StatusURL string           `json:"status_url" example:"documents/3f0c2a9e"`
}

type SessionResponse struct {
	Id               string    `json:"id"`
	Name             string    `json:"name" example:"Quarterly review"`
	State            string    `json:"state" example:"ACTIVE"`
	CreatedAt        time.Time `json:"created_at"`
	DocumentIds      []string  `json:"document_ids"`
	ActiveDocumentId string    `json:"active_document_id,omitempty"`
	Active           bool      `json:"active"`
}

type SessionListResponse struct {
	Sessions        []SessionResponse `json:"sessions"`
	ActiveSessionId string            `json:"active_session_id,omitempty"`
}

type MessageResponse struct {
	Id        string          `json:"id"`
	Role      string          `json:"role" example:"assistant"`
	Content   string          `json:"content"`
	Evidence  json.RawMessage `json:"evidence,omitempty" swaggertype:"object"`
	CreatedAt time.Time       `json:"created_at"`
}

type MessagesResponse struct {
	SessionId string            `json:"session_id"`
	Sending   bool              `json:"sending"`
	Messages  []MessageResponse `json:"messages"`
}

type AskResponse struct {
	Question MessageResponse `json:"question"`
	Answer   MessageResponse `json:"answer"`
}

type SettingsResponse struct {
	Provider    string  `json:"provider" example:"gemini"`
	Model       string  `json:"model" example:"gemini-2.5-flash-lite-preview-09-2025"`
	Temperature float32 `json:"temperature" example:"0.7"`
}

// requests---------------------

type CreateSessionRequest struct {
	Name string `json:"name" example:"Quarterly review"`
}

type RenameSessionRequest struct {
	Name string `json:"name" validate:"required"`
}

type SetActiveSessionRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type DocumentRefRequest struct {
	DocumentId string `json:"document_id" validate:"required"`
}

type AskRequest struct {
	Intent string `json:"intent,omitempty" example:"question" enums:"summary,key_points,question"`
	Query  string `json:"query" example:"What were the main risks?"`
}

type SettingsRequest struct {
	Provider    string  `json:"provider" example:"openai"`
	Model       string  `json:"model,omitempty"`
	Temperature float32 `json:"temperature" example:"0.2"`
}

package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/DocQuery/internal/workspace"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "0.1.0"

// Server exposes a read-only view of the workspace as MCP tools.
type Server struct {
	ws     *workspace.Service
	server *mcp.Server
}

func NewServer(ws *workspace.Service) (*Server, error) {
	if ws == nil {
		return nil, errors.New("workspace is required")
	}
	s := &Server{
		ws:     ws,
		server: mcp.NewServer(&mcp.Implementation{Name: "docquery", Version: Version}, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

type ListDocumentsInput struct{}

type DocumentOutput struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	State      string `json:"state"`
	Size       int64  `json:"size"`
	UploadedAt string `json:"uploaded_at"`
	Queryable  bool   `json:"queryable"`
	ParseError string `json:"parse_error,omitempty"`
	TextLength int    `json:"text_length,omitempty"`
}

type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

type ListSessionsInput struct{}

type SessionOutput struct {
	Id               string   `json:"id"`
	Name             string   `json:"name"`
	State            string   `json:"state"`
	CreatedAt        string   `json:"created_at"`
	DocumentIds      []string `json:"document_ids"`
	ActiveDocumentId string   `json:"active_document_id,omitempty"`
}

type ListSessionsOutput struct {
	Sessions        []SessionOutput `json:"sessions"`
	ActiveSessionId string          `json:"active_session_id,omitempty"`
}

type SessionMessagesInput struct {
	SessionId string `json:"session_id" jsonschema:"id of the session whose chat log to return"`
}

type MessageOutput struct {
	Id        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Evidence  string `json:"evidence,omitempty"`
	CreatedAt string `json:"created_at"`
}

type SessionMessagesOutput struct {
	SessionId string          `json:"session_id"`
	Messages  []MessageOutput `json:"messages"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded documents with their parse state",
	}, s.handleListDocuments)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List sessions and the active session id",
	}, s.handleListSessions)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "session_messages",
		Description: "Return the chat log of one session",
	}, s.handleSessionMessages)
}

func (s *Server) handleListDocuments(ctx context.Context, _ *mcp.CallToolRequest, _ ListDocumentsInput) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs := s.ws.Documents.ListDocuments()
	out := ListDocumentsOutput{Documents: make([]DocumentOutput, 0, len(docs)), Count: len(docs)}
	for _, d := range docs {
		out.Documents = append(out.Documents, DocumentOutput{
			Id:         d.Id,
			Name:       d.Metadata.Name,
			State:      string(d.State),
			Size:       d.Metadata.Size,
			UploadedAt: d.Metadata.UploadedAt.Format(time.RFC3339),
			Queryable:  d.Queryable(),
			ParseError: d.ParseError,
			TextLength: d.TextLength,
		})
	}
	return nil, out, nil
}

func (s *Server) handleListSessions(ctx context.Context, _ *mcp.CallToolRequest, _ ListSessionsInput) (*mcp.CallToolResult, ListSessionsOutput, error) {
	var out ListSessionsOutput
	if active, ok := s.ws.Sessions.GetActiveSession(); ok {
		out.ActiveSessionId = active.Id
	}
	sessions := s.ws.Sessions.ListSessions()
	out.Sessions = make([]SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		ids := session.DocumentIds
		if ids == nil {
			ids = []string{}
		}
		out.Sessions = append(out.Sessions, SessionOutput{
			Id:               session.Id,
			Name:             session.Name,
			State:            string(session.State),
			CreatedAt:        session.CreatedAt.Format(time.RFC3339),
			DocumentIds:      ids,
			ActiveDocumentId: session.ActiveDocumentId,
		})
	}
	return nil, out, nil
}

func (s *Server) handleSessionMessages(ctx context.Context, _ *mcp.CallToolRequest, input SessionMessagesInput) (*mcp.CallToolResult, SessionMessagesOutput, error) {
	if _, ok := s.ws.Sessions.GetSession(input.SessionId); !ok {
		return nil, SessionMessagesOutput{}, fmt.Errorf("session %q not found", input.SessionId)
	}
	msgs := s.ws.Chat.GetMessages(input.SessionId)
	out := SessionMessagesOutput{SessionId: input.SessionId, Messages: make([]MessageOutput, 0, len(msgs))}
	for _, m := range msgs {
		out.Messages = append(out.Messages, MessageOutput{
			Id:        m.Id,
			Role:      string(m.Role),
			Content:   m.Content,
			Evidence:  string(m.Evidence),
			CreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return nil, out, nil
}

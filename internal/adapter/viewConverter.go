package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/DocQuery/internal/api"
	"github.com/akolanti/DocQuery/internal/domain/chatModel"
	"github.com/akolanti/DocQuery/internal/domain/commonModels"
	"github.com/akolanti/DocQuery/internal/domain/docModel"
	"github.com/akolanti/DocQuery/internal/domain/sessionModel"
	"github.com/dustin/go-humanize"
)

// roughly four characters per token for latin text
const charsPerToken = 4

func ToDocumentResponse(doc docModel.Document, hasFile bool, now time.Time) api.DocumentResponse {
	res := api.DocumentResponse{
		Id:          doc.Id,
		Name:        doc.Metadata.Name,
		State:       string(doc.State),
		Size:        doc.Metadata.Size,
		SizeHuman:   humanize.Bytes(uint64(max(doc.Metadata.Size, 0))),
		MimeType:    doc.Metadata.MimeType,
		UploadedAt:  doc.Metadata.UploadedAt,
		UploadedAgo: humanize.RelTime(doc.Metadata.UploadedAt, now, "ago", "from now"),
		HasFile:     hasFile,
		Queryable:   doc.Queryable(),
		ParseError:  doc.ParseError,
	}
	if doc.State == docModel.StateParsed {
		res.ContentMetrics = &api.ContentMetrics{
			Characters:      doc.TextLength,
			CharactersHuman: humanize.Comma(int64(doc.TextLength)),
			ApproxTokens:    doc.TextLength / charsPerToken,
		}
	}
	return res
}

func ToParseResponse(doc docModel.Document, hasFile bool, now time.Time) api.ParseResponse {
	return api.ParseResponse{
		Document:  ToDocumentResponse(doc, hasFile, now),
		StatusURL: fmt.Sprintf("documents/%s", doc.Id),
	}
}

func ToSessionResponse(session sessionModel.Session, activeSessionId string) api.SessionResponse {
	ids := session.DocumentIds
	if ids == nil {
		ids = []string{}
	}
	return api.SessionResponse{
		Id:               session.Id,
		Name:             session.Name,
		State:            string(session.State),
		CreatedAt:        session.CreatedAt,
		DocumentIds:      ids,
		ActiveDocumentId: session.ActiveDocumentId,
		Active:           session.Id == activeSessionId,
	}
}

func ToMessageResponse(msg chatModel.Message) api.MessageResponse {
	return api.MessageResponse{
		Id:        msg.Id,
		Role:      string(msg.Role),
		Content:   msg.Content,
		Evidence:  msg.Evidence,
		CreatedAt: msg.CreatedAt,
	}
}

func ToMessagesResponse(sessionId string, sending bool, msgs []chatModel.Message) api.MessagesResponse {
	out := make([]api.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ToMessageResponse(m))
	}
	return api.MessagesResponse{SessionId: sessionId, Sending: sending, Messages: out}
}

func ToSettingsResponse(s commonModels.ModelSettings) api.SettingsResponse {
	return api.SettingsResponse{Provider: s.Provider, Model: s.Model, Temperature: s.Temperature}
}

func ToModelSettings(req api.SettingsRequest) commonModels.ModelSettings {
	return commonModels.ModelSettings{Provider: req.Provider, Model: req.Model, Temperature: req.Temperature}
}

func BadRequest(id string, message string, code int) api.ErrorResponse {
	return api.ErrorResponse{Id: id, Code: code, Message: message}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/akolanti/DocQuery/internal/adapter"
	"github.com/akolanti/DocQuery/internal/adapter/utils"
	"github.com/akolanti/DocQuery/internal/analysis"
	"github.com/akolanti/DocQuery/internal/api"
	"github.com/akolanti/DocQuery/internal/workspace"
)

// GetMessages godoc
// @Summary  Get a session's chat log
// @Tags     Chat
// @Produce  json
// @Param    id   path      string  true  "Session ID"
// @Success  200  {object}  api.MessagesResponse
// @Failure  404  {object}  api.ErrorResponse
// @Router   /sessions/{id}/messages [get]
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	id := utils.GetChiURLParam(r, "id")
	if _, ok := h.ws.Sessions.GetSession(id); !ok {
		WriteErrorResponse(w, http.StatusNotFound, id, "Session not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToMessagesResponse(id, h.ws.Chat.IsSending(), h.ws.Chat.GetMessages(id)))
}

// PostAsk godoc
// @Summary      Ask about the session's active document
// @Description  Runs one analysis (summary, key_points or question) against the active document and records both messages.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        id       path      string          true  "Session ID"
// @Param        request  body      api.AskRequest  true  "Intent and query"
// @Success      200      {object}  api.AskResponse
// @Failure      400      {object}  api.ErrorResponse  "Empty query or unknown intent"
// @Failure      404      {object}  api.ErrorResponse  "Session not found"
// @Failure      409      {object}  api.ErrorResponse  "No parsed active document, or a question is already in flight"
// @Failure      502      {object}  api.ErrorResponse  "The model provider failed"
// @Failure      503      {object}  api.ErrorResponse  "The selected provider is not configured"
// @Router       /sessions/{id}/ask [post]
func (h *Handler) PostAsk(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	var req api.AskRequest
	if err := decodeJson(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, id, "Bad Request")
		return
	}

	res, err := h.ws.Ask(r.Context(), workspace.AskRequest{SessionId: id, Intent: req.Intent, Query: req.Query})
	if err != nil {
		code, message := askErrorStatus(err)
		logRH.WithTrace(r.Context()).Warn("Ask refused", "sessionId", id, "status", code, "error", err)
		WriteErrorResponse(w, code, id, message)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.AskResponse{
		Question: adapter.ToMessageResponse(res.Question),
		Answer:   adapter.ToMessageResponse(res.Answer),
	})
}

func askErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, workspace.ErrEmptyQuery):
		return http.StatusBadRequest, "A question needs a query"
	case errors.Is(err, workspace.ErrUnknownIntent):
		return http.StatusBadRequest, "Unknown intent. Use summary, key_points or question"
	case errors.Is(err, workspace.ErrSessionNotFound):
		return http.StatusNotFound, "Session not found"
	case errors.Is(err, workspace.ErrNoActiveDocument):
		return http.StatusConflict, "Select a document for this session first"
	case errors.Is(err, workspace.ErrDocumentNotQueryable):
		return http.StatusConflict, "The active document has not been parsed"
	case errors.Is(err, workspace.ErrAlreadySending):
		return http.StatusConflict, "Another question is still being answered"
	case errors.Is(err, analysis.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, "The selected model provider is not configured"
	case errors.Is(err, analysis.ErrArtifactNotFound):
		return http.StatusConflict, "The parsed text for this document has expired. Parse it again, or reupload the file if it is no longer held"
	}
	return http.StatusBadGateway, "The model provider failed to answer"
}

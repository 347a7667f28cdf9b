package handlers

import (
	"errors"
	"net/http"

	"github.com/akolanti/DocQuery/internal/adapter"
	"github.com/akolanti/DocQuery/internal/adapter/utils"
	"github.com/akolanti/DocQuery/internal/api"
	"github.com/akolanti/DocQuery/internal/workspace"
)

// PostSession godoc
// @Summary      Create a session
// @Description  The new session becomes the active one. An empty name falls back to a default.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request  body      api.CreateSessionRequest  false  "Session name"
// @Success      201      {object}  api.SessionResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /sessions [post]
func (h *Handler) PostSession(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJson(r, &req); err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}
	}
	id := h.ws.Sessions.CreateSession(r.Context(), req.Name)
	h.writeSession(w, http.StatusCreated, id)
}

// ListSessions godoc
// @Summary  List sessions in creation order
// @Tags     Sessions
// @Produce  json
// @Success  200  {object}  api.SessionListResponse
// @Router   /sessions [get]
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	activeId := h.activeSessionId()
	sessions := h.ws.Sessions.ListSessions()
	res := api.SessionListResponse{Sessions: make([]api.SessionResponse, 0, len(sessions)), ActiveSessionId: activeId}
	for _, s := range sessions {
		res.Sessions = append(res.Sessions, adapter.ToSessionResponse(s, activeId))
	}
	writeJsonResponse(w, http.StatusOK, res)
}

// GetActiveSession godoc
// @Summary  Get the active session
// @Tags     Sessions
// @Produce  json
// @Success  200  {object}  api.SessionResponse
// @Failure  404  {object}  api.ErrorResponse  "No session is active"
// @Router   /sessions/active [get]
func (h *Handler) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ws.Sessions.GetActiveSession()
	if !ok {
		WriteErrorResponse(w, http.StatusNotFound, "", "No active session")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSessionResponse(session, session.Id))
}

// PutActiveSession godoc
// @Summary  Select the active session
// @Tags     Sessions
// @Accept   json
// @Produce  json
// @Param    request  body      api.SetActiveSessionRequest  true  "Session to activate"
// @Success  200      {object}  api.SessionResponse
// @Failure  400      {object}  api.ErrorResponse
// @Failure  404      {object}  api.ErrorResponse
// @Router   /sessions/active [put]
func (h *Handler) PutActiveSession(w http.ResponseWriter, r *http.Request) {
	var req api.SetActiveSessionRequest
	if err := decodeJson(r, &req); err != nil || req.SessionId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "session_id is required")
		return
	}
	if !h.ws.Sessions.SetActiveSession(r.Context(), req.SessionId) {
		WriteErrorResponse(w, http.StatusNotFound, req.SessionId, "Session not found")
		return
	}
	h.writeSession(w, http.StatusOK, req.SessionId)
}

// PatchSession godoc
// @Summary  Rename a session
// @Tags     Sessions
// @Accept   json
// @Produce  json
// @Param    id       path      string                    true  "Session ID"
// @Param    request  body      api.RenameSessionRequest  true  "New name"
// @Success  200      {object}  api.SessionResponse
// @Failure  400      {object}  api.ErrorResponse
// @Failure  404      {object}  api.ErrorResponse
// @Router   /sessions/{id} [patch]
func (h *Handler) PatchSession(w http.ResponseWriter, r *http.Request) {
	id := utils.GetChiURLParam(r, "id")
	var req api.RenameSessionRequest
	if err := decodeJson(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, id, "Bad Request")
		return
	}
	if !h.ws.Sessions.RenameSession(r.Context(), id, req.Name) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Session not found")
		return
	}
	h.writeSession(w, http.StatusOK, id)
}

// PostSessionDocument godoc
// @Summary      Attach a document to a session
// @Description  The attached document becomes the session's active document.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Session ID"
// @Param        request  body      api.DocumentRefRequest  true  "Document to attach"
// @Success      200      {object}  api.SessionResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse  "Already attached"
// @Router       /sessions/{id}/documents [post]
func (h *Handler) PostSessionDocument(w http.ResponseWriter, r *http.Request) {
	id := utils.GetChiURLParam(r, "id")
	var req api.DocumentRefRequest
	if err := decodeJson(r, &req); err != nil || req.DocumentId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, id, "document_id is required")
		return
	}

	switch err := h.ws.AttachDocument(r.Context(), id, req.DocumentId); {
	case errors.Is(err, workspace.ErrSessionNotFound):
		WriteErrorResponse(w, http.StatusNotFound, id, "Session not found")
	case errors.Is(err, workspace.ErrDocumentNotFound):
		WriteErrorResponse(w, http.StatusNotFound, req.DocumentId, "Document not found")
	case errors.Is(err, workspace.ErrAlreadyAttached):
		WriteErrorResponse(w, http.StatusConflict, req.DocumentId, "Document already attached")
	case err != nil:
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Internal Server Error")
	default:
		h.writeSession(w, http.StatusOK, id)
	}
}

// PutActiveDocument godoc
// @Summary  Select the session's active document
// @Tags     Sessions
// @Accept   json
// @Produce  json
// @Param    id       path      string                  true  "Session ID"
// @Param    request  body      api.DocumentRefRequest  true  "Document already in the session"
// @Success  200      {object}  api.SessionResponse
// @Failure  400      {object}  api.ErrorResponse
// @Failure  404      {object}  api.ErrorResponse
// @Failure  409      {object}  api.ErrorResponse  "Document is not part of the session"
// @Router   /sessions/{id}/active-document [put]
func (h *Handler) PutActiveDocument(w http.ResponseWriter, r *http.Request) {
	id := utils.GetChiURLParam(r, "id")
	var req api.DocumentRefRequest
	if err := decodeJson(r, &req); err != nil || req.DocumentId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, id, "document_id is required")
		return
	}
	if _, ok := h.ws.Sessions.GetSession(id); !ok {
		WriteErrorResponse(w, http.StatusNotFound, id, "Session not found")
		return
	}
	if !h.ws.Sessions.SetActiveDocument(r.Context(), id, req.DocumentId) {
		WriteErrorResponse(w, http.StatusConflict, req.DocumentId, "Document is not part of this session")
		return
	}
	h.writeSession(w, http.StatusOK, id)
}

func (h *Handler) writeSession(w http.ResponseWriter, status int, id string) {
	session, ok := h.ws.Sessions.GetSession(id)
	if !ok {
		WriteErrorResponse(w, http.StatusNotFound, id, "Session not found")
		return
	}
	writeJsonResponse(w, status, adapter.ToSessionResponse(session, h.activeSessionId()))
}

func (h *Handler) activeSessionId() string {
	if active, ok := h.ws.Sessions.GetActiveSession(); ok {
		return active.Id
	}
	return ""
}

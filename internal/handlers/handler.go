package handlers

import (
	"net/http"
	"time"

	"github.com/akolanti/DocQuery/internal/workspace"
)

// Handler renders the workspace over HTTP. It only calls store and workspace
// methods; every state rule lives below it.
type Handler struct {
	ws  *workspace.Service
	now func() time.Time
}

func NewHandler(ws *workspace.Service) *Handler {
	return &Handler{ws: ws, now: time.Now}
}

// GetHealth godoc
// @Summary  Liveness probe
// @Tags     Health
// @Success  200
// @Router   /health [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

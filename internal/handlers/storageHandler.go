package handlers

import (
	"errors"
	"net/http"

	"github.com/akolanti/DocQuery/internal/adapter"
	"github.com/akolanti/DocQuery/internal/adapter/utils"
	"github.com/akolanti/DocQuery/internal/api"
	"github.com/akolanti/DocQuery/internal/data/persistence"
	"github.com/akolanti/DocQuery/internal/workspace"
)

// GetSettings godoc
// @Summary  Get model settings
// @Tags     Settings
// @Produce  json
// @Success  200  {object}  api.SettingsResponse
// @Router   /settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, adapter.ToSettingsResponse(h.ws.Settings()))
}

// PutSettings godoc
// @Summary  Update model settings
// @Tags     Settings
// @Accept   json
// @Produce  json
// @Param    request  body      api.SettingsRequest  true  "Provider, model and temperature"
// @Success  200      {object}  api.SettingsResponse
// @Failure  400      {object}  api.ErrorResponse
// @Router   /settings [put]
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req api.SettingsRequest
	if err := decodeJson(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return
	}
	saved, err := h.ws.UpdateSettings(r.Context(), adapter.ToModelSettings(req))
	if errors.Is(err, workspace.ErrInvalidSettings) {
		WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Internal Server Error")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSettingsResponse(saved))
}

// DeleteStorage godoc
// @Summary  Clear all persisted state, settings included
// @Tags     Storage
// @Success  204
// @Router   /storage [delete]
func (h *Handler) DeleteStorage(w http.ResponseWriter, r *http.Request) {
	h.ws.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// DeleteStorageFamily godoc
// @Summary  Clear one entity family
// @Tags     Storage
// @Param    family  path  string  true  "documents, sessions or chat"
// @Success  204
// @Failure  400  {object}  api.ErrorResponse
// @Router   /storage/{family} [delete]
func (h *Handler) DeleteStorageFamily(w http.ResponseWriter, r *http.Request) {
	name := utils.GetChiURLParam(r, "family")
	family, ok := persistence.ParseFamily(name)
	if !ok {
		WriteErrorResponse(w, http.StatusBadRequest, name, "Unknown family. Use documents, sessions or chat")
		return
	}
	h.ws.ClearStorage(r.Context(), family)
	w.WriteHeader(http.StatusNoContent)
}


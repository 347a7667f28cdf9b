package handlers

import (
	"net/http"

	"github.com/akolanti/DocQuery/internal/adapter"
	"github.com/akolanti/DocQuery/internal/adapter/utils"
	"github.com/akolanti/DocQuery/internal/api"
	"github.com/akolanti/DocQuery/internal/domain/docModel"
)

// PostDocument godoc
// @Summary      Upload a document
// @Description  Stores the file in memory and registers an UPLOADED document. Parsing is a separate call.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  false  "Display name, defaults to the file name"
// @Param        document       formData  file    true   "PDF, Word, OpenDocument, RTF or text file"
// @Success      201  {object}  api.DocumentResponse
// @Failure      400  {object}  api.ErrorResponse
// @Router       /documents [post]
func (h *Handler) PostDocument(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	file, err := readUpload(w, r)
	if err != nil {
		logRH.WithTrace(r.Context()).Warn("Bad upload", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	id := h.ws.Documents.AddDocument(r.Context(), file)
	h.writeDocument(w, http.StatusCreated, id)
}

// ListDocuments godoc
// @Summary  List documents in upload order
// @Tags     Documents
// @Produce  json
// @Success  200  {array}  api.DocumentResponse
// @Router   /documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := h.ws.Documents.ListDocuments()
	now := h.now()
	res := make([]api.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		res = append(res, adapter.ToDocumentResponse(d, h.ws.Documents.HasFile(d.Id), now))
	}
	writeJsonResponse(w, http.StatusOK, res)
}

// GetDocument godoc
// @Summary  Get one document
// @Tags     Documents
// @Produce  json
// @Param    id   path      string  true  "Document ID"
// @Success  200  {object}  api.DocumentResponse
// @Failure  404  {object}  api.ErrorResponse
// @Router   /documents/{id} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	h.writeDocument(w, http.StatusOK, utils.GetChiURLParam(r, "id"))
}

// PostParse godoc
// @Summary      Parse a document
// @Description  Starts a parse in the background and returns 202. With wait=true the call blocks until the parse finishes.
// @Description  A document whose file is gone moves to REQUIRES_REUPLOAD and the call returns 409.
// @Tags         Documents
// @Produce      json
// @Param        id    path      string  true   "Document ID"
// @Param        wait  query     bool    false  "Block until the parse completes"
// @Success      200   {object}  api.ParseResponse  "Parse finished (wait=true)"
// @Success      202   {object}  api.ParseResponse  "Parse started"
// @Failure      404   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse  "Already parsing, already parsed or file missing"
// @Router       /documents/{id}/parse [post]
func (h *Handler) PostParse(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if _, ok := h.ws.Documents.GetDocument(id); !ok {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}

	status := http.StatusAccepted
	var started bool
	if r.URL.Query().Get("wait") == "true" {
		status = http.StatusOK
		// a failed extraction still answers 200 with the PARSE_FAILED document
		started, _ = h.ws.Documents.TryParse(r.Context(), id)
	} else {
		started = h.ws.Documents.StartParse(r.Context(), id)
	}

	doc, ok := h.ws.Documents.GetDocument(id)
	if !ok {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}
	if !started {
		WriteErrorResponse(w, http.StatusConflict, id, refusalMessage(doc.State))
		return
	}
	writeJsonResponse(w, status, adapter.ToParseResponse(doc, h.ws.Documents.HasFile(id), h.now()))
}

// PostReupload godoc
// @Summary  Replace a document's file
// @Tags     Documents
// @Accept   multipart/form-data
// @Produce  json
// @Param    id        path      string  true  "Document ID"
// @Param    document  formData  file    true  "Replacement file"
// @Success  200  {object}  api.DocumentResponse
// @Failure  400  {object}  api.ErrorResponse
// @Failure  404  {object}  api.ErrorResponse
// @Router   /documents/{id}/reupload [post]
func (h *Handler) PostReupload(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if _, ok := h.ws.Documents.GetDocument(id); !ok {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}
	file, err := readUpload(w, r)
	if err != nil {
		logRH.WithTrace(r.Context()).Warn("Bad reupload", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, id, "File too large or bad request")
		return
	}
	if !h.ws.Documents.ReuploadDocument(r.Context(), id, file) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}
	h.writeDocument(w, http.StatusOK, id)
}

func (h *Handler) writeDocument(w http.ResponseWriter, status int, id string) {
	doc, ok := h.ws.Documents.GetDocument(id)
	if !ok {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}
	writeJsonResponse(w, status, adapter.ToDocumentResponse(doc, h.ws.Documents.HasFile(id), h.now()))
}

func refusalMessage(state docModel.DocumentState) string {
	switch state {
	case docModel.StateParsing:
		return "Document is already being parsed"
	case docModel.StateParsed:
		return "Document is already parsed"
	case docModel.StateRequiresReupload:
		return "The file for this document is gone. Please upload it again."
	}
	return "Document cannot be parsed in its current state"
}

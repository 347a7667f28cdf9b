package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/akolanti/DocQuery/internal/adapter"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/domain/docModel"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already out, nothing left but to log
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, message string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, message, httpCode))
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.WithTrace(ctx).Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

func decodeJson(r *http.Request, target any) error {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the request reader", "error", err)
		}
	}(r.Body)
	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

// readUpload pulls the "document" part out of a multipart request. An optional
// "document_name" field overrides the client file name.
func readUpload(w http.ResponseWriter, r *http.Request) (docModel.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		return docModel.File{}, fmt.Errorf("file too large or bad request: %w", err)
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		return docModel.File{}, fmt.Errorf("could not retrieve file: %w", err)
	}
	defer fileReader.Close()

	content, err := io.ReadAll(io.LimitReader(fileReader, config.MaxUploadSize+1))
	if err != nil {
		return docModel.File{}, fmt.Errorf("could not read file: %w", err)
	}
	if len(content) > config.MaxUploadSize {
		return docModel.File{}, errors.New("file too large")
	}

	name := strings.TrimSpace(r.FormValue("document_name"))
	if name == "" {
		name = fileMetadata.Filename
	}
	mimeType := fileMetadata.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(content)
	}
	return docModel.File{Name: name, MimeType: mimeType, Content: content}, nil
}

package extraction

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/DocQuery/internal/adapter/utils"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/domain/commonModels"
	"github.com/akolanti/DocQuery/internal/domain/docModel"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

type rawPage struct {
	Number  int
	Content string
}

// LocalExtractor pulls text out of uploaded files in-process and keeps it in the
// artifact substrate. The artifact id it returns is the proof of a finished parse.
type LocalExtractor struct {
	artifacts commonModels.KeyValueStore
	logger    *logger_i.Logger
}

func NewLocalExtractor(artifacts commonModels.KeyValueStore) *LocalExtractor {
	return &LocalExtractor{
		artifacts: artifacts,
		logger:    logger_i.NewLogger("Extraction"),
	}
}

func (e *LocalExtractor) Extract(ctx context.Context, documentId string, file docModel.File) (docModel.ExtractResult, error) {
	log := e.logger.WithTrace(ctx).With("documentId", documentId, "name", file.Name)

	docType := getDocType(file.Name, file.MimeType)
	log.Debug("extracting document", "type", docType, "size", file.Size())
	if docType == commonModels.ERR {
		return docModel.ExtractResult{}, &docModel.ExtractionError{
			Message: fmt.Sprintf("Unsupported file type %q. Upload a PDF, Word, OpenDocument, RTF or text file.", filepath.Ext(file.Name)),
		}
	}

	pages, err := extractText(ctx, e.logger, file.Content, docType)
	if err != nil {
		log.Error("extraction failed", "error", err)
		return docModel.ExtractResult{}, &docModel.ExtractionError{Message: "Could not read the document content."}
	}

	text := joinPages(pages)
	if strings.TrimSpace(text) == "" {
		return docModel.ExtractResult{}, &docModel.ExtractionError{Message: "No text could be extracted from this document."}
	}

	artifactId := utils.GetNewUUID()
	if err := e.artifacts.Set(ctx, config.ArtifactKeyPrefix+artifactId, text); err != nil {
		log.Error("failed to store artifact", "error", err)
		return docModel.ExtractResult{}, &docModel.ExtractionError{Message: "Could not save the extracted text. Please retry."}
	}

	log.Debug("extraction complete", "artifactId", artifactId, "pages", len(pages))
	return docModel.ExtractResult{
		ArtifactId: artifactId,
		TextLength: utf8.RuneCountInString(text),
	}, nil
}

// ArtifactText returns the text stored for a previously issued artifact id.
func (e *LocalExtractor) ArtifactText(ctx context.Context, artifactId string) (string, bool, error) {
	return e.artifacts.Get(ctx, config.ArtifactKeyPrefix+artifactId)
}

func getDocType(name string, mimeType string) commonModels.DocType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".odt", ".rtf":
		return commonModels.DOCX
	case ".txt", ".md", ".markdown", ".csv", ".log":
		return commonModels.TXT
	}

	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return commonModels.ERR
	}
	switch {
	case mediaType == "application/pdf":
		return commonModels.PDF
	case mediaType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		mediaType == "application/vnd.oasis.opendocument.text",
		mediaType == "application/rtf":
		return commonModels.DOCX
	case strings.HasPrefix(mediaType, "text/"):
		return commonModels.TXT
	}
	return commonModels.ERR
}

func extractText(ctx context.Context, logger *logger_i.Logger, content []byte, contentType commonModels.DocType) ([]rawPage, error) {
	switch contentType {
	case commonModels.PDF:
		return extractPDF(ctx, logger, content)
	case commonModels.DOCX:
		return extractDocxOdtRtf(content)
	case commonModels.TXT:
		return extractPlain(content)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

func joinPages(pages []rawPage) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if c := strings.TrimSpace(p.Content); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n\n")
}

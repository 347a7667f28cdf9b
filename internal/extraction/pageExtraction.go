package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/pkg/logger_i"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

func extractPDF(ctx context.Context, logger *logger_i.Logger, content []byte) ([]rawPage, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []rawPage
	numPages := r.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := protectExtract(ctx, page)
		if err != nil {
			// one bad page should not sink the document
			logger.Warn("Error parsing page content", "page", i, "error", err)
			continue
		}
		pages = append(pages, rawPage{Number: i, Content: text})
	}
	return pages, nil
}

// extractDocxOdtRtf reads .docx, .odt and .rtf content. cat gives no page
// boundaries so everything lands on page 1.
func extractDocxOdtRtf(content []byte) ([]rawPage, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract office document: %w", err)
	}
	return []rawPage{{Number: 1, Content: text}}, nil
}

func extractPlain(content []byte) ([]rawPage, error) {
	if !utf8.Valid(content) {
		return nil, errors.New("text file is not valid utf-8")
	}
	return []rawPage{{Number: 1, Content: string(content)}}, nil
}

// protectExtract bounds a single page; the pdf library can spin or panic on
// malformed content streams.
func protectExtract(ctx context.Context, page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{err: fmt.Errorf("page extraction panicked: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	timer := time.NewTimer(config.PageExtractTimeout)
	defer timer.Stop()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-timer.C:
		return "", errors.New("timeout")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

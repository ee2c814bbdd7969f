package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

var errPageTimeout = errors.New("page extraction timed out")

func extractText(ctx context.Context, path string, contentType commonModels.DocType) ([]string, error) {
	switch contentType {
	case commonModels.PDF:
		return extractPDF(ctx, path)
	case commonModels.DOCX:
		return extractDocxTxtRtf(path)
	case commonModels.TXT:
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read text file: %w", err)
		}
		return []string{string(body)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", qaModel.ErrUnsupportedDocument, contentType)
	}
}

// extractPDF returns one entry per page. A page that fails or times out is "".
func extractPDF(ctx context.Context, path string) ([]string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := f.NumPage()
	pages := make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := protectExtract(page)
		if err != nil {
			logger.Warn("page extraction failed", "page", i, "error", err)
			continue
		}
		pages[i-1] = content
	}
	return pages, nil
}

// extractDocxTxtRtf returns the whole document as a single page; cat has no page model.
func extractDocxTxtRtf(path string) ([]string, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}
	return []string{text}, nil
}

// protectExtract bounds a single page; the pdf reader can spin on malformed streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page extraction panicked: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.PageExtractTimeout):
		return "", errPageTimeout
	}
}

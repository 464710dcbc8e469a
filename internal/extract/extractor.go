// Package extract reads a PDF from disk and produces one record per page.
//
// Only the embedded text layer is read; scanned (image-only) PDFs yield
// pages with empty text and are not treated as errors.
package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/rag-tools/pdfstore/internal/common"
)

// PageRecord holds one page's extracted text and statistics before persistence.
type PageRecord struct {
	PageNumber    int
	Text          string
	NumCharacters int
	NumWords      int
}

// Extractor turns a PDF file into an ordered sequence of PageRecords.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract opens the PDF at path and returns one PageRecord per page, in page
// order. The result is all-or-nothing: on any failure it returns nil records
// and an error wrapping one of common.ErrNotFound, common.ErrParse or
// common.ErrUnexpected.
func (e *Extractor) Extract(path string) (records []PageRecord, err error) {
	// The parser panics on some malformed inputs; fold those into the
	// unexpected-error class instead of crashing the caller.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic during extraction", "path", path, "panic", r)
			records = nil
			err = fmt.Errorf("extracting %s: %v: %w", path, r, common.ErrUnexpected)
		}
	}()

	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			e.logger.Error("file not found", "path", path)
			return nil, fmt.Errorf("opening %s: %w", path, common.ErrNotFound)
		}
		e.logger.Error("file access failed", "path", path, "error", statErr)
		return nil, fmt.Errorf("opening %s: %v: %w", path, statErr, common.ErrUnexpected)
	}

	f, reader, openErr := pdf.Open(path)
	if openErr != nil {
		e.logger.Error("not a readable PDF", "path", path, "error", openErr)
		return nil, fmt.Errorf("parsing %s: %v: %w", path, openErr, common.ErrParse)
	}
	defer func() { _ = f.Close() }()

	numPages := reader.NumPage()
	fonts := make(map[string]*pdf.Font)
	records = make([]PageRecord, 0, numPages)

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)

		text := ""
		if !page.V.IsNull() {
			for _, name := range page.Fonts() {
				if _, ok := fonts[name]; !ok {
					font := page.Font(name)
					fonts[name] = &font
				}
			}
			pageText, textErr := page.GetPlainText(fonts)
			if textErr != nil {
				e.logger.Error("page text extraction failed", "path", path, "page", i, "error", textErr)
				return nil, fmt.Errorf("extracting page %d of %s: %v: %w", i, path, textErr, common.ErrUnexpected)
			}
			text = pageText
		}

		text = Sanitize(text)
		records = append(records, PageRecord{
			PageNumber:    i,
			Text:          text,
			NumCharacters: utf8.RuneCountInString(text),
			NumWords:      len(strings.Fields(text)),
		})
	}

	e.logger.Info("extraction complete", "path", path, "pages", len(records))
	return records, nil
}

// Sanitize replaces every NUL in s with U+FFFD, one for one. Postgres text
// columns reject NUL bytes, so this must run before persistence.
func Sanitize(s string) string {
	return strings.ReplaceAll(s, "\x00", "�")
}

// Package pipeline wires extraction and persistence into one ingest run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rag-tools/pdfstore/internal/extract"
	"github.com/rag-tools/pdfstore/internal/repository"
)

// Extractor is stage 1: file -> page records.
type Extractor interface {
	Extract(path string) ([]extract.PageRecord, error)
}

// Result summarizes one ingest run.
type Result struct {
	RunID          uuid.UUID
	DocumentID     int64
	DocumentName   string
	PagesExtracted int
	PagesStored    int
	Duration       time.Duration
}

type Pipeline struct {
	Extractor Extractor
	Repo      repository.DocumentRepository
	Log       *slog.Logger
}

func NewPipeline(ex Extractor, repo repository.DocumentRepository, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{Extractor: ex, Repo: repo, Log: log}
}

// Run extracts every page of the PDF at path and stores the result as one
// document. A PDF that yields zero pages is "nothing to do": no document is
// created and no error is returned; callers can tell by PagesExtracted.
func (p *Pipeline) Run(ctx context.Context, path string) (Result, error) {
	res := Result{
		RunID:        uuid.New(),
		DocumentName: filepath.Base(path),
	}
	log := p.Log.With("run_id", res.RunID, "document", res.DocumentName)
	start := time.Now()

	log.Info("reading document", "path", path)
	pages, err := p.Extractor.Extract(path)
	if err != nil {
		res.Duration = time.Since(start)
		return res, fmt.Errorf("extract: %w", err)
	}
	res.PagesExtracted = len(pages)

	if len(pages) == 0 {
		res.Duration = time.Since(start)
		log.Warn("no pages extracted, nothing to store")
		return res, nil
	}

	nonEmpty := 0
	for _, page := range pages {
		if page.Text != "" {
			nonEmpty++
		}
	}
	log.Info("storing pages", "pages", len(pages), "with_text", nonEmpty)

	doc, err := p.Repo.StoreDocument(ctx, res.DocumentName, pages)
	if err != nil {
		res.Duration = time.Since(start)
		return res, fmt.Errorf("store: %w", err)
	}
	if doc != nil {
		res.DocumentID = doc.ID
	}
	res.PagesStored = nonEmpty
	res.Duration = time.Since(start)

	log.Info("ingest complete",
		"document_id", res.DocumentID,
		"pages_extracted", res.PagesExtracted,
		"pages_stored", res.PagesStored,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

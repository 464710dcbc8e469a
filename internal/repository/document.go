package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rag-tools/pdfstore/internal/common"
	"github.com/rag-tools/pdfstore/internal/entity"
	"github.com/rag-tools/pdfstore/internal/extract"
)

const (
	insertDocumentSQL = `
		INSERT INTO documents (name, created_at)
		VALUES ($1, $2) RETURNING document_id`

	insertPageSQL = `
		INSERT INTO raw_pages (document_id, page_text, page_number, number_words, number_characters)
		VALUES ($1, $2, $3, $4, $5)`

	selectPagesSQL = `
		SELECT text_id, document_id, page_text, page_number, number_words, number_characters
		FROM raw_pages
		WHERE document_id = $1
		ORDER BY page_number ASC`

	selectDocumentSQL = `
		SELECT document_id, name, created_at
		FROM documents
		WHERE document_id = $1`
)

// DocumentRepository persists and retrieves documents and their pages.
// StoreDocument is atomic: either the document row and every non-empty page
// land together, or nothing is written.
type DocumentRepository interface {
	StoreDocument(ctx context.Context, name string, pages []extract.PageRecord) (*entity.Document, error)
	ListPages(ctx context.Context, documentID int64) ([]*entity.StoredPage, error)
	GetDocument(ctx context.Context, documentID int64) (*entity.Document, error)
}

type documentRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepository{
		pool:   pool,
		logger: logger,
	}
}

// StoreDocument inserts one documents row and one raw_pages row per page
// record with non-empty text. An empty input is a no-op: no document row is
// created for a document with zero pages.
func (r *documentRepository) StoreDocument(ctx context.Context, name string, pages []extract.PageRecord) (*entity.Document, error) {
	if len(pages) == 0 {
		r.logger.Warn("no pages provided for storage, skipping document insert", "name", name)
		return nil, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error("failed to begin transaction", "name", name, "error", err)
		return nil, fmt.Errorf("beginning transaction: %v: %w", err, common.ErrStore)
	}
	// Rollback is a no-op after a successful commit.
	defer func() { _ = tx.Rollback(ctx) }()

	doc := &entity.Document{
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := tx.QueryRow(ctx, insertDocumentSQL, doc.Name, doc.CreatedAt).Scan(&doc.ID); err != nil {
		r.logger.Error("failed to insert document", "name", name, "error", err)
		return nil, fmt.Errorf("inserting document %q: %v: %w", name, err, common.ErrStore)
	}
	r.logger.Info("document row created", "name", name, "document_id", doc.ID)

	stored := 0
	for _, page := range pages {
		if page.Text == "" {
			continue
		}
		_, err := tx.Exec(ctx, insertPageSQL,
			doc.ID, page.Text, page.PageNumber, page.NumWords, page.NumCharacters)
		if err != nil {
			r.logger.Error("failed to insert page, rolling back",
				"name", name, "document_id", doc.ID, "page", page.PageNumber, "error", err)
			return nil, fmt.Errorf("inserting page %d of %q: %v: %w", page.PageNumber, name, err, common.ErrStore)
		}
		stored++
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("failed to commit", "name", name, "document_id", doc.ID, "error", err)
		return nil, fmt.Errorf("committing document %q: %v: %w", name, err, common.ErrStore)
	}

	r.logger.Info("document stored", "name", name, "document_id", doc.ID, "pages_stored", stored)
	return doc, nil
}

// ListPages returns all stored pages for the document, ordered ascending by
// page number. An unknown document id yields an empty slice, not an error.
func (r *documentRepository) ListPages(ctx context.Context, documentID int64) ([]*entity.StoredPage, error) {
	rows, err := r.pool.Query(ctx, selectPagesSQL, documentID)
	if err != nil {
		r.logger.Error("failed to query pages", "document_id", documentID, "error", err)
		return nil, fmt.Errorf("querying pages for document %d: %v: %w", documentID, err, common.ErrStore)
	}
	defer rows.Close()

	pages := make([]*entity.StoredPage, 0)
	for rows.Next() {
		p := &entity.StoredPage{}
		if err := rows.Scan(&p.TextID, &p.DocumentID, &p.PageText, &p.PageNumber, &p.NumberWords, &p.NumberCharacters); err != nil {
			r.logger.Error("failed to scan page row", "document_id", documentID, "error", err)
			return nil, fmt.Errorf("scanning page for document %d: %v: %w", documentID, err, common.ErrStore)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading pages for document %d: %v: %w", documentID, err, common.ErrStore)
	}
	return pages, nil
}

// GetDocument fetches the document metadata row. Returns common.ErrNotFound
// when no document has the given id.
func (r *documentRepository) GetDocument(ctx context.Context, documentID int64) (*entity.Document, error) {
	doc := &entity.Document{}
	err := r.pool.QueryRow(ctx, selectDocumentSQL, documentID).Scan(&doc.ID, &doc.Name, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("document %d: %w", documentID, common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get document", "document_id", documentID, "error", err)
		return nil, fmt.Errorf("querying document %d: %v: %w", documentID, err, common.ErrStore)
	}
	return doc, nil
}

package export_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rag-tools/pdfstore/internal/common"
	"github.com/rag-tools/pdfstore/internal/entity"
	"github.com/rag-tools/pdfstore/internal/export"
	"github.com/rag-tools/pdfstore/internal/extract"
)

type fakeRepo struct {
	doc   *entity.Document
	pages []*entity.StoredPage
}

func (f *fakeRepo) StoreDocument(ctx context.Context, name string, pages []extract.PageRecord) (*entity.Document, error) {
	return nil, nil
}

func (f *fakeRepo) ListPages(ctx context.Context, documentID int64) ([]*entity.StoredPage, error) {
	return f.pages, nil
}

func (f *fakeRepo) GetDocument(ctx context.Context, documentID int64) (*entity.Document, error) {
	if f.doc == nil {
		return nil, common.ErrNotFound
	}
	return f.doc, nil
}

func TestExportPagesXLSX(t *testing.T) {
	repo := &fakeRepo{
		doc: &entity.Document{ID: 7, Name: "report.pdf", CreatedAt: time.Now()},
		pages: []*entity.StoredPage{
			{TextID: 101, DocumentID: 7, PageText: "first page text", PageNumber: 1, NumberWords: 3, NumberCharacters: 15},
			{TextID: 102, DocumentID: 7, PageText: "second page text", PageNumber: 2, NumberWords: 3, NumberCharacters: 16},
		},
	}

	data, err := export.NewService(repo, nil).ExportPagesXLSX(context.Background(), 7)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Pages")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Page Number", "Text ID", "Characters", "Words", "Preview"}, rows[0])
	assert.Equal(t, []string{"1", "101", "15", "3", "first page text"}, rows[1])
	assert.Equal(t, []string{"2", "102", "16", "3", "second page text"}, rows[2])
}

func TestExportPagesXLSX_UnknownDocument(t *testing.T) {
	data, err := export.NewService(&fakeRepo{}, nil).ExportPagesXLSX(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Nil(t, data)
}

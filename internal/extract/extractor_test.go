package extract_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rag-tools/pdfstore/internal/common"
	"github.com/rag-tools/pdfstore/internal/extract"
	"github.com/rag-tools/pdfstore/internal/pdftest"
)

func writeSamplePDF(t *testing.T, pageTexts []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test_document.pdf")
	require.NoError(t, pdftest.Write(path, pageTexts))
	return path
}

func TestExtract_SamplePDF(t *testing.T) {
	pageTexts := []string{
		"This is the first page. Hello world!",
		"Second page content. Pytest example.",
	}
	path := writeSamplePDF(t, pageTexts)

	records, err := extract.NewExtractor(nil).Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	for i, rec := range records {
		assert.Equal(t, i+1, rec.PageNumber)
		assert.Contains(t, rec.Text, pageTexts[i])
		assert.Positive(t, rec.NumCharacters)
		assert.Positive(t, rec.NumWords)
		assert.Equal(t, utf8.RuneCountInString(rec.Text), rec.NumCharacters)
		assert.Equal(t, len(strings.Fields(rec.Text)), rec.NumWords)
	}
}

func TestExtract_EmptyPageYieldsEmptyRecord(t *testing.T) {
	path := writeSamplePDF(t, []string{"", "Only page two has text."})

	records, err := extract.NewExtractor(nil).Extract(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].PageNumber)
	assert.Empty(t, records[0].Text)
	assert.Zero(t, records[0].NumCharacters)
	assert.Zero(t, records[0].NumWords)

	assert.Equal(t, 2, records[1].PageNumber)
	assert.Contains(t, records[1].Text, "Only page two has text.")
}

func TestExtract_FileMissing(t *testing.T) {
	records, err := extract.NewExtractor(nil).Extract(filepath.Join(t.TempDir(), "no_such_file.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Nil(t, records)
}

func TestExtract_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid_file.txt")
	require.NoError(t, os.WriteFile(path, []byte("This is not a PDF."), 0o644))

	records, err := extract.NewExtractor(nil).Extract(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrParse))
	assert.Nil(t, records)
}

func TestExtract_TruncatedPDF(t *testing.T) {
	full := writeSamplePDF(t, []string{"Some content."})
	data, err := os.ReadFile(full)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "truncated.pdf")
	require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0o644))

	records, err := extract.NewExtractor(nil).Extract(path)
	require.Error(t, err)
	assert.Nil(t, records)
}

func TestSanitize(t *testing.T) {
	in := "before\x00after\x00"
	out := extract.Sanitize(in)

	assert.NotContains(t, out, "\x00")
	assert.Equal(t, "before�after�", out)
	assert.Equal(t, utf8.RuneCountInString(in), utf8.RuneCountInString(out))
	assert.Equal(t, "no nulls here", extract.Sanitize("no nulls here"))
}

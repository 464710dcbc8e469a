package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/rag-tools/pdfstore/internal/common"
	"github.com/rag-tools/pdfstore/internal/export"
	"github.com/rag-tools/pdfstore/internal/extract"
	"github.com/rag-tools/pdfstore/internal/pipeline"
	repo "github.com/rag-tools/pdfstore/internal/repository"
)

const retrievePrintLimit = 3

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		parsePath   = flag.String("parse", "", "PDF file to extract and store")
		retrieveID  = flag.String("retrieve", "", "document id whose pages to fetch")
		exportID    = flag.String("export", "", "document id to export as XLSX")
		outPath     = flag.String("out", "", "output XLSX file path (with --export, defaults to document_<id>.xlsx)")
		healthCheck = flag.Bool("dbhealth", false, "check database connectivity and exit")
	)
	flag.Parse()

	// Exactly one mode is required
	modes := 0
	for _, set := range []bool{*parsePath != "", *retrieveID != "", *exportID != "", *healthCheck} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		printError("Error: exactly one of --parse, --retrieve, --export or --dbhealth is required\n")
		flag.Usage()
		os.Exit(2)
	}

	cfg := common.LoadConfig()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()

	pool, err := repo.Open(ctx, cfg.Database, logger)
	if err != nil {
		printError("Error: opening database: %v\n", err)
		os.Exit(1)
	}

	code := 0
	if err := repo.HealthCheck(ctx, pool, 3*time.Second, logger); err != nil {
		printError("Error: database health check failed: %v\n", err)
		code = 1
	} else {
		docs := repo.NewDocumentRepository(pool, logger)
		switch {
		case *healthCheck:
			fmt.Println("DB health: OK")
		case *parsePath != "":
			code = runParse(ctx, docs, logger, *parsePath)
		case *retrieveID != "":
			code = runRetrieve(ctx, docs, *retrieveID)
		case *exportID != "":
			code = runExport(ctx, docs, logger, *exportID, *outPath)
		}
	}

	repo.Close(pool, logger)
	os.Exit(code)
}

func runParse(ctx context.Context, docs repo.DocumentRepository, logger *slog.Logger, path string) int {
	p := pipeline.NewPipeline(extract.NewExtractor(logger), docs, logger)

	res, err := p.Run(ctx, path)
	if err != nil {
		printError("Error: processing %q: %v\n", path, err)
		return 1
	}
	if res.PagesExtracted == 0 {
		fmt.Printf("No pages extracted from %q. Nothing to store.\n", path)
		return 1
	}

	fmt.Printf("Stored document %q with document_id %d (%d pages extracted, %d stored).\n",
		res.DocumentName, res.DocumentID, res.PagesExtracted, res.PagesStored)
	return 0
}

func runRetrieve(ctx context.Context, docs repo.DocumentRepository, rawID string) int {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		printError("Error: --retrieve expects an integer document id, got %q\n", rawID)
		return 2
	}

	pages, err := docs.ListPages(ctx, id)
	if err != nil {
		printError("Error: retrieving pages for document %d: %v\n", id, err)
		return 1
	}

	fmt.Printf("Document %d has %d stored page(s).\n", id, len(pages))
	for i, p := range pages {
		if i == retrievePrintLimit {
			break
		}
		fmt.Printf("  page %d (text_id %d): %d characters, %d words\n",
			p.PageNumber, p.TextID, p.NumberCharacters, p.NumberWords)
	}
	return 0
}

func runExport(ctx context.Context, docs repo.DocumentRepository, logger *slog.Logger, rawID, outPath string) int {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		printError("Error: --export expects an integer document id, got %q\n", rawID)
		return 2
	}
	if outPath == "" {
		outPath = fmt.Sprintf("document_%d.xlsx", id)
	}

	svc := export.NewService(docs, logger)
	data, err := svc.ExportPagesXLSX(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printError("Error: no document with id %d\n", id)
		} else {
			printError("Error: exporting document %d: %v\n", id, err)
		}
		return 1
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		printError("Error: writing %q: %v\n", outPath, err)
		return 1
	}
	fmt.Printf("Exported document %d page stats to %q.\n", id, outPath)
	return 0
}

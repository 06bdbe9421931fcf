package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"docrank/config"
	"docrank/internal/adapter/chunker"
	"docrank/internal/adapter/embedding"
	"docrank/internal/adapter/fs"
	"docrank/internal/adapter/pdf"
	"docrank/internal/adapter/retriever"
	"docrank/internal/domain"
	"docrank/internal/usecase"
)

func main() {
	docDir := flag.String("dir", ".", "Directory holding the documents")
	role := flag.String("role", "", "Persona role")
	task := flag.String("task", "", "Job to be done")
	topK := flag.Int("k", 10, "Number of results")
	flag.Parse()

	if *task == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir ./PDFs -role \"Travel Planner\" -task \"...\"")
		fmt.Println("\nReports:")
		fmt.Println("  1. Extraction time and section count")
		fmt.Println("  2. Embedding and ranking time")
		fmt.Println("  3. Similarity of the top-ranked sections")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*docDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedder not available: %v\n", err)
		os.Exit(2)
	}

	files, err := fs.NewWalker(cfg.Documents.Includes, cfg.Documents.Excludes).Walk(*docDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", *docDir, err)
		os.Exit(1)
	}
	refs := make([]usecase.DocumentRef, len(files))
	for i, f := range files {
		refs[i] = usecase.DocumentRef{Name: f.RelPath, Path: f.Path}
	}

	fmt.Println("SECTION RANKING BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Documents: %d\n", len(refs))
	fmt.Printf("Model: %s (%s)\n", embedder.ModelName(), cfg.Embedding.Provider)
	fmt.Printf("Dimension: %d\n", embedder.Dimension())
	fmt.Println()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	extractUC := usecase.NewExtractUseCase(
		pdf.NewMultiSource(),
		chunker.NewHeadingExtractor(cfg.Extract.MinTitleLength, cfg.Extract.ContextLines),
		logger,
		cfg.Documents.Workers,
	)

	start := time.Now()
	results, err := extractUC.ExtractAll(ctx, refs, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Extraction error: %v\n", err)
		os.Exit(1)
	}
	extractTime := time.Since(start)

	var corpus []domain.Section
	var readable int
	for _, r := range results {
		if r.Err == nil {
			readable++
			corpus = append(corpus, r.Sections...)
		}
	}
	sections := len(corpus)
	fmt.Printf("Extracted %d sections from %d documents in %v\n", sections, readable, extractTime)

	ranker := retriever.NewRelevanceRanker(embedder)
	query := retriever.BuildQuery(*role, *task)

	start = time.Now()
	ranked, err := ranker.Rank(ctx, corpus, query, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ranking error: %v\n", err)
		os.Exit(2)
	}
	rankTime := time.Since(start)

	fmt.Printf("Ranked in %v\n\n", rankTime)
	fmt.Printf("Query: \"%s\"\n", query)
	fmt.Println(strings.Repeat("-", 70))

	if len(ranked) == 0 {
		fmt.Println("No sections found.")
		return
	}

	totalScore := 0.0
	for _, s := range ranked {
		totalScore += s.Score

		rating := "LOW"
		if s.Score > 0.7 {
			rating = "HIGH"
		} else if s.Score > 0.5 {
			rating = "GOOD"
		} else if s.Score > 0.3 {
			rating = "OK"
		}

		fmt.Printf("%d. [%s %.3f] %s p%d\n", s.ImportanceRank, rating, s.Score, s.SourceDocument, s.PageNumber)
		fmt.Printf("   %s\n\n", s.Title)
	}

	avgScore := totalScore / float64(len(ranked))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average similarity: %.3f\n", avgScore)
	fmt.Printf("  Top-1 similarity:   %.3f\n", ranked[0].Score)
	fmt.Printf("  Sections per second: %.0f\n", float64(sections)/(extractTime+rankTime).Seconds())
}

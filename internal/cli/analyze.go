package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docrank/config"
	"docrank/internal/adapter/cache"
	"docrank/internal/adapter/chunker"
	"docrank/internal/adapter/embedding"
	"docrank/internal/adapter/fs"
	"docrank/internal/adapter/pdf"
	"docrank/internal/adapter/retriever"
	"docrank/internal/domain"
	"docrank/internal/port"
	"docrank/internal/usecase"
)

var (
	analyzeInput     string
	analyzePDFDir    string
	analyzeOutput    string
	analyzeTopK      int
	analyzeNoHistory bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank document sections for a persona and task",
	Long: `Read an input JSON describing a persona, a task and a list of documents,
rank the sections of those documents by relevance to the task, and write the
ranked sections plus refined paragraphs as JSON.

When the input lists no documents, every file under --pdf-dir matching the
configured include patterns is analyzed.

Examples:
  docrank analyze --input challenge1b_input.json --pdf-dir PDFs
  docrank analyze -i input.json -o output.json --top-k 5`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "input JSON file (required)")
	analyzeCmd.Flags().StringVar(&analyzePDFDir, "pdf-dir", "", "directory holding the documents (default is <input dir>/PDFs)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "output JSON file (default is stdout)")
	analyzeCmd.Flags().IntVarP(&analyzeTopK, "top-k", "k", 0, "number of ranked sections (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeNoHistory, "no-history", false, "do not record the run in the history database")
	analyzeCmd.MarkFlagRequired("input")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	log := GetLogger()

	input, err := readInput(analyzeInput)
	if err != nil {
		return err
	}

	docDir := analyzePDFDir
	if docDir == "" {
		docDir = filepath.Join(filepath.Dir(analyzeInput), "PDFs")
	}

	if len(input.Documents) == 0 {
		input.Documents, err = discoverDocuments(cfg, docDir)
		if err != nil {
			return err
		}
		log.Info("discovered documents", "dir", docDir, "count", len(input.Documents))
	}

	// Build the embedder before touching any document so a missing model
	// fails the run immediately.
	emb, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	log.Debug("embedder ready", "provider", cfg.Embedding.Provider, "model", emb.ModelName(), "dimension", emb.Dimension())

	topK := cfg.Rank.TopK
	if analyzeTopK > 0 {
		topK = analyzeTopK
	}

	analyzeUC := newAnalyzeUseCase(cfg, emb, topK)

	out, err := analyzeUC.Analyze(cmd.Context(), *input, docDir, newProgress("Extracting"))
	if err != nil {
		return err
	}

	for _, w := range out.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if err := writeOutput(out, analyzeOutput, cmd.OutOrStdout()); err != nil {
		return err
	}

	if cfg.History.Enabled && !analyzeNoHistory {
		recordRun(cfg, out)
	}

	if analyzeOutput != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d sections and %d paragraphs to %s\n",
			len(out.ExtractedSections), len(out.SubsectionAnalysis), analyzeOutput)
	}

	return nil
}

// newEmbedder builds the configured embedder, wrapped in an in-memory cache
// unless embedding.cache_size is 0.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	emb, err := embedding.New(cfg.Embedding)
	if err != nil {
		return nil, err
	}
	if cfg.Embedding.CacheSize == 0 {
		return emb, nil
	}
	return cache.NewCachedEmbedder(emb, cache.NewEmbeddingCache(cfg.Embedding.CacheSize)), nil
}

func newAnalyzeUseCase(cfg *config.Config, emb port.Embedder, topK int) *usecase.AnalyzeUseCase {
	log := GetLogger()

	return usecase.NewAnalyzeUseCase(
		newExtractUseCase(cfg),
		retriever.NewRelevanceRanker(emb),
		chunker.NewSubsectionSplitter(cfg.Split.MinFragmentLength),
		log,
		topK,
		cfg.Split.MaxPerSection,
	)
}

func newExtractUseCase(cfg *config.Config) *usecase.ExtractUseCase {
	return usecase.NewExtractUseCase(
		pdf.NewMultiSource(),
		chunker.NewHeadingExtractor(cfg.Extract.MinTitleLength, cfg.Extract.ContextLines),
		GetLogger(),
		cfg.Documents.Workers,
	)
}

func readInput(path string) (*domain.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var input domain.Input
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse input %s: %w", path, err)
	}

	for i, d := range input.Documents {
		if d.Filename == "" {
			return nil, fmt.Errorf("input document %d has no filename", i)
		}
	}

	return &input, nil
}

func discoverDocuments(cfg *config.Config, dir string) ([]domain.InputDocument, error) {
	var walker port.FileWalker = fs.NewWalker(cfg.Documents.Includes, cfg.Documents.Excludes)
	files, err := walker.Walk(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("input lists no documents and none were found in %s", dir)
	}

	docs := make([]domain.InputDocument, len(files))
	for i, f := range files {
		docs[i] = domain.InputDocument{Filename: f.RelPath}
	}
	return docs, nil
}

func writeOutput(out *domain.Output, path string, stdout io.Writer) error {
	w := stdout
	if path != "" {
		if err := config.EnsureDir(path); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// recordRun stores the run in the history database. Failures are logged and
// do not fail the command, since the output has already been written.
func recordRun(cfg *config.Config, out *domain.Output) {
	log := GetLogger()

	dbPath := cfg.HistoryDBPath(GetRootDir())
	if err := config.EnsureDir(dbPath); err != nil {
		log.Warn("history disabled", "error", err)
		return
	}

	st, err := openRunStore(cfg, dbPath)
	if err != nil {
		log.Warn("failed to open history", "path", dbPath, "error", err)
		return
	}
	defer st.Close()

	id, err := st.Save(out)
	if err != nil {
		log.Warn("failed to record run", "error", err)
		return
	}
	log.Info("recorded run", "id", id)
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docrank/internal/adapter/fs"
	"docrank/internal/port"
	"docrank/internal/usecase"
)

var sectionsJSON bool

var sectionsCmd = &cobra.Command{
	Use:   "sections PATH...",
	Short: "List detected section headings",
	Long: `Extract section headings from documents without ranking them. Directories
are scanned with the configured include and exclude patterns.

Examples:
  docrank sections guide.pdf
  docrank sections ./PDFs --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSections,
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
	sectionsCmd.Flags().BoolVar(&sectionsJSON, "json", false, "output as JSON")
}

type sectionJSON struct {
	Document   string `json:"document"`
	Title      string `json:"section_title"`
	PageNumber int    `json:"page_number"`
	Context    string `json:"context"`
}

func runSections(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	refs, err := collectRefs(args, fs.NewWalker(cfg.Documents.Includes, cfg.Documents.Excludes))
	if err != nil {
		return err
	}

	results, err := newExtractUseCase(cfg).ExtractAll(cmd.Context(), refs, newProgress("Extracting"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if sectionsJSON {
		list := []sectionJSON{}
		for _, r := range results {
			for _, s := range r.Sections {
				list = append(list, sectionJSON{
					Document:   s.SourceDocument,
					Title:      s.Title,
					PageNumber: s.PageNumber,
					Context:    s.ContextText,
				})
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(list)
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintf(out, "%s (%d sections)\n", r.Name, len(r.Sections))
		for _, s := range r.Sections {
			fmt.Fprintf(out, "  p%-4d %s\n", s.PageNumber, s.Title)
		}
	}

	return nil
}

// collectRefs expands directory arguments into the documents they contain.
// Files are taken as given.
func collectRefs(paths []string, walker port.FileWalker) ([]usecase.DocumentRef, error) {
	var refs []usecase.DocumentRef

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", p, err)
		}

		if !info.IsDir() {
			refs = append(refs, usecase.DocumentRef{Name: filepath.Base(p), Path: p})
			continue
		}

		files, err := walker.Walk(p)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", p, err)
		}
		for _, f := range files {
			refs = append(refs, usecase.DocumentRef{Name: f.RelPath, Path: f.Path})
		}
	}

	return refs, nil
}

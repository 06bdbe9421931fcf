package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"docrank/internal/adapter/chunker"
	"docrank/internal/adapter/retriever"
	"docrank/internal/domain"
)

// AnalyzeUseCase runs the full pipeline: extract every document, rank the
// union of their sections once, then split the ranked sections.
type AnalyzeUseCase struct {
	extract       *ExtractUseCase
	ranker        *retriever.RelevanceRanker
	splitter      *chunker.SubsectionSplitter
	log           *slog.Logger
	topK          int
	maxPerSection int
	now           func() time.Time
}

// NewAnalyzeUseCase creates a new analyze use case.
func NewAnalyzeUseCase(
	extract *ExtractUseCase,
	ranker *retriever.RelevanceRanker,
	splitter *chunker.SubsectionSplitter,
	log *slog.Logger,
	topK int,
	maxPerSection int,
) *AnalyzeUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &AnalyzeUseCase{
		extract:       extract,
		ranker:        ranker,
		splitter:      splitter,
		log:           log,
		topK:          topK,
		maxPerSection: maxPerSection,
		now:           time.Now,
	}
}

// Analyze processes the documents named in input, read from docDir.
// Unreadable documents become warnings. An embedder failure aborts the run
// and no output is returned.
func (u *AnalyzeUseCase) Analyze(ctx context.Context, input domain.Input, docDir string, progress ProgressFunc) (*domain.Output, error) {
	names := input.Filenames()

	refs := make([]DocumentRef, len(names))
	for i, name := range names {
		refs[i] = DocumentRef{Name: name, Path: filepath.Join(docDir, name)}
	}

	results, err := u.extract.ExtractAll(ctx, refs, progress)
	if err != nil {
		return nil, fmt.Errorf("extraction cancelled: %w", err)
	}

	var (
		all      []domain.Section
		warnings []string
	)
	for _, r := range results {
		if r.Err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", r.Name, r.Err))
			continue
		}
		all = append(all, r.Sections...)
	}

	u.log.Info("extraction complete", "documents", len(names), "skipped", len(warnings), "sections", len(all))

	query := retriever.BuildQuery(input.Persona.Role, input.JobToBeDone.Task)
	ranked, err := u.ranker.Rank(ctx, all, query, u.topK)
	if err != nil {
		return nil, fmt.Errorf("ranking failed: %w", err)
	}

	fragments := u.splitter.Refine(ranked, u.maxPerSection)

	u.log.Info("ranking complete", "ranked", len(ranked), "fragments", len(fragments))

	out := &domain.Output{
		Metadata: domain.Metadata{
			InputDocuments:      names,
			Persona:             input.Persona.Role,
			JobToBeDone:         input.JobToBeDone.Task,
			ProcessingTimestamp: u.now().UTC().Format(domain.TimestampLayout),
		},
		ExtractedSections:  make([]domain.ExtractedSection, 0, len(ranked)),
		SubsectionAnalysis: make([]domain.SubsectionResult, 0, len(fragments)),
		Warnings:           warnings,
	}

	for _, s := range ranked {
		out.ExtractedSections = append(out.ExtractedSections, domain.ExtractedSection{
			Document:       s.SourceDocument,
			SectionTitle:   s.Title,
			ImportanceRank: s.ImportanceRank,
			PageNumber:     s.PageNumber,
		})
	}
	for _, f := range fragments {
		out.SubsectionAnalysis = append(out.SubsectionAnalysis, domain.SubsectionResult{
			Document:    f.SourceDocument,
			RefinedText: f.Text,
			PageNumber:  f.PageNumber,
		})
	}

	return out, nil
}

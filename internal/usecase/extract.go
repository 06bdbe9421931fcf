package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"docrank/internal/adapter/chunker"
	"docrank/internal/domain"
	"docrank/internal/port"
)

// ProgressFunc is called after each document finishes extracting.
type ProgressFunc func(done, total int, document string)

// DocumentRef names an input document and where to read it from.
type DocumentRef struct {
	Name string
	Path string
}

// DocumentResult is the extraction outcome for one document. Err is set when
// the document was skipped.
type DocumentResult struct {
	Name     string
	Sections []domain.Section
	Err      error
}

// ExtractUseCase extracts sections from many documents concurrently.
type ExtractUseCase struct {
	source    port.PageSource
	extractor *chunker.HeadingExtractor
	log       *slog.Logger
	workers   int
}

// NewExtractUseCase creates a new extract use case.
func NewExtractUseCase(
	source port.PageSource,
	extractor *chunker.HeadingExtractor,
	log *slog.Logger,
	workers int,
) *ExtractUseCase {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &ExtractUseCase{
		source:    source,
		extractor: extractor,
		log:       log,
		workers:   workers,
	}
}

// ExtractAll extracts every document and returns one result per input, in
// input order. A document that cannot be read is logged and yields no
// sections; only cancellation of ctx fails the whole call.
func (u *ExtractUseCase) ExtractAll(ctx context.Context, docs []DocumentRef, progress ProgressFunc) ([]DocumentResult, error) {
	results := make([]DocumentResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)

	var (
		mu   sync.Mutex
		done int
	)
	for i, doc := range docs {
		g.Go(func() error {
			sections, err := u.extractOne(gctx, doc)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				u.log.Warn("skipping document", "document", doc.Name, "error", err)
				sections = nil
			} else {
				u.log.Debug("extracted document", "document", doc.Name, "sections", len(sections))
			}

			results[i] = DocumentResult{Name: doc.Name, Sections: sections, Err: err}

			// Counting and reporting under one lock keeps done increasing.
			mu.Lock()
			done++
			if progress != nil {
				progress(done, len(docs), doc.Name)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (u *ExtractUseCase) extractOne(ctx context.Context, ref DocumentRef) ([]domain.Section, error) {
	doc, err := u.source.Open(ref.Path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return u.extractor.ExtractDocument(ctx, doc, ref.Name)
}

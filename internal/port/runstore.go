package port

import "docrank/internal/domain"

// RunStore persists finished analysis runs.
type RunStore interface {
	Save(out *domain.Output) (string, error)

	List(limit int) ([]domain.RunSummary, error)

	Get(id string) (*domain.Output, error)

	Close() error
}

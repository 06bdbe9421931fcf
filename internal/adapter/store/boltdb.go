package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"docrank/config"
	"docrank/internal/domain"
	"docrank/internal/port"
)

var _ port.RunStore = (*BoltRunStore)(nil)

var (
	bucketRuns = []byte("runs")
	bucketMeta = []byte("meta")
)

// BoltRunStore keeps finished analysis runs in a bbolt database.
// Run IDs start with a UTC timestamp, so key order is chronological.
type BoltRunStore struct {
	db         *bbolt.DB
	configHash string
	now        func() time.Time
}

type storedRun struct {
	Summary domain.RunSummary `json:"summary"`
	Output  *domain.Output    `json:"output"`
}

// NewBoltRunStore opens (or creates) the database at path and brings its
// schema up to date.
func NewBoltRunStore(path string, cfg *config.Config) (*BoltRunStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketRuns, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltRunStore{
		db:         db,
		configHash: ComputeConfigHash(cfg),
		now:        time.Now,
	}

	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Save stores out and returns its run ID.
func (s *BoltRunStore) Save(out *domain.Output) (string, error) {
	var id string
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRuns)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		createdAt := s.now().UTC()
		id = fmt.Sprintf("%s-%06d", createdAt.Format("20060102T150405.000000000Z"), seq)

		summary := summarize(id, createdAt, out)
		summary.ConfigHash = s.configHash

		data, err := json.Marshal(storedRun{Summary: summary, Output: out})
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return id, nil
}

// List returns up to limit run summaries, newest first. A limit of 0 or less
// returns every run.
func (s *BoltRunStore) List(limit int) ([]domain.RunSummary, error) {
	var summaries []domain.RunSummary
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(summaries) >= limit {
				break
			}
			var run storedRun
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("corrupt run %s: %w", k, err)
			}
			summaries = append(summaries, run.Summary)
		}
		return nil
	})
	return summaries, err
}

// Get returns the stored output of run id.
func (s *BoltRunStore) Get(id string) (*domain.Output, error) {
	var out *domain.Output
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRuns).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("run not found: %s", id)
		}
		var run storedRun
		if err := json.Unmarshal(data, &run); err != nil {
			return err
		}
		out = run.Output
		return nil
	})
	return out, err
}

func (s *BoltRunStore) Close() error {
	return s.db.Close()
}

func summarize(id string, createdAt time.Time, out *domain.Output) domain.RunSummary {
	return domain.RunSummary{
		ID:        id,
		CreatedAt: createdAt,
		Persona:   out.Metadata.Persona,
		Task:      out.Metadata.JobToBeDone,
		Documents: len(out.Metadata.InputDocuments),
		Sections:  len(out.ExtractedSections),
		Fragments: len(out.SubsectionAnalysis),
	}
}

package store

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.etcd.io/bbolt"

	"docrank/config"
	"docrank/internal/domain"
)

func sampleOutput(persona string, fragments int) *domain.Output {
	out := &domain.Output{
		Metadata: domain.Metadata{
			InputDocuments: []string{"a.pdf", "b.pdf"},
			Persona:        persona,
			JobToBeDone:    "Plan a trip",
		},
		ExtractedSections: []domain.ExtractedSection{
			{Document: "a.pdf", SectionTitle: "Coastal Towns", ImportanceRank: 1, PageNumber: 2},
		},
	}
	for i := 0; i < fragments; i++ {
		out.SubsectionAnalysis = append(out.SubsectionAnalysis, domain.SubsectionResult{
			Document: "a.pdf", RefinedText: "A fragment of refined text.", PageNumber: 2,
		})
	}
	return out
}

func openTestStore(t *testing.T, path string) *BoltRunStore {
	t.Helper()
	s, err := NewBoltRunStore(path, config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunStoreSaveListGet(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "history.db"))
	defer s.Close()

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	firstID, err := s.Save(sampleOutput("Travel Planner", 1))
	if err != nil {
		t.Fatal(err)
	}
	secondID, err := s.Save(sampleOutput("HR Professional", 2))
	if err != nil {
		t.Fatal(err)
	}
	if firstID == secondID {
		t.Fatal("run IDs must be unique")
	}

	runs, err := s.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != secondID {
		t.Errorf("expected newest run first, got %s", runs[0].ID)
	}
	if runs[0].Fragments != 2 || runs[0].Sections != 1 || runs[0].Documents != 2 {
		t.Errorf("unexpected summary %+v", runs[0])
	}
	if runs[0].ConfigHash != ComputeConfigHash(config.DefaultConfig()) {
		t.Errorf("summary should carry the config hash")
	}

	limited, err := s.List(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 run with limit, got %d", len(limited))
	}

	out, err := s.Get(firstID)
	if err != nil {
		t.Fatal(err)
	}
	if out.Metadata.Persona != "Travel Planner" {
		t.Errorf("unexpected persona %q", out.Metadata.Persona)
	}

	if _, err := s.Get("missing"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestRunStoreSchemaVersion(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "history.db"))
	defer s.Close()

	version, err := s.SchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("expected version %d, got %d", CurrentSchemaVersion, version)
	}
}

func TestRunStoreMigratesV1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s := openTestStore(t, path)
	id, err := s.Save(sampleOutput("Travel Planner", 3))
	if err != nil {
		t.Fatal(err)
	}

	// Rewrite the record as v1 did: no fragment count.
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		var run storedRun
		if err := json.Unmarshal(b.Get([]byte(id)), &run); err != nil {
			return err
		}
		run.Summary.Fragments = 0
		data, err := json.Marshal(run)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(id), data); err != nil {
			return err
		}
		return s.setSchemaVersion(tx, 1)
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s = openTestStore(t, path)
	defer s.Close()

	runs, err := s.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Fragments != 3 {
		t.Errorf("expected migrated fragment count 3, got %+v", runs)
	}
}

func TestRunStoreRefusesNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s := openTestStore(t, path)
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return s.setSchemaVersion(tx, CurrentSchemaVersion+1)
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	_, err = NewBoltRunStore(path, config.DefaultConfig())
	if err == nil || !strings.Contains(err.Error(), "newer version") {
		t.Errorf("expected newer version error, got %v", err)
	}
}

func TestComputeConfigHash(t *testing.T) {
	a := config.DefaultConfig()
	b := config.DefaultConfig()
	if ComputeConfigHash(a) != ComputeConfigHash(b) {
		t.Error("equal configs should hash equally")
	}

	b.Rank.TopK = 3
	if ComputeConfigHash(a) == ComputeConfigHash(b) {
		t.Error("changing top_k should change the hash")
	}

	b = config.DefaultConfig()
	b.Logging.Level = "debug"
	if ComputeConfigHash(a) != ComputeConfigHash(b) {
		t.Error("logging settings should not affect the hash")
	}
}

package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"docrank/config"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 2

var keySchemaVersion = []byte("schema_version")

// SchemaVersion returns the stored schema version, 0 for a new database.
func (s *BoltRunStore) SchemaVersion() (int, error) {
	var version int
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keySchemaVersion)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &version)
	})
	return version, err
}

func (s *BoltRunStore) setSchemaVersion(tx *bbolt.Tx, version int) error {
	data, err := json.Marshal(version)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketMeta).Put(keySchemaVersion, data)
}

// Migrate upgrades the database to CurrentSchemaVersion. Databases written by
// a newer version are refused rather than rewritten.
func (s *BoltRunStore) Migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version > CurrentSchemaVersion {
		return fmt.Errorf("history database created by newer version (v%d > v%d)", version, CurrentSchemaVersion)
	}

	for v := version; v < CurrentSchemaVersion; v++ {
		if err := s.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	if version == CurrentSchemaVersion {
		return nil
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return s.setSchemaVersion(tx, CurrentSchemaVersion)
	})
}

// runMigration runs a specific version migration.
func (s *BoltRunStore) runMigration(from, to int) error {
	switch {
	case from == 0 && to == 1:
		return nil
	case from == 1 && to == 2:
		// v1 summaries had no fragment count; rebuild them from the output.
		return s.db.Update(func(tx *bbolt.Tx) error {
			b := tx.Bucket(bucketRuns)
			updates := make(map[string][]byte)

			err := b.ForEach(func(k, v []byte) error {
				var run storedRun
				if err := json.Unmarshal(v, &run); err != nil {
					return nil // Skip corrupted entries
				}
				if run.Output == nil {
					return nil
				}
				fresh := summarize(run.Summary.ID, run.Summary.CreatedAt, run.Output)
				fresh.ConfigHash = run.Summary.ConfigHash
				run.Summary = fresh

				data, err := json.Marshal(run)
				if err != nil {
					return err
				}
				updates[string(k)] = data
				return nil
			})
			if err != nil {
				return err
			}

			for k, data := range updates {
				if err := b.Put([]byte(k), data); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return nil
	}
}

// ComputeConfigHash hashes the settings that shape an analysis result, so
// runs produced under different settings can be told apart.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		MinTitleLength    int    `json:"min_title_length"`
		ContextLines      int    `json:"context_lines"`
		TopK              int    `json:"top_k"`
		MinFragmentLength int    `json:"min_fragment_length"`
		MaxPerSection     int    `json:"max_per_section"`
		EmbProvider       string `json:"emb_provider"`
		EmbModel          string `json:"emb_model"`
		EmbDimension      int    `json:"emb_dimension"`
	}{
		MinTitleLength:    cfg.Extract.MinTitleLength,
		ContextLines:      cfg.Extract.ContextLines,
		TopK:              cfg.Rank.TopK,
		MinFragmentLength: cfg.Split.MinFragmentLength,
		MaxPerSection:     cfg.Split.MaxPerSection,
		EmbProvider:       cfg.Embedding.Provider,
		EmbModel:          cfg.Embedding.Model,
		EmbDimension:      cfg.Embedding.Dimension,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

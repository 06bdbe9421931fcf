package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for docrank.
type Config struct {
	Extract   ExtractConfig   `yaml:"extract"`
	Rank      RankConfig      `yaml:"rank"`
	Split     SplitConfig     `yaml:"split"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Documents DocumentsConfig `yaml:"documents"`
	History   HistoryConfig   `yaml:"history"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ExtractConfig controls heading detection.
type ExtractConfig struct {
	MinTitleLength int `yaml:"min_title_length"` // Titles must be strictly longer than this
	ContextLines   int `yaml:"context_lines"`    // Lines captured after each heading
}

// RankConfig controls relevance ranking.
type RankConfig struct {
	TopK int `yaml:"top_k"`
}

// SplitConfig controls subsection splitting.
type SplitConfig struct {
	MinFragmentLength int `yaml:"min_fragment_length"` // Fragments must be strictly longer than this
	MaxPerSection     int `yaml:"max_per_section"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"`    // "hashing", "openai", "deepseek", "jina", "ollama", "mock"
	Model          string `yaml:"model"`       // e.g., "all-minilm"
	APIKeyEnv      string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL        string `yaml:"base_url"`
	Dimension      int    `yaml:"dimension"`
	BatchSize      int    `yaml:"batch_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CacheSize      int    `yaml:"cache_size"` // In-memory vectors kept per run, 0 disables
}

// DocumentsConfig controls how input documents are discovered and read.
type DocumentsConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	Workers  int      `yaml:"workers"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Relative paths resolve against the root directory
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			MinTitleLength: 6,
			ContextLines:   5,
		},
		Rank: RankConfig{
			TopK: 8,
		},
		Split: SplitConfig{
			MinFragmentLength: 25,
			MaxPerSection:     2,
		},
		Embedding: EmbeddingConfig{
			Provider:       "hashing",
			Model:          "all-minilm",
			APIKeyEnv:      "OPENAI_API_KEY",
			Dimension:      384,
			BatchSize:      64,
			TimeoutSeconds: 60,
			CacheSize:      4096,
		},
		Documents: DocumentsConfig{
			Includes: []string{"**/*.pdf", "**/*.txt"},
			Excludes: []string{"**/.docrank/**", "**/.git/**"},
			Workers:  4,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(".docrank", "history.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docrank.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docrank.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docrank", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks values that would otherwise produce nonsensical runs.
func (c *Config) Validate() error {
	if c.Rank.TopK < 0 {
		return fmt.Errorf("rank.top_k must be >= 0, got %d", c.Rank.TopK)
	}
	if c.Extract.ContextLines < 0 {
		return fmt.Errorf("extract.context_lines must be >= 0, got %d", c.Extract.ContextLines)
	}
	if c.Split.MaxPerSection < 0 {
		return fmt.Errorf("split.max_per_section must be >= 0, got %d", c.Split.MaxPerSection)
	}
	if c.Embedding.CacheSize < 0 {
		return fmt.Errorf("embedding.cache_size must be >= 0, got %d", c.Embedding.CacheSize)
	}
	if c.Documents.Workers <= 0 {
		return fmt.Errorf("documents.workers must be > 0, got %d", c.Documents.Workers)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown logging.format: %s", c.Logging.Format)
	}
	return nil
}

// ParseLevel maps a config level name onto a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown logging.level: %s", level)
	}
}

// HistoryDBPath returns the path to the run history database.
func (c *Config) HistoryDBPath(dir string) string {
	if filepath.IsAbs(c.History.Path) {
		return c.History.Path
	}
	return filepath.Join(dir, c.History.Path)
}

// EnsureDir ensures the parent directory of path exists.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

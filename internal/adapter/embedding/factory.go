package embedding

import (
	"fmt"
	"time"

	"docrank/config"
	"docrank/internal/domain"
	"docrank/internal/port"
)

// New builds the embedder selected by cfg. Failures wrap
// domain.ErrEmbedderUnavailable.
func New(cfg config.EmbeddingConfig) (port.Embedder, error) {
	opts := OpenAIOptions{
		APIKeyEnv: cfg.APIKeyEnv,
		Model:     cfg.Model,
		BaseURL:   cfg.BaseURL,
		BatchSize: cfg.BatchSize,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	var (
		embedder port.Embedder
		err      error
	)

	switch cfg.Provider {
	case "hashing", "":
		embedder = NewHashingEmbedder(cfg.Dimension)
	case "openai":
		embedder, err = NewOpenAIEmbedder(opts)
	case "deepseek":
		embedder, err = NewDeepSeekEmbedder(opts)
	case "jina":
		embedder, err = NewJinaEmbedder(opts)
	case "ollama":
		embedder, err = NewOllamaEmbedder(opts)
	case "mock":
		embedder = NewMockEmbedder(cfg.Dimension)
	default:
		err = fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedderUnavailable, err)
	}

	return embedder, nil
}

package port

import "context"

// Embedder generates vector embeddings for text.
// Implementations must be deterministic: the vector for a text does not
// depend on which other texts share its batch.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

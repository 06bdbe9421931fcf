package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"

	"docrank/internal/domain"
	"docrank/internal/port"
)

// RelevanceRanker orders sections by embedding similarity to a query.
type RelevanceRanker struct {
	embedder port.Embedder
}

// NewRelevanceRanker creates a ranker around an already loaded embedder.
func NewRelevanceRanker(embedder port.Embedder) *RelevanceRanker {
	return &RelevanceRanker{embedder: embedder}
}

// BuildQuery joins a persona role and a task into a ranking query.
func BuildQuery(role, task string) string {
	return role + ": " + task
}

// compositeText is the text embedded for a section.
func compositeText(s domain.Section) string {
	return s.Title + ". " + s.ContextText
}

// Rank scores sections against query and returns the best topK of them with
// ImportanceRank (1-based) and Score (rounded to 4 decimals) set.
// Equal scores keep their input order. The input slice is not modified.
func (r *RelevanceRanker) Rank(ctx context.Context, sections []domain.Section, query string, topK int) ([]domain.Section, error) {
	if len(sections) == 0 {
		return []domain.Section{}, nil
	}

	// Query first, then one composite per section, in a single call.
	texts := make([]string, 0, len(sections)+1)
	texts = append(texts, query)
	for _, s := range sections {
		texts = append(texts, compositeText(s))
	}

	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedderUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", domain.ErrEmbedderUnavailable, len(texts), len(vectors))
	}

	type scored struct {
		section domain.Section
		score   float64
	}

	queryVec := vectors[0]
	scores := make([]scored, len(sections))
	for i, s := range sections {
		scores[i] = scored{
			section: s,
			score:   CosineSimilarity(queryVec, vectors[i+1]),
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if topK < 0 {
		topK = 0
	}
	if topK > len(scores) {
		topK = len(scores)
	}

	ranked := make([]domain.Section, topK)
	for i := 0; i < topK; i++ {
		ranked[i] = scores[i].section
		ranked[i].ImportanceRank = i + 1
		ranked[i].Score = roundScore(scores[i].score)
	}

	return ranked, nil
}

func roundScore(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// CosineSimilarity returns the cosine of the angle between a and b, clamped
// to [-1, 1]. Mismatched lengths and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim))
}

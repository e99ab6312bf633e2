package vector

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"cnpjchat/internal/port"
)

// MemoryIndex is a brute-force cosine-similarity index over the
// materialized CNAE vectors. The dataset's category space is small enough
// that a linear scan stays fast; the structure is rebuilt from the vector
// table at startup and after `cnpjchat index`.
type MemoryIndex struct {
	dimension int
	mu        sync.RWMutex
	vectors   map[string][]float32
}

// NewMemoryIndex creates an empty index for vectors of the given dimension.
// dimension <= 0 defers it to the first upserted vector.
func NewMemoryIndex(dimension int) *MemoryIndex {
	return &MemoryIndex{
		dimension: dimension,
		vectors:   make(map[string][]float32),
	}
}

// Upsert adds or updates vectors in the index.
func (s *MemoryIndex) Upsert(items []port.VectorItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if s.dimension <= 0 && len(item.Vector) > 0 {
			s.dimension = len(item.Vector)
		}
		if len(item.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
		}
		s.vectors[item.ID] = item.Vector
	}
	return nil
}

// Search finds the k nearest vectors to the query by cosine similarity,
// excluding the entry named by exclude. Scores are clamped to [0, 1] and
// ordered descending; equal scores break by ID ascending.
func (s *MemoryIndex) Search(query []float32, k int, exclude string) ([]port.VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if len(s.vectors) == 0 {
		return nil, nil
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}

	scores := make([]port.VectorResult, 0, len(s.vectors))
	for id, vec := range s.vectors {
		if id == exclude {
			continue
		}
		scores = append(scores, port.VectorResult{
			ID:    id,
			Score: clamp01(cosineSimilarity(query, vec)),
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].ID < scores[j].ID
	})

	if k > len(scores) {
		k = len(scores)
	}
	return scores[:k], nil
}

// Count returns the number of vectors in the index.
func (s *MemoryIndex) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
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

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

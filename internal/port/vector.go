package port

// VectorIndex answers nearest-neighbour queries over fixed-dimension
// CNAE vectors. Precondition: every vector shares one dimension.
type VectorIndex interface {
	// Upsert adds or updates vectors in the index.
	Upsert(items []VectorItem) error

	// Search finds the k nearest vectors to the query by cosine similarity,
	// excluding the entry whose ID equals exclude. Scores are in [0, 1],
	// ordered descending; ties break by ID ascending.
	Search(query []float32, k int, exclude string) ([]VectorResult, error)

	// Count returns the number of vectors in the index.
	Count() int
}

// VectorItem is a vector keyed by cnpj_basico.
type VectorItem struct {
	ID     string
	Vector []float32
}

// VectorResult is one ranked neighbour.
type VectorResult struct {
	ID    string
	Score float64
}

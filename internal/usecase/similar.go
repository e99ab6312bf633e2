package usecase

import (
	"context"
	"errors"
	"fmt"

	"cnpjchat/internal/domain"
	"cnpjchat/internal/port"
)

// DefaultTopK is how many neighbours a similarity query returns when the
// caller does not ask for a specific count.
const DefaultTopK = 10

// SimilarUseCase ranks companies by CNAE profile proximity. The reference
// company is always excluded from its own ranking.
type SimilarUseCase struct {
	vectors port.VectorStore
	index   port.VectorIndex
	store   port.CompanyStore
	topK    int
}

// NewSimilarUseCase creates a new similarity use case. topK <= 0 selects
// DefaultTopK.
func NewSimilarUseCase(vectors port.VectorStore, index port.VectorIndex, store port.CompanyStore, topK int) *SimilarUseCase {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &SimilarUseCase{
		vectors: vectors,
		index:   index,
		store:   store,
		topK:    topK,
	}
}

// Similar returns up to k companies closest to cnpj by cosine similarity,
// best first. k <= 0 selects the configured default. Returns
// domain.ErrVectorMissing when the reference company has no materialized
// vector.
func (u *SimilarUseCase) Similar(ctx context.Context, cnpj string, k int) ([]domain.SimilarCompany, error) {
	if k <= 0 {
		k = u.topK
	}

	vec, err := u.vectors.GetVector(ctx, cnpj)
	if err != nil {
		return nil, err
	}

	hits, err := u.index.Search(vec, k, cnpj)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	out := make([]domain.SimilarCompany, 0, len(hits))
	for _, hit := range hits {
		company, err := u.store.GetCompany(ctx, hit.ID)
		if err != nil {
			// Index entries can outlive registry rows between rebuilds.
			if errors.Is(err, domain.ErrCompanyNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, domain.SimilarCompany{
			CNPJBasico:  hit.ID,
			RazaoSocial: company.RazaoSocial,
			Score:       hit.Score,
		})
	}
	return out, nil
}

package usecase

import (
	"context"
	"fmt"

	"cnpjchat/internal/adapter/cache"
	"cnpjchat/internal/adapter/store/sqlite"
	"cnpjchat/internal/adapter/vector"
	"cnpjchat/internal/domain"
	"cnpjchat/internal/log"
	"cnpjchat/internal/port"
)

// IndexUseCase builds the two derived search structures from the ingested
// registry: the full-text index over legal names and the per-company CNAE
// vectors. Rebuilds invalidate the resolve cache.
//
// The vector taxonomy comes from the official CNAE reference table when it
// is loaded; otherwise the encoder falls back to the identity coordinate
// mapping over the configured dimension.
type IndexUseCase struct {
	store     *sqlite.Store
	index     port.VectorIndex
	cache     *cache.ResolveCache
	dimension int
}

// IndexStats summarizes a rebuild.
type IndexStats struct {
	Companies int
	Vectors   int
	Dimension int
}

// NewIndexUseCase creates a new index use case. cache may be nil;
// dimension <= 0 selects the encoder default.
func NewIndexUseCase(store *sqlite.Store, index port.VectorIndex, cache *cache.ResolveCache, dimension int) *IndexUseCase {
	return &IndexUseCase{
		store:     store,
		index:     index,
		cache:     cache,
		dimension: dimension,
	}
}

// Rebuild recreates the lexical index and rematerializes every company
// vector, then reloads the in-memory search index.
func (u *IndexUseCase) Rebuild(ctx context.Context) (*IndexStats, error) {
	if err := u.store.RebuildLexicalIndex(ctx); err != nil {
		return nil, fmt.Errorf("rebuild lexical index: %w", err)
	}

	encoder, err := u.encoder(ctx)
	if err != nil {
		return nil, err
	}

	stats := &IndexStats{Dimension: encoder.Dimension()}
	err = u.store.AllCompanies(ctx, func(c domain.Company) error {
		stats.Companies++
		vec := encoder.Encode(c.CNAEPrincipal, c.CNAESecundaria)
		if err := u.store.SaveVector(ctx, c.CNPJBasico, vec); err != nil {
			return fmt.Errorf("save vector %s: %w", c.CNPJBasico, err)
		}
		stats.Vectors++
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := u.Load(ctx); err != nil {
		return nil, err
	}

	if u.cache != nil {
		u.cache.Invalidate()
	}

	log.Infof("index rebuilt: %d companies, %d vectors, dimension %d",
		stats.Companies, stats.Vectors, stats.Dimension)
	return stats, nil
}

// Load fills the in-memory vector index from the stored vectors. Called at
// startup and after a rebuild.
func (u *IndexUseCase) Load(ctx context.Context) error {
	items := make([]port.VectorItem, 0, 1024)
	err := u.store.AllVectors(ctx, func(cnpj string, vec []float32) error {
		items = append(items, port.VectorItem{ID: cnpj, Vector: vec})
		return nil
	})
	if err != nil {
		return fmt.Errorf("load vectors: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	return u.index.Upsert(items)
}

func (u *IndexUseCase) encoder(ctx context.Context) (*vector.Encoder, error) {
	codes, err := u.store.ReferenceCodes(ctx, "cnaes")
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	if len(codes) == 0 {
		log.Warnf("cnaes reference table empty, falling back to identity taxonomy")
		return vector.NewEncoder(u.dimension), nil
	}
	return vector.NewEncoderFromCodes(codes), nil
}

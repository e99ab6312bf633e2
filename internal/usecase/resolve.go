package usecase

import (
	"context"
	"errors"
	"strings"

	"cnpjchat/internal/adapter/cache"
	"cnpjchat/internal/domain"
	"cnpjchat/internal/log"
	"cnpjchat/internal/port"
)

// ResolveUseCase turns a free-text company name into a CNPJ root.
//
// Resolution runs in two stages: a ranked full-text match first, then a
// case-insensitive substring scan when the index is unavailable or finds
// nothing. Stage one failures never abort a lookup.
type ResolveUseCase struct {
	lexical port.LexicalIndex
	store   port.CompanyStore
	cache   *cache.ResolveCache
}

// NewResolveUseCase creates a new resolve use case. The cache may be nil.
func NewResolveUseCase(lexical port.LexicalIndex, store port.CompanyStore, cache *cache.ResolveCache) *ResolveUseCase {
	return &ResolveUseCase{
		lexical: lexical,
		store:   store,
		cache:   cache,
	}
}

// Resolve returns the CNPJ root of the company best matching name.
// Blank input and misses both return domain.ErrCompanyNotFound.
func (u *ResolveUseCase) Resolve(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrCompanyNotFound
	}

	if u.cache != nil {
		if cnpj, ok := u.cache.Get(name); ok {
			return cnpj, nil
		}
	}

	cnpj, err := u.lexical.BestMatch(ctx, name)
	if err != nil {
		if !errors.Is(err, domain.ErrCompanyNotFound) && !errors.Is(err, domain.ErrIndexUnavailable) {
			log.Warnf("lexical match failed for %q: %v", name, err)
		}
		cnpj, err = u.store.FindNameContains(ctx, name)
		if err != nil {
			return "", err
		}
	}

	if u.cache != nil {
		u.cache.Put(name, cnpj)
	}
	return cnpj, nil
}

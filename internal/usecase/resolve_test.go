package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"cnpjchat/internal/adapter/cache"
	"cnpjchat/internal/domain"
)

func TestResolveBlankInput(t *testing.T) {
	u := NewResolveUseCase(&fakeLexical{}, newFakeStore(), nil)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := u.Resolve(context.Background(), name)
		if !errors.Is(err, domain.ErrCompanyNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrCompanyNotFound", name, err)
		}
	}
}

func TestResolveLexicalHit(t *testing.T) {
	store := newFakeStore()
	store.add(domain.Company{CNPJBasico: "11111111", RazaoSocial: "Scoras Tecnologia LTDA"})
	lexical := &fakeLexical{matches: map[string]string{"scoras tecnologia": "11111111"}}

	u := NewResolveUseCase(lexical, store, nil)
	cnpj, err := u.Resolve(context.Background(), "Scoras Tecnologia")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cnpj != "11111111" {
		t.Errorf("cnpj = %q, want 11111111", cnpj)
	}
}

func TestResolveFallsBackWhenIndexUnavailable(t *testing.T) {
	store := newFakeStore()
	store.add(domain.Company{CNPJBasico: "22222222", RazaoSocial: "Vaccinar Nutrição Animal"})
	lexical := &fakeLexical{err: domain.ErrIndexUnavailable}

	u := NewResolveUseCase(lexical, store, nil)
	cnpj, err := u.Resolve(context.Background(), "vaccinar")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cnpj != "22222222" {
		t.Errorf("cnpj = %q, want 22222222", cnpj)
	}
}

func TestResolveFallsBackWhenIndexMisses(t *testing.T) {
	store := newFakeStore()
	store.add(domain.Company{CNPJBasico: "33333333", RazaoSocial: "Padaria Estrela do Norte"})
	lexical := &fakeLexical{matches: map[string]string{}}

	u := NewResolveUseCase(lexical, store, nil)
	cnpj, err := u.Resolve(context.Background(), "estrela do norte")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cnpj != "33333333" {
		t.Errorf("cnpj = %q, want 33333333", cnpj)
	}
}

func TestResolveMissEverywhere(t *testing.T) {
	u := NewResolveUseCase(&fakeLexical{}, newFakeStore(), nil)

	_, err := u.Resolve(context.Background(), "Empresa Inexistente")
	if !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Errorf("error = %v, want ErrCompanyNotFound", err)
	}
}

func TestResolveIdempotent(t *testing.T) {
	store := newFakeStore()
	store.add(domain.Company{CNPJBasico: "11111111", RazaoSocial: "Scoras Tecnologia LTDA"})
	lexical := &fakeLexical{matches: map[string]string{"scoras tecnologia": "11111111"}}

	u := NewResolveUseCase(lexical, store, nil)
	first, err := u.Resolve(context.Background(), "Scoras Tecnologia")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := u.Resolve(context.Background(), "Scoras Tecnologia")
	if err != nil {
		t.Fatalf("Resolve (repeat): %v", err)
	}
	if first != second {
		t.Errorf("repeated resolution differs: %q then %q", first, second)
	}
}

func TestResolveUsesCache(t *testing.T) {
	store := newFakeStore()
	store.add(domain.Company{CNPJBasico: "11111111", RazaoSocial: "Scoras Tecnologia LTDA"})
	lexical := &fakeLexical{matches: map[string]string{"scoras tecnologia": "11111111"}}
	c := cache.NewResolveCache(16, time.Minute)

	u := NewResolveUseCase(lexical, store, c)
	for i := 0; i < 3; i++ {
		if _, err := u.Resolve(context.Background(), "Scoras Tecnologia"); err != nil {
			t.Fatalf("Resolve #%d: %v", i, err)
		}
	}
	if lexical.calls != 1 {
		t.Errorf("lexical index queried %d times, want 1", lexical.calls)
	}
}

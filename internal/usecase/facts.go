package usecase

import (
	"context"
	"errors"

	"cnpjchat/internal/domain"
	"cnpjchat/internal/port"
)

// FactsUseCase answers the structured fact questions about a resolved
// company: headquarters address and branch counts.
type FactsUseCase struct {
	store port.CompanyStore
}

// NewFactsUseCase creates a new facts use case.
func NewFactsUseCase(store port.CompanyStore) *FactsUseCase {
	return &FactsUseCase{store: store}
}

// Address returns the headquarters address of the company.
func (u *FactsUseCase) Address(ctx context.Context, cnpj string) (domain.Address, error) {
	est, err := u.store.Headquarters(ctx, cnpj)
	if err != nil {
		return domain.Address{}, err
	}
	return domain.Address{
		Logradouro: est.Logradouro,
		Numero:     est.Numero,
		Bairro:     est.Bairro,
		Municipio:  est.Municipio,
		UF:         est.UF,
	}, nil
}

// Branches counts the establishments flagged as branch units. A company
// with no branches is a valid zero answer, not an error.
func (u *FactsUseCase) Branches(ctx context.Context, cnpj string) (domain.BranchCount, error) {
	n, err := u.store.CountBranches(ctx, cnpj)
	if err != nil {
		return domain.BranchCount{}, err
	}
	return domain.BranchCount{Filiais: n}, nil
}

// TaxRegime returns the Simples Nacional history, most recent opt-in first.
func (u *FactsUseCase) TaxRegime(ctx context.Context, cnpj string) ([]domain.TaxRegimeEntry, error) {
	return u.store.TaxRegime(ctx, cnpj)
}

// Partners returns the ownership records, most recent entry first.
func (u *FactsUseCase) Partners(ctx context.Context, cnpj string) ([]domain.Partner, error) {
	return u.store.Partners(ctx, cnpj)
}

// LegalNature returns the legal-nature code with its reference description.
func (u *FactsUseCase) LegalNature(ctx context.Context, cnpj string) (domain.LegalNature, error) {
	return u.store.LegalNature(ctx, cnpj)
}

// Activities returns the CNAE codes with their reference descriptions.
func (u *FactsUseCase) Activities(ctx context.Context, cnpj string) (domain.Activities, error) {
	return u.store.Activities(ctx, cnpj)
}

// Contact returns the headquarters contact record.
func (u *FactsUseCase) Contact(ctx context.Context, cnpj string) (domain.Contact, error) {
	return u.store.Contact(ctx, cnpj)
}

// Profile assembles the whole fact family for one company. A missing
// headquarters leaves the address section empty rather than failing the
// profile; only an unknown company is an error.
func (u *FactsUseCase) Profile(ctx context.Context, cnpj string) (domain.CompanyProfile, error) {
	company, err := u.store.GetCompany(ctx, cnpj)
	if err != nil {
		return domain.CompanyProfile{}, err
	}

	profile := domain.CompanyProfile{
		CNPJBasico:  company.CNPJBasico,
		RazaoSocial: company.RazaoSocial,
	}

	if addr, err := u.Address(ctx, cnpj); err == nil {
		profile.Endereco = &addr
	} else if !errors.Is(err, domain.ErrAddressNotFound) {
		return domain.CompanyProfile{}, err
	}

	branches, err := u.Branches(ctx, cnpj)
	if err != nil {
		return domain.CompanyProfile{}, err
	}
	profile.Filiais = branches.Filiais

	if profile.NaturezaJur, err = u.LegalNature(ctx, cnpj); err != nil {
		return domain.CompanyProfile{}, err
	}
	if profile.Atividades, err = u.Activities(ctx, cnpj); err != nil {
		return domain.CompanyProfile{}, err
	}
	if contato, err := u.Contact(ctx, cnpj); err == nil {
		profile.Contato = contato
	} else if !errors.Is(err, domain.ErrAddressNotFound) {
		return domain.CompanyProfile{}, err
	}
	if profile.Simples, err = u.TaxRegime(ctx, cnpj); err != nil {
		return domain.CompanyProfile{}, err
	}
	if profile.Socios, err = u.Partners(ctx, cnpj); err != nil {
		return domain.CompanyProfile{}, err
	}
	return profile, nil
}

package usecase

import (
	"context"
	"strings"

	"cnpjchat/internal/domain"
	"cnpjchat/internal/port"
)

// In-memory fakes for the ports the use cases depend on.

type fakeStore struct {
	companies map[string]domain.Company
	order     []string
	hq        map[string]domain.Establishment
	branches  map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		companies: make(map[string]domain.Company),
		hq:        make(map[string]domain.Establishment),
		branches:  make(map[string]int),
	}
}

func (f *fakeStore) add(c domain.Company) {
	f.companies[c.CNPJBasico] = c
	f.order = append(f.order, c.CNPJBasico)
}

func (f *fakeStore) GetCompany(_ context.Context, cnpj string) (domain.Company, error) {
	c, ok := f.companies[cnpj]
	if !ok {
		return domain.Company{}, domain.ErrCompanyNotFound
	}
	return c, nil
}

func (f *fakeStore) FindNameContains(_ context.Context, text string) (string, error) {
	needle := strings.ToLower(text)
	for _, cnpj := range f.order {
		if strings.Contains(strings.ToLower(f.companies[cnpj].RazaoSocial), needle) {
			return cnpj, nil
		}
	}
	return "", domain.ErrCompanyNotFound
}

func (f *fakeStore) Headquarters(_ context.Context, cnpj string) (domain.Establishment, error) {
	est, ok := f.hq[cnpj]
	if !ok {
		return domain.Establishment{}, domain.ErrAddressNotFound
	}
	return est, nil
}

func (f *fakeStore) CountBranches(_ context.Context, cnpj string) (int, error) {
	return f.branches[cnpj], nil
}

func (f *fakeStore) TaxRegime(context.Context, string) ([]domain.TaxRegimeEntry, error) {
	return nil, nil
}

func (f *fakeStore) Partners(context.Context, string) ([]domain.Partner, error) {
	return nil, nil
}

func (f *fakeStore) LegalNature(context.Context, string) (domain.LegalNature, error) {
	return domain.LegalNature{}, nil
}

func (f *fakeStore) Activities(context.Context, string) (domain.Activities, error) {
	return domain.Activities{}, nil
}

func (f *fakeStore) Contact(context.Context, string) (domain.Contact, error) {
	return domain.Contact{}, nil
}

type fakeLexical struct {
	matches map[string]string
	err     error
	calls   int
}

func (f *fakeLexical) BestMatch(_ context.Context, name string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if cnpj, ok := f.matches[strings.ToLower(name)]; ok {
		return cnpj, nil
	}
	return "", domain.ErrCompanyNotFound
}

type fakeVectors struct {
	vecs map[string][]float32
}

func (f *fakeVectors) SaveVector(_ context.Context, cnpj string, vec []float32) error {
	f.vecs[cnpj] = vec
	return nil
}

func (f *fakeVectors) GetVector(_ context.Context, cnpj string) ([]float32, error) {
	vec, ok := f.vecs[cnpj]
	if !ok {
		return nil, domain.ErrVectorMissing
	}
	return vec, nil
}

func (f *fakeVectors) AllVectors(_ context.Context, fn func(string, []float32) error) error {
	for cnpj, vec := range f.vecs {
		if err := fn(cnpj, vec); err != nil {
			return err
		}
	}
	return nil
}

type fakeRunner struct {
	schema  string
	table   port.Table
	lastSQL string
}

func (f *fakeRunner) SchemaText(context.Context) (string, error) {
	return f.schema, nil
}

func (f *fakeRunner) RunReadOnly(_ context.Context, query string, _ int) (port.Table, error) {
	f.lastSQL = query
	return f.table, nil
}

type fakeGenerator struct {
	sql string
	err error
}

func (f *fakeGenerator) GenerateSQL(context.Context, string, string) (string, error) {
	return f.sql, f.err
}

type fakeSummarizer struct {
	text  string
	input string
}

func (f *fakeSummarizer) Summarize(_ context.Context, table string) (string, error) {
	f.input = table
	return f.text, nil
}

type errClassifier struct{ err error }

func (c errClassifier) Classify(context.Context, string) (domain.Classification, error) {
	return domain.Classification{}, c.err
}


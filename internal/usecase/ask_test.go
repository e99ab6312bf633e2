package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cnpjchat/internal/adapter/llm"
	"cnpjchat/internal/domain"
	"cnpjchat/internal/port"
)

func newAskFixture(gen *fakeGenerator, sum *fakeSummarizer, runner *fakeRunner, cls port.Classifier) (*AskUseCase, *fakeStore) {
	store := newFakeStore()
	store.add(domain.Company{CNPJBasico: "12345678", RazaoSocial: "Scoras Tecnologia LTDA"})
	store.hq["12345678"] = domain.Establishment{
		CNPJBasico:   "12345678",
		MatrizFilial: "1",
		Logradouro:   "Rua das Laranjeiras",
		Numero:       "100",
		Bairro:       "Centro",
		Municipio:    "São Paulo",
		UF:           "SP",
	}
	store.branches["12345678"] = 3

	lexical := &fakeLexical{matches: map[string]string{"scoras tecnologia": "12345678"}}
	resolver := NewResolveUseCase(lexical, store, nil)
	facts := NewFactsUseCase(store)

	vecs := &fakeVectors{vecs: make(map[string][]float32)}
	similar := NewSimilarUseCase(vecs, emptyIndex{}, store, 0)

	var generator port.QueryGenerator
	var summarizer port.Summarizer
	if gen != nil {
		generator = gen
	}
	if sum != nil {
		summarizer = sum
	}
	if runner == nil {
		runner = &fakeRunner{}
	}
	if cls == nil {
		cls = llm.NewKeywordClassifier()
	}

	return NewAskUseCase(cls, resolver, facts, similar, runner, generator, summarizer, 15, 0), store
}

type emptyIndex struct{}

func (emptyIndex) Upsert([]port.VectorItem) error { return nil }
func (emptyIndex) Search([]float32, int, string) ([]port.VectorResult, error) {
	return nil, nil
}
func (emptyIndex) Count() int { return 0 }

func TestAskEmptyQuestion(t *testing.T) {
	u, _ := newAskFixture(nil, nil, nil, nil)

	for _, q := range []string{"", "   "} {
		_, err := u.Ask(context.Background(), q)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Ask(%q) error = %v, want ErrInvalidInput", q, err)
		}
	}
}

func TestAskAddressRoute(t *testing.T) {
	u, _ := newAskFixture(nil, nil, nil, nil)

	got, err := u.Ask(context.Background(), "Onde fica a empresa Scoras Tecnologia?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got.Kind != domain.IntentAddress {
		t.Fatalf("Kind = %q, want %q", got.Kind, domain.IntentAddress)
	}
	if got.Address == nil {
		t.Fatal("Address payload missing")
	}
	if got.Address.Municipio != "São Paulo" || got.Address.UF != "SP" {
		t.Errorf("address = %+v, want São Paulo/SP", got.Address)
	}
}

func TestAskBranchesRoute(t *testing.T) {
	u, _ := newAskFixture(nil, nil, nil, nil)

	got, err := u.Ask(context.Background(), "Quantas filiais tem a Scoras Tecnologia?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got.Kind != domain.IntentBranches {
		t.Fatalf("Kind = %q, want %q", got.Kind, domain.IntentBranches)
	}
	if got.Branches == nil || got.Branches.Filiais != 3 {
		t.Errorf("branches = %+v, want 3", got.Branches)
	}
}

func TestAskUnknownCompany(t *testing.T) {
	u, _ := newAskFixture(nil, nil, nil, nil)

	_, err := u.Ask(context.Background(), "Onde fica a empresa Fantasma Inexistente?")
	if !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Errorf("error = %v, want ErrCompanyNotFound", err)
	}
}

func TestAskFallbackWithoutLLM(t *testing.T) {
	u, _ := newAskFixture(nil, nil, nil, nil)

	_, err := u.Ask(context.Background(), "qual o capital social médio das empresas?")
	if !errors.Is(err, domain.ErrLLMUnavailable) {
		t.Errorf("error = %v, want ErrLLMUnavailable", err)
	}
}

func TestAskDelegatedRoute(t *testing.T) {
	gen := &fakeGenerator{sql: "SELECT COUNT(*) AS total FROM empresas"}
	sum := &fakeSummarizer{text: "Existem 42 empresas cadastradas."}
	runner := &fakeRunner{
		schema: "empresas(cnpj_basico, razao_social)",
		table:  port.Table{Columns: []string{"total"}, Rows: [][]string{{"42"}}},
	}

	u, _ := newAskFixture(gen, sum, runner, nil)
	got, err := u.Ask(context.Background(), "quantas empresas existem?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got.Kind != domain.IntentFallback {
		t.Errorf("Kind = %q, want %q", got.Kind, domain.IntentFallback)
	}
	if got.SQL != gen.sql {
		t.Errorf("SQL = %q, want %q", got.SQL, gen.sql)
	}
	if got.Text != sum.text {
		t.Errorf("Text = %q, want %q", got.Text, sum.text)
	}
	if runner.lastSQL != gen.sql {
		t.Errorf("executed %q, want %q", runner.lastSQL, gen.sql)
	}
	if !strings.Contains(sum.input, "42") {
		t.Errorf("summarizer input missing result row: %q", sum.input)
	}
}

func TestAskClassifierErrorDegradesToFallback(t *testing.T) {
	gen := &fakeGenerator{sql: "SELECT 1"}
	sum := &fakeSummarizer{text: "ok"}
	runner := &fakeRunner{table: port.Table{Columns: []string{"1"}, Rows: [][]string{{"1"}}}}
	cls := errClassifier{err: errors.New("model offline")}

	u, _ := newAskFixture(gen, sum, runner, cls)
	got, err := u.Ask(context.Background(), "Onde fica a empresa Scoras Tecnologia?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got.Kind != domain.IntentFallback {
		t.Errorf("Kind = %q, want fallback after classifier failure", got.Kind)
	}
}

func TestRenderTable(t *testing.T) {
	got := RenderTable(port.Table{
		Columns: []string{"uf", "total"},
		Rows:    [][]string{{"SP", "10"}, {"RJ", "4"}},
	})
	for _, want := range []string{"| uf | total |", "| SP | 10 |", "| RJ | 4 |"} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered table missing %q:\n%s", want, got)
		}
	}

	if RenderTable(port.Table{}) != "(sem resultados)" {
		t.Errorf("empty table rendering = %q", RenderTable(port.Table{}))
	}
}

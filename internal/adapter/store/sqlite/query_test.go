package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cnpjchat/internal/domain"
)

func TestSchemaText(t *testing.T) {
	st := openTestStore(t)

	schema, err := st.SchemaText(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for _, table := range []string{"empresas(", "estabelecimentos(", "simples(", "socios("} {
		if !strings.Contains(schema, table) {
			t.Errorf("schema text missing %s", table)
		}
	}
	if strings.Contains(schema, "schema_migrations") {
		t.Error("schema text must not expose internal tables")
	}
	if !strings.Contains(schema, "razao_social") {
		t.Error("schema text missing column names")
	}
}

func TestRunReadOnly(t *testing.T) {
	st := openTestStore(t)
	seedCompanies(t, st)

	table, err := st.RunReadOnly(context.Background(),
		"SELECT cnpj_basico, razao_social FROM empresas ORDER BY cnpj_basico", 15)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Columns) != 2 {
		t.Errorf("expected 2 columns, got %d", len(table.Columns))
	}
	if len(table.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(table.Rows))
	}
	if table.Rows[0][1] != "Acme Tecnologia" {
		t.Errorf("unexpected first row: %v", table.Rows[0])
	}
}

func TestRunReadOnlyRowCap(t *testing.T) {
	st := openTestStore(t)
	seedCompanies(t, st)

	table, err := st.RunReadOnly(context.Background(),
		"SELECT cnpj_basico FROM empresas", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 2 {
		t.Errorf("expected row cap of 2, got %d", len(table.Rows))
	}
}

func TestRunReadOnlyRejectsMutations(t *testing.T) {
	st := openTestStore(t)
	seedCompanies(t, st)
	ctx := context.Background()

	tests := []string{
		"DELETE FROM empresas",
		"DROP TABLE empresas",
		"INSERT INTO empresas (cnpj_basico, razao_social) VALUES ('x', 'y')",
		"SELECT 1; DROP TABLE empresas",
		"UPDATE empresas SET razao_social = 'x'",
		"PRAGMA journal_mode = DELETE",
		"",
	}
	for _, q := range tests {
		if _, err := st.RunReadOnly(ctx, q, 15); !errors.Is(err, domain.ErrQueryRejected) {
			t.Errorf("query %q: expected ErrQueryRejected, got %v", q, err)
		}
	}

	// Guard must not have executed anything.
	n, err := st.CountCompanies(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected data untouched, got %d companies", n)
	}
}

func TestRunReadOnlyAllowsKeywordsInLiterals(t *testing.T) {
	st := openTestStore(t)
	seedCompanies(t, st)
	ctx := context.Background()

	// Mutation keywords and semicolons inside string literals are data,
	// not statements.
	tests := []string{
		"SELECT cnpj_basico FROM empresas WHERE razao_social LIKE '%UPDATE %'",
		"SELECT cnpj_basico FROM empresas WHERE razao_social = 'CREATE ; DROP '",
		"SELECT cnpj_basico, 'DELETE FROM x' FROM empresas",
	}
	for _, q := range tests {
		if _, err := st.RunReadOnly(ctx, q, 15); err != nil {
			t.Errorf("query %q: expected acceptance, got %v", q, err)
		}
	}

	// A write spliced outside the literal still fails.
	_, err := st.RunReadOnly(ctx,
		"SELECT 'harmless'; DROP TABLE empresas", 15)
	if !errors.Is(err, domain.ErrQueryRejected) {
		t.Errorf("expected ErrQueryRejected, got %v", err)
	}
}

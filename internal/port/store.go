package port

import (
	"context"

	"cnpjchat/internal/domain"
)

// CompanyStore is the read-only query surface over the registry tables.
// Callers are expected to resolve a company identifier first; every method
// takes the canonical cnpj_basico.
type CompanyStore interface {
	GetCompany(ctx context.Context, cnpj string) (domain.Company, error)

	// FindNameContains returns the first company whose legal name contains
	// text (case-insensitive), in natural storage order. The resolver's
	// fallback stage. Returns domain.ErrCompanyNotFound when nothing matches.
	FindNameContains(ctx context.Context, text string) (string, error)

	// Headquarters returns the establishment flagged as matrix.
	// Returns domain.ErrAddressNotFound when the company has none.
	Headquarters(ctx context.Context, cnpj string) (domain.Establishment, error)

	// CountBranches counts establishments flagged as branches. Zero is a
	// valid, successful result.
	CountBranches(ctx context.Context, cnpj string) (int, error)

	// TaxRegime returns Simples Nacional records, most recent opt-in first.
	TaxRegime(ctx context.Context, cnpj string) ([]domain.TaxRegimeEntry, error)

	// Partners returns ownership records, most recent entry first.
	Partners(ctx context.Context, cnpj string) ([]domain.Partner, error)

	// LegalNature joins the company's legal-nature code against the
	// reference table; the description may be empty (left join).
	LegalNature(ctx context.Context, cnpj string) (domain.LegalNature, error)

	// Activities joins the principal and secondary CNAE codes against the
	// reference descriptions table; descriptions may be missing.
	Activities(ctx context.Context, cnpj string) (domain.Activities, error)

	// Contact returns the headquarters contact record.
	Contact(ctx context.Context, cnpj string) (domain.Contact, error)
}

// LexicalIndex is a ranked full-text search over company legal names.
// BestMatch returns domain.ErrIndexUnavailable when the index is not built
// and domain.ErrCompanyNotFound when no row matched with a usable score;
// neither is fatal to the resolver.
type LexicalIndex interface {
	BestMatch(ctx context.Context, name string) (string, error)
}

// VectorStore persists one materialized CNAE vector per company.
type VectorStore interface {
	SaveVector(ctx context.Context, cnpj string, vec []float32) error

	// GetVector returns domain.ErrVectorMissing when the company has no
	// materialized vector.
	GetVector(ctx context.Context, cnpj string) ([]float32, error)

	// AllVectors streams every stored vector; fn returning an error stops
	// the scan.
	AllVectors(ctx context.Context, fn func(cnpj string, vec []float32) error) error
}

// Table is a bounded tabular result of a free-form read-only query.
type Table struct {
	Columns []string
	Rows    [][]string
}

// QueryRunner executes delegated natural-language-to-SQL statements.
type QueryRunner interface {
	// SchemaText returns the condensed "table(col, col, ...)" summary of
	// the live schema, for prompt construction.
	SchemaText(ctx context.Context) (string, error)

	// RunReadOnly executes a single SELECT statement capped at maxRows.
	// Mutating statements are rejected with domain.ErrQueryRejected.
	RunReadOnly(ctx context.Context, query string, maxRows int) (Table, error)
}

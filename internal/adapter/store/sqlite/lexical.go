package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cnpjchat/internal/domain"
)

// BestMatch runs the ranked FTS5 query over legal names and returns the
// single best-scored company. domain.ErrIndexUnavailable when the index
// has not been built, domain.ErrCompanyNotFound when nothing matched;
// the resolver recovers from both.
func (s *Store) BestMatch(ctx context.Context, name string) (string, error) {
	match := matchQuery(name)
	if match == "" {
		return "", domain.ErrCompanyNotFound
	}

	// bm25() is a rank: smaller is better, so ascending order puts the
	// most relevant row first.
	var cnpj string
	err := s.db.QueryRowContext(ctx, `
		SELECT cnpj_basico
		FROM empresas_fts
		WHERE empresas_fts MATCH ?
		ORDER BY bm25(empresas_fts)
		LIMIT 1`, match).Scan(&cnpj)
	if isMissingTable(err) {
		return "", domain.ErrIndexUnavailable
	}
	if err == sql.ErrNoRows {
		return "", domain.ErrCompanyNotFound
	}
	if err != nil {
		// Malformed MATCH input behaves like a miss, not a fatal error.
		if strings.Contains(err.Error(), "fts5: syntax error") {
			return "", domain.ErrCompanyNotFound
		}
		return "", fmt.Errorf("fts match: %w", err)
	}
	return cnpj, nil
}

// RebuildLexicalIndex drops and repopulates the FTS5 table from empresas.
func (s *Store) RebuildLexicalIndex(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS empresas_fts"); err != nil {
		return fmt.Errorf("dropping fts table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		CREATE VIRTUAL TABLE empresas_fts USING fts5(
			razao_social,
			cnpj_basico UNINDEXED
		)`); err != nil {
		return fmt.Errorf("creating fts table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO empresas_fts (razao_social, cnpj_basico)
		SELECT razao_social, cnpj_basico FROM empresas`); err != nil {
		return fmt.Errorf("populating fts table: %w", err)
	}

	return tx.Commit()
}

// matchQuery turns free text into a safe FTS5 MATCH expression: each token
// double-quoted so registry names with punctuation cannot inject syntax.
func matchQuery(name string) string {
	fields := strings.Fields(name)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, ``)
		if f == "" {
			continue
		}
		quoted = append(quoted, `"`+f+`"`)
	}
	return strings.Join(quoted, " ")
}

// Package sqlite implements the registry storage over a single SQLite
// database: relational fact tables, the FTS5 lexical index over legal
// names, and the materialized CNAE vector table.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"unicode/utf8"

	_ "modernc.org/sqlite" // SQLite driver

	"cnpjchat/internal/adapter/store/sqlite/migrations"
	"cnpjchat/internal/domain"
)

// Store is the shared, long-lived storage handle. database/sql pooling
// makes concurrent reads safe; the one write path (ingest, index build)
// runs offline relative to the query path.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path and applies migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every embedded *.sql file, in name order, that has not
// been applied yet.
func (s *Store) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	entries, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(entries)

	for _, name := range entries {
		var applied int
		err := s.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE name = ?", name).Scan(&applied)
		if err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(script)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (name) VALUES (?)", name); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

// GetCompany returns one company row by its basic identifier.
func (s *Store) GetCompany(ctx context.Context, cnpj string) (domain.Company, error) {
	var c domain.Company
	err := s.db.QueryRowContext(ctx, `
		SELECT cnpj_basico, razao_social,
		       COALESCE(natureza_juridica, ''), COALESCE(capital_social, ''),
		       COALESCE(porte, ''), COALESCE(cnae_fiscal_principal, ''),
		       COALESCE(cnae_fiscal_secundaria, '')
		FROM empresas
		WHERE cnpj_basico = ?`, cnpj).
		Scan(&c.CNPJBasico, &c.RazaoSocial, &c.NaturezaJuridica,
			&c.CapitalSocial, &c.Porte, &c.CNAEPrincipal, &c.CNAESecundaria)
	if err == sql.ErrNoRows {
		return domain.Company{}, domain.ErrCompanyNotFound
	}
	if err != nil {
		return domain.Company{}, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// FindNameContains is the resolver's substring fallback: first company, in
// natural storage order, whose legal name contains text case-insensitively.
// SQLite's lower() folds ASCII only, so a needle carrying accented runes
// falls back to a Go-side scan with the full Unicode fold.
func (s *Store) FindNameContains(ctx context.Context, text string) (string, error) {
	if !isASCII(text) {
		return s.findNameContainsFold(ctx, text)
	}

	var cnpj string
	err := s.db.QueryRowContext(ctx, `
		SELECT cnpj_basico
		FROM empresas
		WHERE instr(lower(razao_social), lower(?)) > 0
		ORDER BY rowid
		LIMIT 1`, text).Scan(&cnpj)
	if err == sql.ErrNoRows {
		return "", domain.ErrCompanyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("substring scan: %w", err)
	}
	return cnpj, nil
}

func (s *Store) findNameContainsFold(ctx context.Context, text string) (string, error) {
	needle := strings.ToLower(text)

	rows, err := s.db.QueryContext(ctx,
		"SELECT cnpj_basico, razao_social FROM empresas ORDER BY rowid")
	if err != nil {
		return "", fmt.Errorf("substring scan: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cnpj, name string
		if err := rows.Scan(&cnpj, &name); err != nil {
			return "", err
		}
		if strings.Contains(strings.ToLower(name), needle) {
			return cnpj, nil
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("substring scan: %w", err)
	}
	return "", domain.ErrCompanyNotFound
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// isMissingTable reports whether err is SQLite's "no such table" failure,
// which the resolver treats as an index-not-built signal.
func isMissingTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}

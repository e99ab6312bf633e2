package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cnpjchat/internal/domain"
	"cnpjchat/internal/port"
)

// SchemaText returns the condensed schema summary fed to the SQL
// generation prompt: one "table(col, col, ...)" line per registry table,
// names only. Internal and index tables are skipped.
func (s *Store) SchemaText(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.name, p.name
		FROM sqlite_master m
		JOIN pragma_table_info(m.name) p
		WHERE m.type = 'table'
		  AND m.name NOT LIKE 'sqlite_%'
		  AND m.name NOT LIKE 'empresas_fts%'
		  AND m.name <> 'schema_migrations'
		ORDER BY m.name, p.cid`)
	if err != nil {
		return "", fmt.Errorf("schema text: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	lastTable := ""
	for rows.Next() {
		var table, col string
		if err := rows.Scan(&table, &col); err != nil {
			return "", err
		}
		if table != lastTable {
			if lastTable != "" {
				b.WriteString(")\n")
			}
			b.WriteString(table)
			b.WriteString("(")
			lastTable = table
		} else {
			b.WriteString(", ")
		}
		b.WriteString(col)
	}
	if lastTable != "" {
		b.WriteString(")")
	}
	return b.String(), rows.Err()
}

// RunReadOnly executes a single generated SELECT statement, capped at
// maxRows. Anything else is rejected before touching the database.
func (s *Store) RunReadOnly(ctx context.Context, query string, maxRows int) (port.Table, error) {
	stmt, err := sanitizeQuery(query)
	if err != nil {
		return port.Table{}, err
	}
	if maxRows <= 0 {
		maxRows = 15
	}

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return port.Table{}, fmt.Errorf("delegated query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return port.Table{}, err
	}

	table := port.Table{Columns: cols}
	for rows.Next() && len(table.Rows) < maxRows {
		raw := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return port.Table{}, err
		}
		row := make([]string, len(cols))
		for i, v := range raw {
			if v.Valid {
				row[i] = v.String
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, rows.Err()
}

// sanitizeQuery enforces the SELECT-only contract on generated SQL: one
// statement, starting with SELECT or WITH, no piggybacked writes. The
// scan ignores single-quoted string literals, so a legitimate SELECT
// filtering on text like 'UPDATE ' passes.
func sanitizeQuery(query string) (string, error) {
	stmt := strings.TrimSpace(query)
	stmt = strings.TrimSuffix(stmt, ";")
	if stmt == "" {
		return "", domain.ErrQueryRejected
	}

	scanned := blankLiterals(stmt)
	if strings.Contains(scanned, ";") {
		return "", fmt.Errorf("%w: multiple statements", domain.ErrQueryRejected)
	}

	head := strings.ToUpper(scanned)
	if !strings.HasPrefix(head, "SELECT") && !strings.HasPrefix(head, "WITH") {
		return "", fmt.Errorf("%w: only SELECT statements are executed", domain.ErrQueryRejected)
	}
	for _, kw := range []string{"INSERT ", "UPDATE ", "DELETE ", "DROP ", "ALTER ", "CREATE ", "ATTACH ", "PRAGMA "} {
		if strings.Contains(head, kw) {
			return "", fmt.Errorf("%w: statement contains %q", domain.ErrQueryRejected, strings.TrimSpace(kw))
		}
	}
	return stmt, nil
}

// blankLiterals replaces the contents of single-quoted SQL string
// literals with spaces. A doubled '' escape toggles through two empty
// literals, which blanks the same bytes.
func blankLiterals(stmt string) string {
	out := []byte(stmt)
	inLiteral := false
	for i := 0; i < len(out); i++ {
		if out[i] == '\'' {
			inLiteral = !inLiteral
			continue
		}
		if inLiteral {
			out[i] = ' '
		}
	}
	return string(out)
}

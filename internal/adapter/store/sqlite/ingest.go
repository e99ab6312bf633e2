package sqlite

import (
	"context"
	"fmt"

	"cnpjchat/internal/domain"
)

// Bulk loaders for the ingestion path. Each batch runs in one transaction;
// INSERT OR REPLACE keeps re-running an ingest idempotent.

func (s *Store) InsertCompanies(ctx context.Context, batch []domain.Company) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO empresas
		(cnpj_basico, razao_social, natureza_juridica, capital_social,
		 porte, cnae_fiscal_principal, cnae_fiscal_secundaria)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range batch {
		if c.CNPJBasico == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, c.CNPJBasico, c.RazaoSocial,
			c.NaturezaJuridica, c.CapitalSocial, c.Porte,
			c.CNAEPrincipal, c.CNAESecundaria); err != nil {
			return fmt.Errorf("insert empresa %s: %w", c.CNPJBasico, err)
		}
	}
	return tx.Commit()
}

func (s *Store) InsertEstablishments(ctx context.Context, batch []domain.Establishment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO estabelecimentos
		(cnpj_basico, cnpj_ordem, identificador_matriz_filial, nome_fantasia,
		 logradouro, numero, complemento, bairro, cep, municipio, uf,
		 ddd_1, telefone_1, ddd_fax, fax, correio_eletronico,
		 cnae_fiscal_principal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range batch {
		if e.CNPJBasico == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, e.CNPJBasico, e.CNPJOrdem,
			e.MatrizFilial, e.NomeFantasia, e.Logradouro, e.Numero,
			e.Complemento, e.Bairro, e.CEP, e.Municipio, e.UF,
			e.DDD1, e.Telefone1, e.DDDFax, e.Fax, e.Email,
			e.CNAEPrincipal); err != nil {
			return fmt.Errorf("insert estabelecimento %s/%s: %w", e.CNPJBasico, e.CNPJOrdem, err)
		}
	}
	return tx.Commit()
}

func (s *Store) InsertSimples(ctx context.Context, batch []domain.SimplesRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO simples
		(cnpj_basico, opcao_simples, data_opcao_simples, data_exclusao_simples,
		 opcao_mei, data_opcao_mei, data_exclusao_mei)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range batch {
		if r.CNPJBasico == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, r.CNPJBasico, r.OpcaoSimples,
			r.DataOpcao, r.DataExclusao, r.OpcaoMEI, r.DataOpcaoMEI,
			r.DataExclusaoMEI); err != nil {
			return fmt.Errorf("insert simples %s: %w", r.CNPJBasico, err)
		}
	}
	return tx.Commit()
}

func (s *Store) InsertPartners(ctx context.Context, batch []domain.PartnerRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO socios
		(cnpj_basico, nome_socio, qualificacao_socio, data_entrada_sociedade)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range batch {
		if r.CNPJBasico == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, r.CNPJBasico, r.Nome,
			r.Qualificacao, r.DataEntrada); err != nil {
			return fmt.Errorf("insert socio %s: %w", r.CNPJBasico, err)
		}
	}
	return tx.Commit()
}

func (s *Store) InsertReference(ctx context.Context, table string, batch []domain.ReferenceCode) error {
	if table != "naturezas" && table != "cnaes" {
		return fmt.Errorf("unknown reference table %q", table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf("INSERT OR REPLACE INTO %s (codigo, descricao) VALUES (?, ?)", table))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range batch {
		if r.Codigo == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, r.Codigo, r.Descricao); err != nil {
			return fmt.Errorf("insert %s %s: %w", table, r.Codigo, err)
		}
	}
	return tx.Commit()
}

// ReferenceCodes returns every code of a reference table in code order.
// The cnaes table doubles as the vector taxonomy source.
func (s *Store) ReferenceCodes(ctx context.Context, table string) ([]string, error) {
	if table != "naturezas" && table != "cnaes" {
		return nil, fmt.Errorf("unknown reference table %q", table)
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT codigo FROM %s ORDER BY codigo", table))
	if err != nil {
		return nil, fmt.Errorf("reference codes %s: %w", table, err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// AllCompanies streams every company in identifier order; the vector
// materialization pass walks this.
func (s *Store) AllCompanies(ctx context.Context, fn func(domain.Company) error) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cnpj_basico, razao_social,
		       COALESCE(natureza_juridica, ''), COALESCE(capital_social, ''),
		       COALESCE(porte, ''), COALESCE(cnae_fiscal_principal, ''),
		       COALESCE(cnae_fiscal_secundaria, '')
		FROM empresas
		ORDER BY cnpj_basico`)
	if err != nil {
		return fmt.Errorf("all companies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.CNPJBasico, &c.RazaoSocial, &c.NaturezaJuridica,
			&c.CapitalSocial, &c.Porte, &c.CNAEPrincipal, &c.CNAESecundaria); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountCompanies returns the number of ingested companies.
func (s *Store) CountCompanies(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM empresas").Scan(&n); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

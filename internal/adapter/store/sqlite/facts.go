package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cnpjchat/internal/domain"
)

const (
	flagMatriz = "1"
	flagFilial = "2"
)

// Headquarters returns the establishment flagged as matrix.
func (s *Store) Headquarters(ctx context.Context, cnpj string) (domain.Establishment, error) {
	var e domain.Establishment
	err := s.db.QueryRowContext(ctx, `
		SELECT cnpj_basico, cnpj_ordem, identificador_matriz_filial,
		       COALESCE(nome_fantasia, ''), COALESCE(logradouro, ''),
		       COALESCE(numero, ''), COALESCE(complemento, ''),
		       COALESCE(bairro, ''), COALESCE(cep, ''),
		       COALESCE(municipio, ''), COALESCE(uf, ''),
		       COALESCE(ddd_1, ''), COALESCE(telefone_1, ''),
		       COALESCE(ddd_fax, ''), COALESCE(fax, ''),
		       COALESCE(correio_eletronico, ''),
		       COALESCE(cnae_fiscal_principal, '')
		FROM estabelecimentos
		WHERE cnpj_basico = ? AND identificador_matriz_filial = ?`,
		cnpj, flagMatriz).
		Scan(&e.CNPJBasico, &e.CNPJOrdem, &e.MatrizFilial, &e.NomeFantasia,
			&e.Logradouro, &e.Numero, &e.Complemento, &e.Bairro, &e.CEP,
			&e.Municipio, &e.UF, &e.DDD1, &e.Telefone1, &e.DDDFax, &e.Fax,
			&e.Email, &e.CNAEPrincipal)
	if err == sql.ErrNoRows {
		return domain.Establishment{}, domain.ErrAddressNotFound
	}
	if err != nil {
		return domain.Establishment{}, fmt.Errorf("headquarters: %w", err)
	}
	return e, nil
}

// CountBranches counts establishments flagged as branches. Zero is a valid
// result, not an error.
func (s *Store) CountBranches(ctx context.Context, cnpj string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM estabelecimentos
		WHERE cnpj_basico = ? AND identificador_matriz_filial = ?`,
		cnpj, flagFilial).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count branches: %w", err)
	}
	return n, nil
}

// TaxRegime returns Simples Nacional rows, most recent opt-in first.
func (s *Store) TaxRegime(ctx context.Context, cnpj string) ([]domain.TaxRegimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(opcao_simples, ''), COALESCE(data_opcao_simples, ''),
		       COALESCE(data_exclusao_simples, ''), COALESCE(opcao_mei, ''),
		       COALESCE(data_opcao_mei, ''), COALESCE(data_exclusao_mei, '')
		FROM simples
		WHERE cnpj_basico = ?
		ORDER BY data_opcao_simples DESC`, cnpj)
	if err != nil {
		return nil, fmt.Errorf("tax regime: %w", err)
	}
	defer rows.Close()

	var entries []domain.TaxRegimeEntry
	for rows.Next() {
		var e domain.TaxRegimeEntry
		if err := rows.Scan(&e.OpcaoSimples, &e.DataOpcao, &e.DataExclusao,
			&e.OpcaoMEI, &e.DataOpcaoMEI, &e.DataExclusaoMEI); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Partners returns ownership records, most recent entry first.
func (s *Store) Partners(ctx context.Context, cnpj string) ([]domain.Partner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(nome_socio, ''), COALESCE(qualificacao_socio, ''),
		       COALESCE(data_entrada_sociedade, '')
		FROM socios
		WHERE cnpj_basico = ?
		ORDER BY data_entrada_sociedade DESC`, cnpj)
	if err != nil {
		return nil, fmt.Errorf("partners: %w", err)
	}
	defer rows.Close()

	var partners []domain.Partner
	for rows.Next() {
		var p domain.Partner
		if err := rows.Scan(&p.Nome, &p.Qualificacao, &p.DataEntrada); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

// LegalNature joins the company's legal-nature code against the reference
// table. A code absent from the reference table leaves the description
// empty; that is left-join semantics, not an error.
func (s *Store) LegalNature(ctx context.Context, cnpj string) (domain.LegalNature, error) {
	var ln domain.LegalNature
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(e.natureza_juridica, ''), COALESCE(n.descricao, '')
		FROM empresas e
		LEFT JOIN naturezas n ON n.codigo = e.natureza_juridica
		WHERE e.cnpj_basico = ?`, cnpj).
		Scan(&ln.Codigo, &ln.Descricao)
	if err == sql.ErrNoRows {
		return domain.LegalNature{}, domain.ErrCompanyNotFound
	}
	if err != nil {
		return domain.LegalNature{}, fmt.Errorf("legal nature: %w", err)
	}
	return ln, nil
}

// Activities joins the principal and secondary CNAE codes against the
// reference descriptions table, tolerating missing descriptions.
func (s *Store) Activities(ctx context.Context, cnpj string) (domain.Activities, error) {
	var a domain.Activities
	var secundaria string
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(e.cnae_fiscal_principal, ''),
		       COALESCE(c.descricao, ''),
		       COALESCE(e.cnae_fiscal_secundaria, '')
		FROM empresas e
		LEFT JOIN cnaes c ON c.codigo = e.cnae_fiscal_principal
		WHERE e.cnpj_basico = ?`, cnpj).
		Scan(&a.Principal, &a.PrincipalDescricao, &secundaria)
	if err == sql.ErrNoRows {
		return domain.Activities{}, domain.ErrCompanyNotFound
	}
	if err != nil {
		return domain.Activities{}, fmt.Errorf("activities: %w", err)
	}

	for _, code := range strings.Split(secundaria, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		a.Secundarias = append(a.Secundarias, code)

		var desc string
		err := s.db.QueryRowContext(ctx,
			"SELECT COALESCE(descricao, '') FROM cnaes WHERE codigo = ?", code).Scan(&desc)
		if err != nil && err != sql.ErrNoRows {
			return domain.Activities{}, fmt.Errorf("activities: %w", err)
		}
		if desc != "" {
			if a.SecundariasDesc == nil {
				a.SecundariasDesc = make(map[string]string)
			}
			a.SecundariasDesc[code] = desc
		}
	}

	return a, nil
}

// Contact returns the headquarters contact record. Phone and fax are
// assembled only when both the area code and the number are present.
func (s *Store) Contact(ctx context.Context, cnpj string) (domain.Contact, error) {
	hq, err := s.Headquarters(ctx, cnpj)
	if err != nil {
		return domain.Contact{}, err
	}

	c := domain.Contact{Email: hq.Email}
	if hq.DDD1 != "" && hq.Telefone1 != "" {
		c.Telefone = fmt.Sprintf("(%s) %s", hq.DDD1, hq.Telefone1)
	}
	if hq.DDDFax != "" && hq.Fax != "" {
		c.Fax = fmt.Sprintf("(%s) %s", hq.DDDFax, hq.Fax)
	}
	return c, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"cnpjchat/internal/domain"
)

// SaveVector stores one materialized CNAE vector, replacing any previous
// vector for the company.
func (s *Store) SaveVector(ctx context.Context, cnpj string, vec []float32) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO company_vectors (cnpj_basico, dim, vec)
		VALUES (?, ?, ?)
		ON CONFLICT (cnpj_basico) DO UPDATE SET dim = excluded.dim, vec = excluded.vec`,
		cnpj, len(vec), encodeVector(vec))
	if err != nil {
		return fmt.Errorf("save vector: %w", err)
	}
	return nil
}

// GetVector returns the company's materialized vector, or
// domain.ErrVectorMissing when none exists.
func (s *Store) GetVector(ctx context.Context, cnpj string) ([]float32, error) {
	var dim int
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT dim, vec FROM company_vectors WHERE cnpj_basico = ?", cnpj).
		Scan(&dim, &blob)
	if err == sql.ErrNoRows {
		return nil, domain.ErrVectorMissing
	}
	if err != nil {
		return nil, fmt.Errorf("get vector: %w", err)
	}
	return decodeVector(blob, dim)
}

// AllVectors streams every stored vector in identifier order.
func (s *Store) AllVectors(ctx context.Context, fn func(cnpj string, vec []float32) error) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT cnpj_basico, dim, vec FROM company_vectors ORDER BY cnpj_basico")
	if err != nil {
		return fmt.Errorf("all vectors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cnpj string
		var dim int
		var blob []byte
		if err := rows.Scan(&cnpj, &dim, &blob); err != nil {
			return err
		}
		vec, err := decodeVector(blob, dim)
		if err != nil {
			return err
		}
		if err := fn(cnpj, vec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// encodeVector packs float32 coordinates little-endian.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte, dim int) ([]float32, error) {
	if len(blob) != 4*dim {
		return nil, fmt.Errorf("vector blob size %d does not match dim %d", len(blob), dim)
	}
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}

package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"cnpjchat/config"
	"cnpjchat/internal/adapter/store/sqlite"
	"cnpjchat/internal/domain"
	"cnpjchat/internal/log"
)

// ProgressFunc receives ingestion progress: files processed so far, the
// total file count, and the file currently being loaded.
type ProgressFunc func(processed, total int, currentFile string)

// IngestUseCase loads the registry CSV exports into the store. The dataset
// ships split across numbered parts per table; files are selected by glob
// patterns relative to the data directory.
//
// Rows are semicolon-separated, one file layout per table, columns in
// table-definition order. A header row is skipped when present. Loads are
// idempotent: re-running an ingest replaces rows in place.
type IngestUseCase struct {
	store     *sqlite.Store
	cfg       config.Ingest
	batchSize int
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Files  int
	Rows   int64
	Errors []string
}

// NewIngestUseCase creates a new ingest use case.
func NewIngestUseCase(store *sqlite.Store, cfg config.Ingest) *IngestUseCase {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 5000
	}
	return &IngestUseCase{store: store, cfg: cfg, batchSize: batch}
}

// tableLoad binds one table's glob patterns to its row loader.
type tableLoad struct {
	name     string
	patterns []string
	files    []string
	load     func(ctx context.Context, rows [][]string) error
}

// Ingest loads every configured table. progress may be nil. Per-file
// failures are collected, not fatal; the run continues with the next file.
func (u *IngestUseCase) Ingest(ctx context.Context, progress ProgressFunc) (*IngestResult, error) {
	if u.cfg.DataDir == "" {
		return nil, fmt.Errorf("ingest: data directory not configured")
	}

	loads := []*tableLoad{
		{name: "empresas", patterns: u.cfg.Empresas, load: u.loadCompanies},
		{name: "estabelecimentos", patterns: u.cfg.Estabelecimentos, load: u.loadEstablishments},
		{name: "simples", patterns: u.cfg.Simples, load: u.loadSimples},
		{name: "socios", patterns: u.cfg.Socios, load: u.loadPartners},
		{name: "naturezas", patterns: u.cfg.Naturezas, load: u.referenceLoader("naturezas")},
		{name: "cnaes", patterns: u.cfg.CNAEs, load: u.referenceLoader("cnaes")},
	}

	dataFS := os.DirFS(u.cfg.DataDir)
	total := 0
	for _, tl := range loads {
		files, err := matchFiles(dataFS, tl.patterns)
		if err != nil {
			return nil, fmt.Errorf("ingest %s: %w", tl.name, err)
		}
		tl.files = files
		total += len(files)
	}
	if total == 0 {
		return nil, fmt.Errorf("ingest: no files matched under %s", u.cfg.DataDir)
	}

	result := &IngestResult{}
	for _, tl := range loads {
		for _, file := range tl.files {
			if progress != nil {
				progress(result.Files, total, file)
			}
			rows, err := u.ingestFile(ctx, filepath.Join(u.cfg.DataDir, file), tl.load)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file, err))
			} else {
				result.Rows += rows
			}
			result.Files++
			if progress != nil {
				progress(result.Files, total, file)
			}
		}
	}

	log.Infof("ingested %d rows from %d files (%d errors)",
		result.Rows, result.Files, len(result.Errors))
	return result, nil
}

// matchFiles resolves glob patterns against the data directory, dedupes,
// and returns a sorted list of relative paths.
func matchFiles(fsys fs.FS, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// ingestFile streams one CSV file into the loader in batches.
func (u *IngestUseCase) ingestFile(ctx context.Context, path string, load func(context.Context, [][]string) error) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var total int64
	batch := make([][]string, 0, u.batchSize)
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("read: %w", err)
		}
		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}
		batch = append(batch, record)
		if len(batch) >= u.batchSize {
			if err := load(ctx, batch); err != nil {
				return total, err
			}
			total += int64(len(batch))
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := load(ctx, batch); err != nil {
			return total, err
		}
		total += int64(len(batch))
	}
	return total, nil
}

// isHeader detects an optional header row by its first column name.
func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	return record[0] == "cnpj_basico" || record[0] == "codigo"
}

// field returns record[i], or "" past the end. Trailing columns are
// optional in the exports.
func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func (u *IngestUseCase) loadCompanies(ctx context.Context, rows [][]string) error {
	batch := make([]domain.Company, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, domain.Company{
			CNPJBasico:       field(r, 0),
			RazaoSocial:      field(r, 1),
			NaturezaJuridica: field(r, 2),
			CapitalSocial:    field(r, 3),
			Porte:            field(r, 4),
			CNAEPrincipal:    field(r, 5),
			CNAESecundaria:   field(r, 6),
		})
	}
	return u.store.InsertCompanies(ctx, batch)
}

func (u *IngestUseCase) loadEstablishments(ctx context.Context, rows [][]string) error {
	batch := make([]domain.Establishment, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, domain.Establishment{
			CNPJBasico:    field(r, 0),
			CNPJOrdem:     field(r, 1),
			MatrizFilial:  field(r, 2),
			NomeFantasia:  field(r, 3),
			Logradouro:    field(r, 4),
			Numero:        field(r, 5),
			Complemento:   field(r, 6),
			Bairro:        field(r, 7),
			CEP:           field(r, 8),
			Municipio:     field(r, 9),
			UF:            field(r, 10),
			DDD1:          field(r, 11),
			Telefone1:     field(r, 12),
			DDDFax:        field(r, 13),
			Fax:           field(r, 14),
			Email:         field(r, 15),
			CNAEPrincipal: field(r, 16),
		})
	}
	return u.store.InsertEstablishments(ctx, batch)
}

func (u *IngestUseCase) loadSimples(ctx context.Context, rows [][]string) error {
	batch := make([]domain.SimplesRecord, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, domain.SimplesRecord{
			CNPJBasico:      field(r, 0),
			OpcaoSimples:    field(r, 1),
			DataOpcao:       field(r, 2),
			DataExclusao:    field(r, 3),
			OpcaoMEI:        field(r, 4),
			DataOpcaoMEI:    field(r, 5),
			DataExclusaoMEI: field(r, 6),
		})
	}
	return u.store.InsertSimples(ctx, batch)
}

func (u *IngestUseCase) loadPartners(ctx context.Context, rows [][]string) error {
	batch := make([]domain.PartnerRecord, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, domain.PartnerRecord{
			CNPJBasico:   field(r, 0),
			Nome:         field(r, 1),
			Qualificacao: field(r, 2),
			DataEntrada:  field(r, 3),
		})
	}
	return u.store.InsertPartners(ctx, batch)
}

func (u *IngestUseCase) referenceLoader(table string) func(context.Context, [][]string) error {
	return func(ctx context.Context, rows [][]string) error {
		batch := make([]domain.ReferenceCode, 0, len(rows))
		for _, r := range rows {
			batch = append(batch, domain.ReferenceCode{
				Codigo:    field(r, 0),
				Descricao: field(r, 1),
			})
		}
		return u.store.InsertReference(ctx, table, batch)
	}
}

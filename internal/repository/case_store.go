package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"sivigila-data/internal/domain"
	"sivigila-data/internal/sheets"

	"go.uber.org/zap"
)

// ErrCaseNotFound el identificador no existe en la columna id de la hoja.
var ErrCaseNotFound = errors.New("case not found")

// DefaultFreshness ventana de frescura del caché de lectura completa.
const DefaultFreshness = 60 * time.Second

// CaseStore almacén de casos sobre la hoja DATOS.
//
// El caché de LoadAll es del proceso: hay un único CaseStore compartido por
// todas las sesiones. Toda escritura que pasa por aquí lo invalida de
// inmediato; un cambio hecho directamente en la hoja (u otro proceso) puede
// no verse hasta que venza la ventana de frescura o el llamador fuerce la
// recarga.
type CaseStore struct {
	client    sheets.Client
	logger    *zap.Logger
	freshness time.Duration

	mu        sync.Mutex
	cache     []domain.CaseRecord
	cachedAt  time.Time
	now       func() time.Time
	idSuffix  func() int
}

// NewCaseStore creates a store with the default freshness window.
func NewCaseStore(client sheets.Client, logger *zap.Logger) *CaseStore {
	return &CaseStore{
		client:    client,
		logger:    logger,
		freshness: DefaultFreshness,
		now:       time.Now,
		idSuffix: func() int {
			return int(time.Now().UnixMilli() % 10000)
		},
	}
}

// LoadAll returns every case row, creating the table with its canonical
// header first when it is missing. Results are cached for the freshness
// window; force bypasses and refills the cache. An empty table is an empty
// slice, not an error.
func (s *CaseStore) LoadAll(ctx context.Context, force bool) ([]domain.CaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !force && s.cache != nil && s.now().Sub(s.cachedAt) < s.freshness {
		return append([]domain.CaseRecord(nil), s.cache...), nil
	}

	if err := s.client.EnsureTable(ctx, sheets.CaseTable, domain.CaseColumns); err != nil {
		return nil, fmt.Errorf("failed to ensure case table: %w", err)
	}
	rows, err := s.client.ReadAllRows(ctx, sheets.CaseTable)
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}

	records := make([]domain.CaseRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.CaseFromRow(row))
	}

	s.cache = records
	s.cachedAt = s.now()
	return append([]domain.CaseRecord(nil), records...), nil
}

// Invalidate drops the cached read so the next LoadAll refetches.
func (s *CaseStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = nil
	s.cachedAt = time.Time{}
}

// Append stores a new case. The identifier is generated here and the creation
// audit fields are stamped from the draft's reporting clerk. Returns the
// assigned identifier.
func (s *CaseStore) Append(ctx context.Context, rec domain.CaseRecord) (string, error) {
	if err := s.client.EnsureTable(ctx, sheets.CaseTable, domain.CaseColumns); err != nil {
		return "", fmt.Errorf("failed to ensure case table: %w", err)
	}

	now := s.now()
	rec.ID = fmt.Sprintf("CS-%s-%d", now.Format("20060102150405"), s.idSuffix())
	rec.CapturedAt = now.Format("2006-01-02 15:04:05")
	rec.ModifiedBy = rec.ReportedBy
	rec.ModifiedAt = rec.CapturedAt

	if err := s.client.AppendRow(ctx, sheets.CaseTable, rec.Row()); err != nil {
		return "", fmt.Errorf("failed to append case: %w", err)
	}

	s.Invalidate()
	s.logger.Info("Case appended",
		zap.String("case_id", rec.ID),
		zap.String("eps", rec.ReportingEPS),
		zap.String("reported_by", rec.ReportedBy),
	)
	return rec.ID, nil
}

// Update overwrites the full row whose identifier column equals id. The match
// is restricted to column 1: the same value anywhere else in a row is
// ignored. Returns ErrCaseNotFound when no identifier matches; the table is
// left untouched in that case.
func (s *CaseStore) Update(ctx context.Context, id string, rec domain.CaseRecord, modifiedBy string) error {
	rows, err := s.client.ReadAllRows(ctx, sheets.CaseTable)
	if err != nil {
		return fmt.Errorf("failed to scan cases: %w", err)
	}

	rowIndex := 0
	for i, row := range rows {
		if len(row) > 0 && row[0] == id {
			rowIndex = i + 2 // 1-based plus header row
			break
		}
	}
	if rowIndex == 0 {
		return ErrCaseNotFound
	}

	rec.ID = id
	rec.ModifiedBy = modifiedBy
	rec.ModifiedAt = s.now().Format("2006-01-02 15:04:05")

	if err := s.client.UpdateRowRange(ctx, sheets.CaseTable, rowIndex, rec.Row()); err != nil {
		return fmt.Errorf("failed to update case: %w", err)
	}

	s.Invalidate()
	s.logger.Info("Case updated",
		zap.String("case_id", id),
		zap.String("modified_by", modifiedBy),
	)
	return nil
}

// FindByDocument filters records down to those whose trimmed document number
// equals number. Empty input or an empty set yields an empty result.
func FindByDocument(records []domain.CaseRecord, number string) []domain.CaseRecord {
	number = strings.TrimSpace(number)
	out := []domain.CaseRecord{}
	if number == "" {
		return out
	}
	for _, r := range records {
		if strings.TrimSpace(r.DocumentNumber) == number {
			out = append(out, r)
		}
	}
	return out
}

// SearchByName filters by case-insensitive substring on first names or
// surnames. No fuzzy matching.
func SearchByName(records []domain.CaseRecord, query string) []domain.CaseRecord {
	query = strings.ToUpper(strings.TrimSpace(query))
	out := []domain.CaseRecord{}
	if query == "" {
		return out
	}
	for _, r := range records {
		if strings.Contains(strings.ToUpper(r.FirstNames), query) ||
			strings.Contains(strings.ToUpper(r.Surnames), query) {
			out = append(out, r)
		}
	}
	return out
}

// SearchByDocumentSubstring filters by substring containment on the document
// number, for the editor's incremental search box.
func SearchByDocumentSubstring(records []domain.CaseRecord, query string) []domain.CaseRecord {
	query = strings.TrimSpace(query)
	out := []domain.CaseRecord{}
	if query == "" {
		return out
	}
	for _, r := range records {
		if strings.Contains(r.DocumentNumber, query) {
			out = append(out, r)
		}
	}
	return out
}

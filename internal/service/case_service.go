package service

import (
	"context"
	"fmt"
	"strings"

	"sivigila-data/internal/domain"
	"sivigila-data/internal/repository"

	"go.uber.org/zap"
)

// ValidationError lista de mensajes por campo. Mientras haya uno, el guardado
// queda bloqueado y no hay escritura parcial.
type ValidationError struct {
	Messages []string `json:"errores"`
}

func (e *ValidationError) Error() string {
	return "validación fallida: " + strings.Join(e.Messages, "; ")
}

// CaseService operaciones de casos con control de acceso aplicado.
// Toda lectura pasa por ApplyScope antes de devolverse, filtrarse más,
// agregarse o exportarse.
type CaseService interface {
	List(ctx context.Context, sess domain.Session, force bool) ([]domain.CaseRecord, error)
	Get(ctx context.Context, sess domain.Session, id string) (*domain.CaseRecord, error)
	Create(ctx context.Context, sess domain.Session, draft domain.CaseRecord) (*CreateCaseResult, error)
	Update(ctx context.Context, sess domain.Session, id string, rec domain.CaseRecord) error
	Search(ctx context.Context, sess domain.Session, req SearchRequest) ([]domain.CaseRecord, error)
	CheckDuplicates(ctx context.Context, sess domain.Session, documentNumber string) ([]domain.CaseRecord, error)
}

type caseService struct {
	cases  *repository.CaseStore
	logger *zap.Logger
}

func NewCaseService(cases *repository.CaseStore, logger *zap.Logger) CaseService {
	return &caseService{cases: cases, logger: logger}
}

// CreateCaseResult identificador asignado más las advertencias de duplicado.
// Los duplicados por documento se señalan, nunca bloquean el alta.
type CreateCaseResult struct {
	ID         string              `json:"id"`
	Duplicates []domain.CaseRecord `json:"duplicados,omitempty"`
}

// SearchRequest criterios del buscador del editor.
type SearchRequest struct {
	DocumentNumber string `json:"numero_documento"`
	Name           string `json:"nombre"`
}

func (s *caseService) List(ctx context.Context, sess domain.Session, force bool) ([]domain.CaseRecord, error) {
	records, err := s.cases.LoadAll(ctx, force)
	if err != nil {
		return nil, err
	}
	return domain.ApplyScope(domain.ScopeFor(sess), records), nil
}

func (s *caseService) Get(ctx context.Context, sess domain.Session, id string) (*domain.CaseRecord, error) {
	records, err := s.List(ctx, sess, true)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, repository.ErrCaseNotFound
}

// validateDraft collects every failing field. epsFromCatalog is false for
// scoped sessions, whose EPS is forced from the session rather than picked
// from the catalog.
func validateDraft(rec domain.CaseRecord, epsFromCatalog bool) *ValidationError {
	var msgs []string
	switch {
	case rec.ReportingEPS == "":
		msgs = append(msgs, "EPS/EAPB es obligatorio.")
	case rec.ReportingEPS == domain.EPSOther:
		// The escape hatch collapses to the free-text value; empty means
		// no EPS was actually given.
		if strings.TrimSpace(rec.OtherEPS) == "" {
			msgs = append(msgs, "EPS/EAPB es obligatorio.")
		}
	case epsFromCatalog && !domain.InCatalog(domain.EPSList, rec.ReportingEPS):
		msgs = append(msgs, "EPS/EAPB no está en el catálogo.")
	}
	if strings.TrimSpace(rec.FirstNames) == "" {
		msgs = append(msgs, "Nombres es obligatorio.")
	}
	if strings.TrimSpace(rec.Surnames) == "" {
		msgs = append(msgs, "Apellidos es obligatorio.")
	}
	if strings.TrimSpace(rec.DocumentNumber) == "" {
		msgs = append(msgs, "Número de documento es obligatorio.")
	}
	if rec.Municipality == "" {
		msgs = append(msgs, "Municipio de residencia es obligatorio.")
	} else if !domain.InCatalog(domain.Municipalities, rec.Municipality) {
		msgs = append(msgs, "Municipio de residencia no está en el catálogo.")
	}
	if rec.LifeCycle != "" && !domain.InCatalog(domain.LifeCycles, rec.LifeCycle) {
		msgs = append(msgs, "Ciclo vital no está en el catálogo.")
	}
	if rec.DocumentType != "" && !domain.InCatalog(domain.DocumentTypes, rec.DocumentType) {
		msgs = append(msgs, "Tipo de documento no está en el catálogo.")
	}
	if rec.Sex != "" && !domain.InCatalog(domain.Sexes, rec.Sex) {
		msgs = append(msgs, "Sexo no está en el catálogo.")
	}
	if rec.Status != "" && !domain.InCatalog(domain.CaseStatuses, rec.Status) {
		msgs = append(msgs, "Estado del caso no está en el catálogo.")
	}
	if rec.Age == 0 {
		// Zero is the form sentinel, not a real age.
		msgs = append(msgs, "Verifique que la edad sea correcta (actualmente es 0).")
	}
	if rec.EpiWeek < 1 || rec.EpiWeek > 53 {
		msgs = append(msgs, "Semana epidemiológica debe estar entre 1 y 53.")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// normalizeDraft applies the capture-form conventions: names upper-cased and
// trimmed, document number trimmed.
func normalizeDraft(rec *domain.CaseRecord) {
	rec.FirstNames = strings.ToUpper(strings.TrimSpace(rec.FirstNames))
	rec.Surnames = strings.ToUpper(strings.TrimSpace(rec.Surnames))
	rec.DocumentNumber = strings.TrimSpace(rec.DocumentNumber)
}

// resolveOtherEPS collapses the catalog escape hatch into the stored value.
// Runs after validation so the catalog check sees the raw selection.
func resolveOtherEPS(rec *domain.CaseRecord) {
	if rec.ReportingEPS == domain.EPSOther {
		rec.ReportingEPS = strings.ToUpper(strings.TrimSpace(rec.OtherEPS))
	}
	rec.OtherEPS = ""
}

func (s *caseService) Create(ctx context.Context, sess domain.Session, draft domain.CaseRecord) (*CreateCaseResult, error) {
	// Scoped sessions always report as their own EPS, whatever the draft says.
	if sess.Role == domain.RoleEPS {
		draft.ReportingEPS = sess.AssignedEPS
		draft.OtherEPS = ""
	}
	draft.ReportedBy = sess.DisplayName
	normalizeDraft(&draft)

	if verr := validateDraft(draft, sess.Role != domain.RoleEPS); verr != nil {
		return nil, verr
	}
	resolveOtherEPS(&draft)

	duplicates, err := s.CheckDuplicates(ctx, sess, draft.DocumentNumber)
	if err != nil {
		// Duplicate detection is advisory; a failed check must not block the save.
		s.logger.Warn("Duplicate check failed, continuing with save", zap.Error(err))
		duplicates = nil
	}

	id, err := s.cases.Append(ctx, draft)
	if err != nil {
		return nil, err
	}
	return &CreateCaseResult{ID: id, Duplicates: duplicates}, nil
}

func (s *caseService) Update(ctx context.Context, sess domain.Session, id string, rec domain.CaseRecord) error {
	scope := domain.ScopeFor(sess)

	// The target must be visible to the session before it may be rewritten.
	existing, err := s.Get(ctx, sess, id)
	if err != nil {
		return err
	}

	if sess.Role == domain.RoleEPS {
		rec.ReportingEPS = sess.AssignedEPS
		rec.OtherEPS = ""
	}
	normalizeDraft(&rec)

	if verr := validateDraft(rec, sess.Role != domain.RoleEPS); verr != nil {
		return verr
	}
	resolveOtherEPS(&rec)

	if !scope.Allows(rec) {
		return fmt.Errorf("registro fuera del alcance de la sesión")
	}

	// Creation audit fields are immutable; carry them over from the stored row.
	rec.CapturedAt = existing.CapturedAt
	rec.ReportedBy = existing.ReportedBy

	return s.cases.Update(ctx, id, rec, sess.DisplayName)
}

func (s *caseService) Search(ctx context.Context, sess domain.Session, req SearchRequest) ([]domain.CaseRecord, error) {
	records, err := s.List(ctx, sess, true)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.DocumentNumber) != "" {
		records = repository.SearchByDocumentSubstring(records, req.DocumentNumber)
	}
	if strings.TrimSpace(req.Name) != "" {
		records = repository.SearchByName(records, req.Name)
	}
	return records, nil
}

func (s *caseService) CheckDuplicates(ctx context.Context, sess domain.Session, documentNumber string) ([]domain.CaseRecord, error) {
	records, err := s.List(ctx, sess, true)
	if err != nil {
		return nil, err
	}
	return repository.FindByDocument(records, documentNumber), nil
}

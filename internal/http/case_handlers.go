package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"sivigila-data/internal/domain"
	"sivigila-data/internal/repository"
	"sivigila-data/internal/service"

	"go.uber.org/zap"
)

// CaseHandler endpoints de registro, edición y búsqueda de casos.
type CaseHandler struct {
	cases    service.CaseService
	resolver *SessionResolver
	logger   *zap.Logger
}

func NewCaseHandler(cases service.CaseService, resolver *SessionResolver, logger *zap.Logger) *CaseHandler {
	return &CaseHandler{cases: cases, resolver: resolver, logger: logger}
}

// Cases GET lista el conjunto visible; POST registra un caso nuevo.
func (h *CaseHandler) Cases(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolver.Require(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		force := r.URL.Query().Get("refresh") == "true"
		records, err := h.cases.List(r.Context(), *sess, force)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(records))

	case http.MethodPost:
		var draft domain.CaseRecord
		if err := readBodyJSON(r, 1<<20, &draft); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("cuerpo inválido"))
			return
		}
		result, err := h.cases.Create(r.Context(), *sess, draft)
		if err != nil {
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusUnprocessableEntity, Fail(verr.Error()))
				return
			}
			writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(result))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// CaseByID GET devuelve un caso, PUT lo sobreescribe completo.
func (h *CaseHandler) CaseByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolver.Require(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/cases/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := h.cases.Get(r.Context(), *sess, id)
		if err != nil {
			if errors.Is(err, repository.ErrCaseNotFound) {
				writeJSON(w, http.StatusNotFound, Fail("registro no encontrado"))
				return
			}
			writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(rec))

	case http.MethodPut:
		var rec domain.CaseRecord
		if err := readBodyJSON(r, 1<<20, &rec); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("cuerpo inválido"))
			return
		}
		if err := h.cases.Update(r.Context(), *sess, id, rec); err != nil {
			var verr *service.ValidationError
			switch {
			case errors.Is(err, repository.ErrCaseNotFound):
				writeJSON(w, http.StatusNotFound, Fail("registro no encontrado"))
			case errors.As(err, &verr):
				writeJSON(w, http.StatusUnprocessableEntity, Fail(verr.Error()))
			default:
				writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
			}
			return
		}
		writeJSON(w, http.StatusOK, Ok("actualizado correctamente"))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Search buscador del editor: documento (subcadena) y/o nombre.
func (h *CaseHandler) Search(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolver.Require(w, r)
	if !ok {
		return
	}
	req := service.SearchRequest{
		DocumentNumber: r.URL.Query().Get("documento"),
		Name:           r.URL.Query().Get("nombre"),
	}
	records, err := h.cases.Search(r.Context(), *sess, req)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(records))
}

// Duplicates verificación previa por número de documento exacto.
func (h *CaseHandler) Duplicates(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolver.Require(w, r)
	if !ok {
		return
	}
	records, err := h.cases.CheckDuplicates(r.Context(), *sess, r.URL.Query().Get("documento"))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(records))
}

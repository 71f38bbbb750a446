package httpapi

import (
	"net/http"
	"net/url"
	"time"

	"sivigila-data/internal/service"

	"go.uber.org/zap"
)

// DashboardHandler resumen del tablero de control.
type DashboardHandler struct {
	dashboard service.DashboardService
	resolver  *SessionResolver
	logger    *zap.Logger
}

func NewDashboardHandler(dashboard service.DashboardService, resolver *SessionResolver, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, resolver: resolver, logger: logger}
}

// filtersFromQuery lee los filtros repetibles del query string.
func filtersFromQuery(q url.Values) service.DashboardFilters {
	return service.DashboardFilters{
		EPS:            q["eps"],
		Municipalities: q["municipio"],
		LifeCycles:     q["ciclo_vital"],
		Statuses:       q["estado"],
		NotifiedFrom:   q.Get("fecha_desde"),
		NotifiedTo:     q.Get("fecha_hasta"),
	}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolver.Require(w, r)
	if !ok {
		return
	}
	summary, err := h.dashboard.Summary(r.Context(), *sess, filtersFromQuery(r.URL.Query()))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(summary))
}

// ExportHandler descargas CSV y XLSX.
type ExportHandler struct {
	export   service.ExportService
	resolver *SessionResolver
	logger   *zap.Logger
}

func NewExportHandler(export service.ExportService, resolver *SessionResolver, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{export: export, resolver: resolver, logger: logger}
}

func exportFilename(ext string) string {
	return "sivigila_356_valle_" + time.Now().Format("20060102") + "." + ext
}

func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolver.Require(w, r)
	if !ok {
		return
	}
	data, err := h.export.CSV(r.Context(), *sess, filtersFromQuery(r.URL.Query()))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename("csv")+`"`)
	_, _ = w.Write(data)
}

func (h *ExportHandler) Workbook(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolver.Require(w, r)
	if !ok {
		return
	}
	data, err := h.export.Workbook(r.Context(), *sess, filtersFromQuery(r.URL.Query()))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename("xlsx")+`"`)
	_, _ = w.Write(data)
}

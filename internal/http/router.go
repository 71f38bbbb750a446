package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router usa http.ServeMux de la librería estándar.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAuthRoutes login/logout y alta/listado de usuarios.
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/api/v1/auth/login", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, req)
	})
	r.Handle("/api/v1/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Logout(w, req)
	})
	r.Handle("/api/v1/users", h.Users)
}

// RegisterCaseRoutes CRUD de casos, búsqueda y verificación de duplicados.
func (r *Router) RegisterCaseRoutes(h *CaseHandler) {
	r.Handle("/api/v1/cases", h.Cases)
	r.Handle("/api/v1/cases/", h.CaseByID)
	r.Handle("/api/v1/cases/search", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Search(w, req)
	})
	r.Handle("/api/v1/cases/duplicates", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Duplicates(w, req)
	})
}

// RegisterDashboardRoutes tablero y exportaciones.
func (r *Router) RegisterDashboardRoutes(d *DashboardHandler, e *ExportHandler) {
	r.Handle("/api/v1/dashboard/summary", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.Summary(w, req)
	})
	r.Handle("/api/v1/export/csv", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		e.CSV(w, req)
	})
	r.Handle("/api/v1/export/xlsx", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		e.Workbook(w, req)
	})
}

package httpapi

import (
	"net/http"
	"strings"

	"sivigila-data/internal/domain"
	"sivigila-data/internal/service"

	"go.uber.org/zap"
)

// SessionResolver resuelve el token Bearer a la sesión autenticada.
// Todo handler protegido pasa por aquí antes de tocar datos.
type SessionResolver struct {
	auth   service.AuthService
	logger *zap.Logger
}

func NewSessionResolver(auth service.AuthService, logger *zap.Logger) *SessionResolver {
	return &SessionResolver{auth: auth, logger: logger}
}

// Require extracts and validates the session. On failure it writes the 401
// response itself and returns ok=false.
func (m *SessionResolver) Require(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, Fail("no autenticado"))
		return nil, false
	}
	sess, err := m.auth.Authenticate(r.Context(), token)
	if err != nil {
		m.logger.Warn("Session rejected",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusUnauthorized, Fail("sesión inválida o expirada"))
		return nil, false
	}
	return sess, true
}

// RequireSecretariat additionally enforces the elevated role.
func (m *SessionResolver) RequireSecretariat(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	sess, ok := m.Require(w, r)
	if !ok {
		return nil, false
	}
	if sess.Role != domain.RoleSecretariat {
		writeJSON(w, http.StatusForbidden, Fail("no tiene permisos para acceder a este módulo"))
		return nil, false
	}
	return sess, true
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

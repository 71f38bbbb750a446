package httpapi

import (
	"net/http"

	"sivigila-data/internal/service"

	"go.uber.org/zap"
)

// AuthHandler login, logout y administración de usuarios.
type AuthHandler struct {
	auth     service.AuthService
	resolver *SessionResolver
	logger   *zap.Logger
}

func NewAuthHandler(auth service.AuthService, resolver *SessionResolver, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, resolver: resolver, logger: logger}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("cuerpo inválido"))
		return
	}
	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, Fail("no autenticado"))
		return
	}
	if err := h.auth.Logout(r.Context(), token); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok("sesión cerrada"))
}

// Users GET lista el directorio, POST crea un usuario. Ambos solo para
// SECRETARIA.
func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.resolver.RequireSecretariat(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		users, err := h.auth.ListUsers(r.Context())
		if err != nil {
			writeJSON(w, http.StatusBadGateway, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(users))

	case http.MethodPost:
		var req service.CreateUserRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("cuerpo inválido"))
			return
		}
		if err := h.auth.CreateUser(r.Context(), req); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
			return
		}
		h.logger.Info("User created via admin endpoint",
			zap.String("created_by", sess.Username),
			zap.String("username", req.Username),
		)
		writeJSON(w, http.StatusOK, Ok("usuario creado exitosamente"))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

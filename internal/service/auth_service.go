package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sivigila-data/internal/domain"
	"sivigila-data/internal/repository"
	"sivigila-data/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService autenticación y administración de usuarios.
type AuthService interface {
	// Verify checks credentials against the user directory. Returns the
	// identity on match, (false, nil) otherwise.
	Verify(ctx context.Context, username, password string) (bool, *domain.Session, error)

	// Login verifies and opens a session, returning a signed access token.
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	// Logout closes the session for the given token.
	Logout(ctx context.Context, token string) error

	// Authenticate resolves a token back to its session.
	Authenticate(ctx context.Context, token string) (*domain.Session, error)

	// CreateUser appends a new identity. Fails when the username already
	// exists (case-insensitive).
	CreateUser(ctx context.Context, req CreateUserRequest) error

	// ListUsers returns the directory without password hashes.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type authService struct {
	users      *repository.UserDirectory
	sessions   store.KV
	jwtSecret  []byte
	sessionTTL time.Duration
	logger     *zap.Logger
}

func NewAuthService(users *repository.UserDirectory, sessions store.KV, jwtSecret string, sessionTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// LoginRequest credenciales de inicio de sesión.
type LoginRequest struct {
	Username string `json:"usuario"`
	Password string `json:"password"`
}

// LoginResponse sesión abierta.
type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	Session     domain.Session `json:"session"`
}

// CreateUserRequest alta de usuario (solo SECRETARIA).
type CreateUserRequest struct {
	Username    string `json:"usuario"`
	Password    string `json:"password"`
	DisplayName string `json:"nombre_completo"`
	Role        string `json:"rol"`
	AssignedEPS string `json:"eps_asignada"`
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// hashPassword produces "salt$hash". The salt keeps the stored column count
// unchanged while fixing the legacy unsalted scheme for new accounts.
func hashPassword(password, salt string) string {
	return salt + "$" + sha256Hex(salt+":"+password)
}

func newSalt() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// verifyHash checks a password against a stored hash, accepting both the
// salted "salt$hash" form and legacy unsalted SHA-256 hex rows.
func verifyHash(stored, password string) bool {
	stored = strings.TrimSpace(stored)
	if salt, _, ok := strings.Cut(stored, "$"); ok {
		return hashPassword(password, salt) == stored
	}
	return sha256Hex(password) == stored
}

func (s *authService) Verify(ctx context.Context, username, password string) (bool, *domain.Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return false, nil, err
	}
	if user == nil || !verifyHash(user.PasswordHash, password) {
		return false, nil, nil
	}

	role := strings.ToUpper(strings.TrimSpace(user.Role))
	if role == "" {
		role = domain.RoleEPS
	}
	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.Username
	}
	return true, &domain.Session{
		Username:    user.Username,
		DisplayName: displayName,
		Role:        role,
		AssignedEPS: user.AssignedEPS,
	}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		s.logger.Warn("Login failed: missing credentials",
			zap.String("reason", "missing_credentials"),
		)
		return nil, fmt.Errorf("missing credentials")
	}

	valid, sess, err := s.Verify(ctx, req.Username, req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}
	if !valid {
		s.logger.Warn("Login failed: invalid credentials",
			zap.String("username", req.Username),
			zap.String("reason", "invalid_credentials"),
		)
		return nil, fmt.Errorf("invalid credentials")
	}

	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  sess.Username,
		"role": sess.Role,
		"eps":  sess.AssignedEPS,
		"jti":  jti,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.sessionTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	payload, _ := json.Marshal(sess)
	if err := s.sessions.Set(ctx, sessionKey(jti), string(payload), s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info("Login successful",
		zap.String("username", sess.Username),
		zap.String("role", sess.Role),
		zap.String("eps", sess.AssignedEPS),
	)
	return &LoginResponse{AccessToken: token, Session: *sess}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	jti, err := s.parseToken(token)
	if err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionKey(jti))
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	jti, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}
	payload, err := s.sessions.Get(ctx, sessionKey(jti))
	if err != nil {
		if err == store.ErrMiss {
			return nil, fmt.Errorf("session expired")
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var sess domain.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *authService) parseToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", fmt.Errorf("invalid token claims")
	}
	return jti, nil
}

func sessionKey(jti string) string {
	return "session:" + jti
}

func (s *authService) CreateUser(ctx context.Context, req CreateUserRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" || strings.TrimSpace(req.DisplayName) == "" {
		return fmt.Errorf("usuario, password y nombre completo son obligatorios")
	}
	if len(req.Password) < 6 {
		return fmt.Errorf("la contraseña debe tener al menos 6 caracteres")
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != domain.RoleSecretariat && role != domain.RoleEPS {
		return fmt.Errorf("rol inválido: %s", req.Role)
	}
	assignedEPS := strings.TrimSpace(req.AssignedEPS)
	if role != domain.RoleEPS {
		assignedEPS = ""
	}

	existing, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("el usuario ya existe")
	}

	user := domain.User{
		Username:     req.Username,
		PasswordHash: hashPassword(req.Password, newSalt()),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         role,
		AssignedEPS:  assignedEPS,
	}
	if err := s.users.Append(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User created",
		zap.String("username", user.Username),
		zap.String("role", user.Role),
		zap.String("eps", user.AssignedEPS),
	)
	return nil
}

func (s *authService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	// Never hand hashes to a caller.
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

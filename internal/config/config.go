package config

import (
	"os"
	"strconv"
	"time"
)

// Config configuración del servicio sivigila-data (HTTP API).
type Config struct {
	HTTP struct {
		Addr string
	}
	Sheets SheetsConfig
	Redis  struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}
	Auth AuthConfig
	Log  struct {
		Level  string
		Format string
	}
}

// SheetsConfig servicio remoto de hojas de cálculo que respalda los datos.
type SheetsConfig struct {
	BaseURL       string // dirección del servicio de hojas
	SpreadsheetID string // libro del evento 356
	APIToken      string // token bearer
	InMemory      bool   // true: backend en memoria (desarrollo sin red)
}

// AuthConfig firma de tokens y vida de la sesión.
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Sheets.BaseURL = getEnv("SHEETS_BASE_URL", "http://localhost:9090")
	cfg.Sheets.SpreadsheetID = getEnv("SHEETS_SPREADSHEET_ID", "")
	cfg.Sheets.APIToken = getEnv("SHEETS_API_TOKEN", "")
	// Default to in-memory for local dev: starting with plain `go run` should
	// not require a reachable sheets service.
	cfg.Sheets.InMemory = getEnv("SHEETS_IN_MEMORY", "true") == "true"

	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", "dev-only-secret")
	cfg.Auth.SessionTTL = time.Duration(parseInt(getEnv("AUTH_SESSION_TTL_HOURS", "24"), 24)) * time.Hour

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

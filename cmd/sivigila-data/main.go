package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sivigila-data/internal/config"
	httpapi "sivigila-data/internal/http"
	"sivigila-data/internal/logger"
	"sivigila-data/internal/repository"
	"sivigila-data/internal/service"
	"sivigila-data/internal/sheets"
	"sivigila-data/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "sivigila-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Session store: redis when configured, in-memory otherwise.
	var sessions store.KV
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sessions = store.NewRedisKV(redisClient)
		log.Info("Redis session store enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		sessions = store.NewMemoryKV()
	}

	// Backing spreadsheet: remote service or in-memory for local dev.
	var sheetsClient sheets.Client
	if cfg.Sheets.InMemory {
		sheetsClient = sheets.NewMemoryClient()
		log.Info("Using in-memory sheets backend")
	} else {
		sheetsClient = sheets.NewRemoteClient(cfg.Sheets.BaseURL, cfg.Sheets.SpreadsheetID, cfg.Sheets.APIToken, log)
		log.Info("Using remote sheets backend",
			zap.String("base_url", cfg.Sheets.BaseURL),
			zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID),
		)
	}

	users := repository.NewUserDirectory(sheetsClient, log)
	cases := repository.NewCaseStore(sheetsClient, log)

	authSvc := service.NewAuthService(users, sessions, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, log)
	caseSvc := service.NewCaseService(cases, log)
	dashboardSvc := service.NewDashboardService(caseSvc, log)
	exportSvc := service.NewExportService(caseSvc, log)

	// Opt-in bootstrap for a fresh spreadsheet: SEED_ADMIN=true creates the
	// first admin login so user management is reachable.
	if os.Getenv("SEED_ADMIN") == "true" {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := authSvc.CreateUser(seedCtx, service.CreateUserRequest{
			Username:    "admin",
			Password:    os.Getenv("SEED_ADMIN_PASSWORD"),
			DisplayName: "Secretaría Departamental de Salud",
			Role:        "SECRETARIA",
		})
		seedCancel()
		if err != nil {
			log.Warn("Admin seed skipped", zap.Error(err))
		}
	}

	resolver := httpapi.NewSessionResolver(authSvc, log)
	router := httpapi.NewRouter(log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authSvc, resolver, log))
	router.RegisterCaseRoutes(httpapi.NewCaseHandler(caseSvc, resolver, log))
	router.RegisterDashboardRoutes(
		httpapi.NewDashboardHandler(dashboardSvc, resolver, log),
		httpapi.NewExportHandler(exportSvc, resolver, log),
	)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server stopped", zap.Error(err))
		}
	}

	// Fresh context: the drain window must not be pre-cancelled.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

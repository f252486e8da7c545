package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/xworks/readiness/internal/api"
	"github.com/xworks/readiness/internal/assessment"
	"github.com/xworks/readiness/internal/platform/cache"
	"github.com/xworks/readiness/internal/platform/config"
	"github.com/xworks/readiness/internal/platform/database"
	"github.com/xworks/readiness/internal/questionbank"
	"github.com/xworks/readiness/internal/report"
	"github.com/xworks/readiness/internal/scoring"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	banks, err := questionbank.NewLoader(cfg.Content.BankPath)
	if err != nil {
		return fmt.Errorf("loading question banks: %w", err)
	}
	if _, ok := banks.Get(cfg.Content.DefaultBankID); !ok {
		slog.Warn("default question bank not loaded", "bank_id", cfg.Content.DefaultBankID)
	}

	scoringCfg, err := questionbank.LoadScoringConfig(cfg.Content.ScoringPath)
	if err != nil {
		return fmt.Errorf("loading scoring config: %w", err)
	}
	if cfg.Scoring.DisableDefaultTopicWeight {
		scoringCfg.TopicWeights.DisableDefault = true
	}
	engine, err := scoring.NewEngine(scoringCfg)
	if err != nil {
		return fmt.Errorf("building scoring engine: %w", err)
	}
	slog.Info("scoring engine ready", "fingerprint", engine.Fingerprint())

	checks := map[string]healthChecker{}

	var (
		store  assessment.Store
		events assessment.EventLogger
	)
	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()
		if cfg.Database.Migrate {
			if err := db.Migrate(ctx); err != nil {
				return err
			}
		}
		pgStore, err := assessment.NewPostgresStore(db.Pool)
		if err != nil {
			return err
		}
		store = pgStore
		events = assessment.NewPostgresEventLogger(db.Pool)
		checks["database"] = db
	default:
		store = assessment.NewMemoryStore()
		events = assessment.NewMemoryEventLogger()
		slog.Warn("using in-memory store; attempts are lost on restart")
	}

	roster, err := assessment.LoadRoster(cfg.Content.RosterPath)
	if err != nil {
		return err
	}
	colleges, students, err := roster.Seed(ctx, store)
	if err != nil {
		return err
	}
	if colleges > 0 {
		slog.Info("roster seeded", "colleges", colleges, "students", students)
	}

	var reports report.Cache = report.NopCache{}
	if cfg.CacheEnabled() {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return fmt.Errorf("connecting to cache: %w", err)
		}
		defer c.Close()
		reports = report.NewRedisCache(c, cfg.Cache.ReportTTL)
		checks["cache"] = c
	}

	svc := assessment.NewService(engine, banks, store, events, logger)
	handler := api.NewHandler(svc, banks, reports, logger, api.Options{
		DefaultBankID:  cfg.Content.DefaultBankID,
		OriginPatterns: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      newMux(handler, checks),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "store", cfg.Store.Driver, "banks", len(banks.All()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// newMux creates the HTTP router with health check endpoints and the API.
func newMux(handler *api.Handler, checks map[string]healthChecker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", handleReadyz(checks))
	if handler != nil {
		handler.Register(mux)
	}
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleReadyz(checks map[string]healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		failed := map[string]string{}
		for name, c := range checks {
			if err := c.HealthCheck(ctx); err != nil {
				slog.Warn("readiness check failed", "dependency", name, "error", err)
				failed[name] = err.Error()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if len(failed) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{"status": "unavailable", "failed": failed})
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}
}

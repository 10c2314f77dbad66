package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard-backend/internal/ai"
	"taskboard-backend/internal/analysis"
	"taskboard-backend/internal/config"
	"taskboard-backend/internal/db"
	"taskboard-backend/internal/logger"
	"taskboard-backend/internal/server"
	"taskboard-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		logger.Log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store.Store
	switch cfg.Storage {
	case "memory":
		logger.Log.Warn("using in-memory storage, data is lost on restart")
		st = store.NewMemory()
	default:
		database, err := db.Connect(ctx, cfg.ConnString())
		if err != nil {
			logger.Log.Fatalf("failed to connect DB: %v", err)
		}
		defer database.Close()

		if err := db.Migrate(ctx, database); err != nil {
			logger.Log.Fatalf("migrate: %v", err)
		}
		logger.Log.Info("connected to PostgreSQL")
		st = store.NewPostgres(database)
	}

	gen, err := ai.NewGenerator(ctx, cfg.AI)
	if err != nil {
		logger.Log.Fatalf("ai: %v", err)
	}
	adapter := ai.NewAdapter(gen,
		ai.WithTimeout(time.Duration(cfg.AI.TimeoutSec)*time.Second),
		ai.WithRateLimit(cfg.AI.RPM),
	)
	if adapter.Enabled() {
		logger.Log.Infof("AI enrichment enabled (%s, %s)", cfg.AI.Provider, cfg.AI.Model)
	} else {
		logger.Log.Info("AI enrichment disabled: no API key")
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: server.New(server.Deps{
			Store:          st,
			Secret:         []byte(cfg.JWTSecret),
			Analyzer:       analysis.NewAnalyzer(),
			AI:             adapter,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Log.Infof("API server is running on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatalf("server: %v", err)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"aegisd/internal/api"
	"aegisd/internal/config"
	"aegisd/internal/database"
	"aegisd/internal/store"
	"aegisd/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	var activations store.ActivationStore
	var logs store.LogStore

	if cfg.DatabaseURL != "" {
		if err := database.Migrate(cfg.DatabaseURL, "migrations"); err != nil {
			slog.Info("Migration error (may be safe if no changes)", "error", err)
		}

		ctx := context.Background()
		pool, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		activations = store.NewPostgresActivationStore(pool)
		logs = store.NewPostgresLogStore(pool)

		server := api.NewServer(cfg, pool, activations, logs)
		run(server, cfg)
		return
	}

	// No database configured: in-memory store, bindings are lost on restart.
	slog.Warn("DATABASE_URL not set, using in-memory activation store. BINDINGS WILL BE LOST ON RESTART.")
	activations = store.NewMemoryActivationStore()
	logs = store.NopLogStore{}

	server := api.NewServer(cfg, nil, activations, logs)
	run(server, cfg)
}

func run(server *api.Server, cfg config.Config) {
	slog.Info("Aegis license server ("+version.Version+") is on duty", "port", cfg.Port)
	if err := server.Router.Run(":" + cfg.Port); err != nil {
		slog.Error("Failed to run server", "error", err)
		os.Exit(1)
	}
}

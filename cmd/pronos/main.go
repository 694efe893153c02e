package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/footlab/pronos/internal/logger"
	"github.com/footlab/pronos/pkg/cache"
	"github.com/footlab/pronos/pkg/config"
	"github.com/footlab/pronos/pkg/datasource"
	"github.com/footlab/pronos/pkg/server"
	"github.com/footlab/pronos/pkg/store"
)

func main() {
	// Configure logging
	logger.SetShowDateTime(true)
	logger.SetLogOutput('c')

	logger.Info("Starting github.com/footlab/pronos application")

	// Local development keeps the API token in a .env file; a missing file
	// is fine in production where the environment is set directly
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", err)
	}

	cfg, err := config.LoadWithEnv("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	if cfg.API.Token == "" {
		logger.Warn("FOOTBALL_DATA_API_TOKEN is not set, predictions will fail until it is")
	}

	matchStore, err := store.Open(cfg.Data.StorePath)
	if err != nil {
		// The store is a resilience layer, not a hard dependency
		logger.Warn("Running without persistent match store", err)
		matchStore = nil
	} else {
		defer matchStore.Close()
	}

	ds := datasource.New(cfg, cache.NewTTLCache(), matchStore)
	srv := server.NewServer(cfg, server.NewHandler(cfg, ds))
	srv.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Inform("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Error("Shutdown failed", err)
	}
}

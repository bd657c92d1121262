package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/baxromumarov/congress-tracker/internal/api"
	"github.com/baxromumarov/congress-tracker/internal/config"
	"github.com/baxromumarov/congress-tracker/internal/core"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	// Run schema migrations to ensure tables exist
	workDir, _ := os.Getwd()
	schemaPath := filepath.Join(workDir, "internal", "store", "schema.sql")
	dbStore, err := core.OpenStore(cfg, schemaPath)
	if err != nil {
		slog.Error("failed to connect to store", "error", err)
		os.Exit(1)
	}
	var db api.Database
	if dbStore != nil {
		defer dbStore.Close()
		db = dbStore
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start collection and report loop
	pipeline := core.NewPipeline(cfg, core.NewFetcher(cfg), core.NewChecker(cfg), core.SinkFor(dbStore))
	pipeline.Start(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewServer(cfg, db).Router(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("starting server", "port", cfg.Port, "year", cfg.Year)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

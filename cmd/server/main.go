package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iconidentify/clipgrab/internal/api"
	"github.com/iconidentify/clipgrab/internal/api/handler"
	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/orchestrator"
	"github.com/iconidentify/clipgrab/internal/repository"
	"github.com/iconidentify/clipgrab/internal/storage"
	"github.com/iconidentify/clipgrab/internal/worker"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("clipgrab-server %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting clipgrab",
		"version", Version,
		"build_time", BuildTime,
	)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store := storage.NewFileStore(cfg.Storage.OutputDir, logger)
	if err := store.EnsureDir(); err != nil {
		logger.Error("failed to create output directory", "dir", cfg.Storage.OutputDir, "error", err)
		os.Exit(1)
	}

	orch := orchestrator.NewFromConfig(cfg, store, logger)
	jobRepo := repository.NewInMemoryJobRepository()

	router := api.NewRouter(api.Handlers{
		Download: handler.NewDownloadHandler(orch, cfg.Server.AcquireTimeout, logger),
		Classify: handler.NewClassifyHandler(orch),
		Jobs:     handler.NewJobHandler(jobRepo, cfg.Worker.MaxRetries, logger),
		Health:   handler.NewHealthHandler(jobRepo, store, logger),
	}, cfg.Server.APIKey, logger)

	pool := worker.NewPool(
		worker.Config{
			Workers:        cfg.Worker.Count,
			PollInterval:   cfg.Worker.PollInterval,
			AcquireTimeout: cfg.Server.AcquireTimeout,
		},
		jobRepo,
		orch,
		logger,
	)
	pool.Start()

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting HTTP server",
			"addr", srv.Addr,
			"output_dir", store.Dir(),
			"auth", cfg.Server.APIKey != "",
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// In-flight acquisitions close their browser sessions on cancellation.
	if err := pool.Stop(25 * time.Second); err != nil {
		logger.Error("worker pool shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

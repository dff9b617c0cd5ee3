package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"settlement-profit/internal/domain"
	"settlement-profit/internal/gateway"
	"settlement-profit/internal/httpapi"
	"settlement-profit/internal/jobs"
	"settlement-profit/internal/observability/metrics"
	"settlement-profit/internal/platform/config"
	"settlement-profit/internal/usecase"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := config.NewLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	metrics.Init()

	uploads, err := gateway.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Error("Failed to prepare upload storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	exports, err := gateway.NewFileStore(cfg.ExportDir)
	if err != nil {
		logger.Error("Failed to prepare export storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// --- Dependency Injection ---
	workbook := gateway.NewXLSXWorkbook()
	reportUseCase := usecase.NewReportUseCase(workbook, workbook,
		usecase.WithStrictHeader(cfg.StrictHeader),
		usecase.WithLogger(logger),
	)
	catalog := usecase.NewProductCatalog(workbook, domain.DefaultLayout)
	runner := jobs.NewRunner(reportUseCase, exports, exports.Dir(),
		jobs.WithStatusTTL(cfg.JobStatusTTL),
		jobs.WithLogger(logger),
	)
	handler := httpapi.NewReportHandler(gateway.NewFileChecker(cfg.MaxUploadBytes), uploads, catalog, runner, cfg.MaxUploadBytes)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		IsProduction: cfg.IsProduction,
		AllowOrigins: cfg.AllowOrigins,
	}, logger, handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runCleanup(ctx, logger, cfg, uploads, exports, runner)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	runner.Wait()
}

// runCleanup removes expired uploads, exports and job statuses until ctx is done.
func runCleanup(ctx context.Context, logger *slog.Logger, cfg *config.Config, uploads, exports *gateway.FileStore, runner *jobs.Runner) {
	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		for _, area := range []struct {
			name  string
			store *gateway.FileStore
			ttl   time.Duration
		}{
			{name: "uploads", store: uploads, ttl: cfg.UploadTTL},
			{name: "exports", store: exports, ttl: cfg.ExportTTL},
		} {
			removed, err := area.store.CleanupExpired(area.ttl)
			if err != nil {
				logger.Warn("Cleanup failed", slog.String("area", area.name), slog.String("error", err.Error()))
			}
			metrics.AddCleanupRemoved(area.name, removed)
		}
		if dropped := runner.Sweep(); dropped > 0 {
			logger.Debug("Expired job statuses dropped", slog.Int("count", dropped))
		}
	}
}

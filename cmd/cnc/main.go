package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cnc-ops/internal/config"
	"cnc-ops/internal/middleware/auth"
	"cnc-ops/internal/service/directory"
	generate_excel "cnc-ops/internal/service/generate-excel"
	"cnc-ops/internal/service/history"
	"cnc-ops/internal/service/report"
	"cnc-ops/internal/sheets"
	"cnc-ops/internal/storage"
	"cnc-ops/internal/storage/mysql"
	"cnc-ops/internal/storage/postgres"
	"cnc-ops/internal/storage/sqlite"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type kvStore interface {
	storage.KV
	Close() error
}

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	kv, err := openStorage(*cfg)
	if err != nil {
		log.Error("failed to open storage", slog.String("driver", cfg.Storage.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer kv.Close()

	records := storage.NewRecords(kv)

	endpoint := sheets.NewEndpoint(cfg.Webhook.URL)
	if !sheets.Configured(endpoint.Endpoint()) {
		log.Warn("webhook url is not configured, report submissions will fail")
	}

	sheetsClient := sheets.New(log, endpoint)
	defer sheetsClient.Close()

	svc := services{
		reports:   report.NewEngine(log, records, sheetsClient),
		directory: directory.New(log, records),
		history:   history.NewService(records),
		gate:      auth.NewGate(log, cfg.Session),
	}
	svc.excel = generate_excel.NewGenerateService(svc.history)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = config.Watch(ctx, log, config.Path(), func(next *config.Config) {
		if next.Webhook.URL != endpoint.Endpoint() {
			endpoint.Set(next.Webhook.URL)
			log.Info("webhook url reloaded", slog.Bool("configured", sheets.Configured(next.Webhook.URL)))
		}
	})
	if err != nil {
		log.Warn("config hot reload disabled", slog.String("error", err.Error()))
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, svc),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown", slog.String("error", err.Error()))
		}
	}()

	log.Info("server started", slog.String("address", cfg.Address), slog.String("env", cfg.Env))

	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("failed start server", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}

func openStorage(cfg config.Config) (kvStore, error) {
	switch cfg.Storage.Driver {
	case "mysql":
		return mysql.New(cfg)
	case "postgres":
		return postgres.New(cfg)
	case "sqlite", "":
		return sqlite.New(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		err = h.coreHandler.Handle(ctx, r)
		if err != nil {
			return err
		}
	}

	// errors also go to the file
	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		if fileErr := h.errorHandler.Handle(ctx, r.Clone()); fileErr != nil {
			fmt.Fprintf(os.Stderr, "errors.log: %v\n", fileErr)
		}
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env string) *slog.Logger {
	var level slog.Level = slog.LevelDebug
	switch env {
	case envProd:
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		slog.Warn("Cannot open error log file", "error", err)
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	return slog.New(&dualHandler{
		coreHandler:  coreHandler,
		errorHandler: errorHandler,
	})
}

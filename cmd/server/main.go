/*
main.go - Application entry point

PURPOSE:
  Starts the stall till: loads configuration, opens the product catalog,
  creates an empty session and serves the HTTP API until interrupted.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (.env file, then environment, then flags)
  3. Build the zap logger
  4. Open the catalog store (JSON document or SQLite) and load the catalog
  5. Create the till, API handler and router
  6. Start the session backup scheduler
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (overrides CAIXA_PORT)
  -catalog  Catalog file path (overrides CAIXA_CATALOG_PATH)
  -env      .env file to load (default: .env)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Warn when the session has sales that were never exported
  4. Write a last session backup
  5. Close the catalog database, if any

EXAMPLES:
  # Default: produtos.json in the working directory
  ./server

  # Catalog in SQLite
  CAIXA_CATALOG_BACKEND=sqlite ./server -catalog=./caixa.db

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/luisescardovelliTech/caixaBingoNicolas/api"
	"github.com/luisescardovelliTech/caixaBingoNicolas/config"
	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
	"github.com/luisescardovelliTech/caixaBingoNicolas/store/jsonfile"
	"github.com/luisescardovelliTech/caixaBingoNicolas/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 0, "HTTP server port (overrides CAIXA_PORT)")
	catalogPath := flag.String("catalog", "", "catalog file path (overrides CAIXA_CATALOG_PATH)")
	envFile := flag.String("env", ".env", "optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *catalogPath != "" {
		cfg.CatalogPath = *catalogPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Initialize catalog store
	catalogStore, closeStore, err := openCatalogStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	catalog := register.OpenCatalog(ctx, catalogStore, logger.Named("catalog"))
	till := register.NewTill(catalog, register.NewLedger(), logger.Named("till"))
	logger.Info("session started",
		zap.String("session_id", till.ID.String()),
		zap.String("catalog", cfg.CatalogPath),
		zap.String("backend", cfg.CatalogBackend),
		zap.Int("products", catalog.Len()))

	handler := api.NewHandler(till, api.Options{
		Logger:          logger.Named("api"),
		Metrics:         api.NewMetrics(),
		ExportDir:       cfg.ExportDir,
		ReportPageLines: cfg.ReportLines,
	})
	router := api.NewRouter(handler, api.RouterOptions{
		Logger:         logger.Named("http"),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	backup := api.NewBackupScheduler(handler, cfg.BackupInterval)
	backup.Start()
	defer backup.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	if till.HasUnsavedSales() {
		logger.Warn("session closed with sales that were never exported",
			zap.String("session_id", till.ID.String()),
			zap.Int("sales", till.Ledger.SaleCount()),
			zap.String("grand_total", till.Ledger.GrandTotal().StringFixed(2)))
	}
	logger.Info("server stopped")
	return nil
}

func openCatalogStore(cfg *config.Config) (register.CatalogStore, func(), error) {
	switch cfg.CatalogBackend {
	case config.BackendSQLite:
		st, err := sqlite.New(cfg.CatalogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open catalog database: %w", err)
		}
		return st, func() { st.Close() }, nil
	default:
		return jsonfile.NewCatalogFile(cfg.CatalogPath), func() {}, nil
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

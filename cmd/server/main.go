/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the loan segmentation engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and parse command-line flags
  2. Initialize structured logging
  3. Initialize SQLite store
  4. Pick the schedule reviewer (external when OPENAI_API_KEY is set)
  5. Create API handler, metrics, and retention scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: 8080)
  -db         SQLite database path (default: loans.db)
              Use ":memory:" for in-memory database
  -retention  Calculation history retention in days (default: 90, 0 disables
              the pruning scheduler)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the retention scheduler
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/loans.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port, keep history for a year
  ./server -port=3000 -retention=365

ENVIRONMENT:
  OPENAI_* settings enable the LLM-backed schedule reviewer; see
  validator/external.go. Variables are read from the process environment
  or a .env file in the working directory.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/warp/loan-engine/api"
	"github.com/warp/loan-engine/store/sqlite"
	"github.com/warp/loan-engine/validator"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "loans.db", "SQLite database path")
	retentionDays := flag.Int("retention", 90, "calculation history retention in days (0 disables pruning)")
	flag.Parse()

	// .env is optional; the process environment wins either way.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// Pick the schedule reviewer
	var reviewer validator.Validator = validator.NewBuiltin()
	if cfg := validator.ConfigFromEnv(); cfg.APIKey != "" {
		logger.Info("external schedule reviewer enabled", zap.String("model", cfg.Model))
		reviewer = validator.NewExternal(cfg, logger.Named("reviewer"))
	}

	metrics := api.NewMetrics(prometheus.DefaultRegisterer)
	handler := api.NewHandler(store, reviewer, logger.Named("api"), metrics)
	router := api.NewRouter(handler)

	// Retention scheduler
	scheduler := api.NewRetentionScheduler(store, logger.Named("retention"))
	if *retentionDays <= 0 {
		scheduler.Enabled = false
	} else {
		scheduler.Retention = time.Duration(*retentionDays) * 24 * time.Hour
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.String("addr", fmt.Sprintf("http://localhost:%d", *port)),
			zap.String("db", *dbPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from the environment
  2. Configure structured logging
  3. Initialize SQLite store
  4. Create the attendance engine
  5. Configure HTTP router
  6. Start server with graceful shutdown

CONFIGURATION (environment variables, with defaults):
  SERVER_PORT                 HTTP server port (default: 8080)
  DB_PATH                     SQLite database path (default: attendance.db)
                              Use ":memory:" for in-memory database
  DEV_LOGGING                 Pretty console logs when true
  SCHEDULED_CLOCK_IN          Site clock-in time (default: 08:00)
  SCHEDULED_LUNCH_RETURN      Site lunch-return time (default: 14:00)
  GRACE_CLOCK_IN_MINUTES      Entry grace window (default: 15)
  GRACE_LUNCH_RETURN_MINUTES  Lunch grace window (default: 10)
  MAX_ENTRY_TARDINESS         Late-entry limit before finalize (default: 5)
  MAX_LUNCH_TARDINESS         Late-lunch limit before finalize (default: 5)
  MAX_ABSENCES                Absence limit before finalize (default: 3)
  MAX_WARNINGS                Warning limit before finalize (default: 3)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campus/attendance-engine/api"
	"github.com/campus/attendance-engine/attendance"
	"github.com/campus/attendance-engine/config"
	"github.com/campus/attendance-engine/logging"
	"github.com/campus/attendance-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.DevLogging)

	clockCfg, err := cfg.ClockConfiguration()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid schedule configuration")
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("failed to initialize database")
	}
	defer store.Close()

	// Initialize engine
	engine, err := attendance.NewEngine(store, clockCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create engine")
	}

	// Create router
	handler := api.NewHandler(engine, store)
	router := api.NewRouter(handler, logger)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Int("port", cfg.ServerPort).Str("db_path", cfg.DBPath).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

/*
serve.go - HTTP server command

STARTUP SEQUENCE:
  1. Resolve flags (falling back to ROSTER_PORT / ROSTER_DB)
  2. Initialize SQLite store
  3. Create API handler, optionally seeding a preset scenario
  4. Configure HTTP router
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection

EXAMPLES:
  # Run with file database
  roster serve --db=./data/roster.db

  # Run in memory with the workshop roster loaded
  roster serve --db=:memory: --seed=workshop
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/shift-roster/api"
	"github.com/warp/shift-roster/store/sqlite"
)

var (
	servePort int
	serveDB   string
	serveSeed string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("port") {
			servePort = getEnvIntWithDefault(envPort, servePort)
		}
		if !cmd.Flags().Changed("db") {
			serveDB = getEnvWithDefault(envDB, serveDB)
		}
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP server port")
	serveCmd.Flags().StringVar(&serveDB, "db", "roster.db", `SQLite database path (":memory:" for in-memory)`)
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "load a preset scenario on startup (workshop, single-pattern, office)")
}

// corsOrigins reads ROSTER_CORS_ORIGINS, a comma separated list.
func corsOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv(envCORSOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Initialize store
	store, err := sqlite.New(serveDB)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, logger)

	if serveSeed != "" {
		if err := handler.LoadPreset(ctx, serveSeed); err != nil {
			return fmt.Errorf("failed to seed scenario %q: %w", serveSeed, err)
		}
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", servePort),
		Handler:      api.NewRouter(handler, corsOrigins()...),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.Int("port", servePort),
			zap.String("db", serveDB),
			zap.String("api", fmt.Sprintf("http://localhost:%d/api", servePort)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

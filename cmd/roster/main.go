/*
main.go - Application entry point

PURPOSE:
  Command-line front end of the shift roster engine. One binary serves the
  HTTP API and works offline against YAML/JSON roster files.

COMMANDS:
  roster serve     Start the HTTP API backed by SQLite
  roster export    Generate a roster and write it as XLSX or CSV
  roster validate  Generate a roster and print flagged cells
  roster init      Write a preset roster as an editable YAML file

GLOBAL FLAGS:
  --log-level   debug | info | warn | error (default: info)

ENVIRONMENT:
  Values are read from the process environment and from a .env file in the
  working directory when one exists. Flags win over the environment.

  ROSTER_DB         SQLite database path for serve (default: roster.db)
  ROSTER_PORT       HTTP port for serve (default: 8080)
  ROSTER_LOG_LEVEL  Log level (default: info)
  ROSTER_CORS_ORIGINS
                    Comma separated browser origins for serve
                    (default: localhost:5173 and localhost:8080)

EXIT CODES:
  0  success (validation issues alone do not fail a run)
  1  configuration error, I/O error, or bad flags

SEE ALSO:
  - serve.go: HTTP server startup and graceful shutdown
  - files.go: export, validate, init
*/
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envDB       = "ROSTER_DB"
	envPort     = "ROSTER_PORT"
	envLogLevel = "ROSTER_LOG_LEVEL"

	envCORSOrigins = "ROSTER_CORS_ORIGINS"
)

var (
	logLevel string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "Monthly shift roster generator",
	Long: `roster generates 28-day shift timesheets from repeating shift patterns
and per-employee day exceptions, totals the worked hours against the monthly
norm, and flags cells that are neither hours nor a known absence code.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal; only the process environment is used then.
		_ = godotenv.Load()

		if !cmd.Flags().Changed("log-level") {
			logLevel = getEnvWithDefault(envLogLevel, logLevel)
		}
		var err error
		logger, err = newLogger(logLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, exportCmd, validateCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds a production zap logger at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// getEnvWithDefault returns the value of the environment variable or the default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

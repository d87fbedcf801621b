// Package main provides the rinkwar command line tool.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/rinkwar/internal/config"
	"github.com/yourusername/rinkwar/internal/logger"
	"github.com/yourusername/rinkwar/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	logLevel   string
	cfg        *config.Config
	appLog     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:     "rinkwar",
	Short:   "Game impact scores and season WAR for EA NHL club players",
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupLogging()
		metrics.InitRegistry()
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(newScoreCmd(), newSeasonCmd(), newFetchCmd(), newScheduleCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	// A local .env feeds ${VAR} expansion and RINKWAR_ overrides
	_ = godotenv.Load(".env")

	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.IsProduction() {
		if err := config.ValidateEnvironment(cfg); err != nil {
			return err
		}
	}
	return nil
}

func setupLogging() {
	level := cfg.App.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	// Logs go to stderr so reports written to stdout stay clean
	appLog = logger.NewLoggerWithOutput(level, os.Stderr)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   level,
		"version":     Version,
	}).Debug("rinkwar starting")
}

// readRawRecords decodes a JSON array of raw player-game objects from path,
// or from stdin when path is "-". Numbers are kept as json.Number.
func readRawRecords(path string, stdin io.Reader) ([]map[string]interface{}, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raws []map[string]interface{}
	if err := dec.Decode(&raws); err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}
	return raws, nil
}

// openOutput returns stdout for an empty path, otherwise a created file
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, f.Close, nil
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-agent-meter/internal/application/meter"
	"github.com/penwyp/go-agent-meter/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug bool

	// Pricing related
	ratesFile          string
	pricingSource      string
	pricingOfflineMode bool
	reset              bool

	rootCmd = &cobra.Command{
		Use:   "go-agent-meter",
		Short: "Cost and progress metering for agent loops",
		Long: `go-agent-meter accounts for the cost of third-party API calls made by an
agent loop and shows its progress through a multi-step task.

The agent writes one JSON event per line (record, start, step, current,
complete). go-agent-meter prices every record against a rate table, keeps a
running total and draws a progress bar.

Examples:
  go-agent-meter rates                                 # List the built-in rate table
  go-agent-meter rates --rates ./rates.yaml -o json     # List rates from a file as JSON
  go-agent-meter replay events.jsonl                   # Price a finished run
  go-agent-meter replay events.jsonl --follow          # Follow a running agent
  go-agent-meter replay events.jsonl --metrics-addr :9464`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging()
		},
	}
)

const (
	defaultLogFile  = "~/.go-agent-meter/logs/app.log"
	defaultCacheDir = "~/.go-agent-meter"
)

func init() {
	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")

	// Pricing configuration
	rootCmd.PersistentFlags().StringVar(&ratesFile, "rates", "",
		"Rate table file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&pricingSource, "pricing-source", "",
		"Pricing source (default, file, litellm)")
	rootCmd.PersistentFlags().BoolVar(&pricingOfflineMode, "pricing-offline", false,
		"Use offline pricing mode")
	rootCmd.PersistentFlags().BoolVarP(&reset, "reset", "r", false,
		"Clear the rate cache before running")
}

func Execute() error {
	return rootCmd.Execute()
}

func initLogging() error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// meterConfig builds the session config from the persistent flags
func meterConfig() (*meter.Config, error) {
	cacheDir := expandPath(defaultCacheDir)
	if err := ensureDir(cacheDir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	if reset {
		if err := clearCache(cacheDir); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Rate cache cleared")
	}

	config := &meter.Config{
		PricingSource:      pricingSource,
		PricingOfflineMode: pricingOfflineMode,
		CacheDir:           cacheDir,
	}
	if ratesFile != "" {
		config.RatesFile = expandPath(ratesFile)
	}
	return config, nil
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}

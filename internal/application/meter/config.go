package meter

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config contains configuration for a metering session
type Config struct {
	// Rate configuration
	PricingSource      string // default, file, litellm
	PricingOfflineMode bool
	RatesFile          string
	CacheDir           string

	// Observability
	MetricsAddr string
}

// Validate fills defaults and checks the configuration
func (c *Config) Validate() error {
	if c.PricingSource == "" {
		c.PricingSource = "default"
		if c.RatesFile != "" {
			c.PricingSource = "file"
		}
	}
	if c.CacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		c.CacheDir = filepath.Join(home, ".go-agent-meter")
	}
	if c.PricingSource == "file" && c.RatesFile == "" {
		return fmt.Errorf("pricing source \"file\" requires --rates")
	}
	return nil
}

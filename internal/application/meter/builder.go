package meter

import (
	"context"
	"fmt"
	"io"

	"github.com/penwyp/go-agent-meter/internal/core/ledger"
	"github.com/penwyp/go-agent-meter/internal/core/pricing"
	"github.com/penwyp/go-agent-meter/internal/core/progress"
	"github.com/penwyp/go-agent-meter/internal/metrics"
)

// LoadRates snapshots the configured rate source
func LoadRates(ctx context.Context, cfg *Config) (*pricing.Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	provider, err := pricing.CreateRateProvider(&pricing.SourceConfig{
		PricingSource:      cfg.PricingSource,
		PricingOfflineMode: cfg.PricingOfflineMode,
		RatesFile:          cfg.RatesFile,
	}, cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	return pricing.LoadTable(ctx, provider)
}

// Session bundles everything one metering run needs
type Session struct {
	Orchestrator *Orchestrator
	Rates        *pricing.Table
	Collector    *metrics.Collector
}

// NewSession loads rates and builds a fresh ledger and tracker. The ledger
// summary goes to out and the tracker draws on surface. A collector is
// attached when withMetrics is set.
func NewSession(ctx context.Context, cfg *Config, out io.Writer, surface progress.Surface, withMetrics bool) (*Session, error) {
	rates, err := LoadRates(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []ledger.Option{ledger.WithWriter(out)}

	var collector *metrics.Collector
	if withMetrics {
		collector = metrics.NewCollector(nil)
		opts = append(opts, ledger.WithObserver(collector))
	}

	return &Session{
		Orchestrator: NewOrchestrator(ledger.New(rates, opts...), progress.New(surface)),
		Rates:        rates,
		Collector:    collector,
	}, nil
}

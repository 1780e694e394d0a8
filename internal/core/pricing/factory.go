package pricing

import (
	"fmt"

	"github.com/penwyp/go-agent-meter/internal/util"
)

// CreateRateProvider creates a rate provider based on configuration
func CreateRateProvider(cfg *SourceConfig, cacheDir string) (RateProvider, error) {
	var baseProvider RateProvider

	switch cfg.PricingSource {
	case "default", "":
		baseProvider = NewDefaultProvider()
	case "file":
		if cfg.RatesFile == "" {
			return nil, fmt.Errorf("pricing source \"file\" requires a rates file")
		}
		baseProvider = NewFileProvider(cfg.RatesFile)
	case "litellm":
		baseProvider = NewLiteLLMProvider()
	default:
		return nil, fmt.Errorf("unknown pricing source: %s", cfg.PricingSource)
	}

	// Remote sources and offline mode go through the on-disk cache
	if cfg.PricingOfflineMode || cfg.PricingSource == "litellm" {
		util.LogDebugf("Enabling rate cache: offline_mode=%t, source=%s, cache_dir=%s",
			cfg.PricingOfflineMode, cfg.PricingSource, cacheDir)

		cacheManager, err := NewCacheManager(cacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache manager: %w", err)
		}
		return NewCachedProvider(baseProvider, cacheManager, cfg.PricingOfflineMode), nil
	}

	return baseProvider, nil
}

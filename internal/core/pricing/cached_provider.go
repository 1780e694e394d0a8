package pricing

import (
	"context"
	"fmt"

	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/penwyp/go-agent-meter/internal/util"
)

// CachedProvider wraps another provider with an on-disk cache. In offline
// mode the cache is consulted first; otherwise it is a fallback for a failing
// provider and is refreshed after every successful full load.
type CachedProvider struct {
	provider     RateProvider
	cacheManager *CacheManager
	useOffline   bool
}

// NewCachedProvider creates a new cached rate provider
func NewCachedProvider(provider RateProvider, cacheManager *CacheManager, useOffline bool) *CachedProvider {
	return &CachedProvider{
		provider:     provider,
		cacheManager: cacheManager,
		useOffline:   useOffline,
	}
}

func (p *CachedProvider) GetRate(ctx context.Context, key string) (model.Rate, error) {
	if p.useOffline {
		if cache, err := p.cacheManager.LoadRates(ctx); err == nil {
			if rate, ok := cache.Rates[key]; ok {
				return rate, nil
			}
		}
		util.LogDebugf("Cached rate not found for %s, falling back to provider", key)
	}

	rate, err := p.provider.GetRate(ctx, key)
	if err != nil {
		if !p.useOffline && p.cacheManager.HasCache() {
			if cache, cacheErr := p.cacheManager.LoadRates(ctx); cacheErr == nil {
				if cached, ok := cache.Rates[key]; ok {
					util.LogInfof("Using fallback cached rate for %s", key)
					return cached, nil
				}
			}
		}
		return model.Rate{}, err
	}
	return rate, nil
}

func (p *CachedProvider) GetAllRates(ctx context.Context) (map[string]model.Rate, error) {
	if p.useOffline {
		cache, err := p.cacheManager.LoadRates(ctx)
		if err == nil {
			return cache.Rates, nil
		}
		util.LogDebugf("Failed to load cached rates: %v", err)
	}

	rates, err := p.provider.GetAllRates(ctx)
	if err != nil {
		if !p.useOffline && p.cacheManager.HasCache() {
			util.LogInfof("Primary rate provider failed, attempting to use cached data")
			if cache, cacheErr := p.cacheManager.LoadRates(ctx); cacheErr == nil {
				return cache.Rates, nil
			}
		}
		return nil, err
	}

	if err := p.cacheManager.SaveRates(ctx, p.provider.GetProviderName(), rates); err != nil {
		util.LogDebugf("Failed to update rate cache: %v", err)
	}
	return rates, nil
}

func (p *CachedProvider) RefreshRates(ctx context.Context) error {
	if p.useOffline {
		return fmt.Errorf("cannot refresh rates in offline mode")
	}

	if err := p.provider.RefreshRates(ctx); err != nil {
		return err
	}

	rates, err := p.provider.GetAllRates(ctx)
	if err != nil {
		return err
	}
	return p.cacheManager.SaveRates(ctx, p.provider.GetProviderName(), rates)
}

func (p *CachedProvider) GetProviderName() string {
	if p.useOffline {
		return fmt.Sprintf("%s-offline", p.provider.GetProviderName())
	}
	return fmt.Sprintf("%s-cached", p.provider.GetProviderName())
}

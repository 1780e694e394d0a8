package pricing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/penwyp/go-agent-meter/internal/util"
)

const cacheFileName = "rates.json"

// CacheManager persists rate data for offline use
type CacheManager struct {
	mu        sync.RWMutex
	cacheFile string
}

// RateCache is the on-disk form of cached rate data
type RateCache struct {
	Source    string                `json:"source"`
	UpdatedAt time.Time             `json:"updated_at"`
	Rates     map[string]model.Rate `json:"rates"`
}

// NewCacheManager creates a cache manager storing rates.json under dir
func NewCacheManager(dir string) (*CacheManager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create rate cache directory: %w", err)
	}

	return &CacheManager{
		cacheFile: filepath.Join(dir, cacheFileName),
	}, nil
}

// SaveRates writes rate data to the cache file atomically
func (m *CacheManager) SaveRates(ctx context.Context, source string, rates map[string]model.Rate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	util.LogDebugf("Saving %s rates to %s (%d entries)", source, m.cacheFile, len(rates))

	cache := RateCache{
		Source:    source,
		UpdatedAt: time.Now(),
		Rates:     rates,
	}

	data, err := sonic.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rate cache: %w", err)
	}

	tmpFile := m.cacheFile + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	if err := os.Rename(tmpFile, m.cacheFile); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}

// LoadRates reads rate data from the cache file
func (m *CacheManager) LoadRates(ctx context.Context) (*RateCache, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.cacheFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no cached rates at %s", ErrRatesUnavailable, m.cacheFile)
		}
		return nil, fmt.Errorf("failed to read cache file %s: %w", m.cacheFile, err)
	}

	var cache RateCache
	if err := sonic.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rate cache: %w", err)
	}

	util.LogDebugf("Loaded cached rates: source=%s, entries=%d, updated_at=%s",
		cache.Source, len(cache.Rates), cache.UpdatedAt.Format("2006-01-02 15:04:05"))
	return &cache, nil
}

// HasCache checks if cached rate data exists
func (m *CacheManager) HasCache() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.cacheFile)
	return err == nil
}

// ClearCache removes the cached rate data
func (m *CacheManager) ClearCache() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := os.Remove(m.cacheFile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}

// Path returns the cache file location
func (m *CacheManager) Path() string {
	return m.cacheFile
}

package pricing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/penwyp/go-agent-meter/internal/util"
	"gopkg.in/yaml.v3"
)

// FileProvider serves rate entries from a YAML or JSON file layered over the
// built-in table. Entries in the file win.
type FileProvider struct {
	mu    sync.RWMutex
	path  string
	rates map[string]model.Rate
}

// NewFileProvider creates a provider backed by the given rates file
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) GetRate(ctx context.Context, key string) (model.Rate, error) {
	if err := p.ensureLoaded(); err != nil {
		return model.Rate{}, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	rate, ok := p.rates[key]
	if !ok {
		return model.Rate{}, fmt.Errorf("%w: %s", ErrRateNotFound, key)
	}
	return rate, nil
}

func (p *FileProvider) GetAllRates(ctx context.Context) (map[string]model.Rate, error) {
	if err := p.ensureLoaded(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make(map[string]model.Rate, len(p.rates))
	for k, v := range p.rates {
		result[k] = v
	}
	return result, nil
}

// RefreshRates re-reads the rates file
func (p *FileProvider) RefreshRates(ctx context.Context) error {
	return p.load()
}

func (p *FileProvider) GetProviderName() string {
	return "file"
}

func (p *FileProvider) ensureLoaded() error {
	p.mu.RLock()
	loaded := p.rates != nil
	p.mu.RUnlock()

	if loaded {
		return nil
	}
	return p.load()
}

func (p *FileProvider) load() error {
	util.LogDebugf("Loading rates file %s", p.path)

	entries, err := ParseRatesFile(p.path)
	if err != nil {
		return err
	}

	merged := DefaultRates()
	for k, v := range entries {
		merged[k] = v
	}

	p.mu.Lock()
	p.rates = merged
	p.mu.Unlock()

	util.LogDebugf("Loaded %d rate entries from %s (%d total)", len(entries), p.path, len(merged))
	return nil
}

// ParseRatesFile reads a flat "service/model" -> {input, output} mapping.
// Files ending in .json are decoded as JSON, everything else as YAML.
// Keys are normalized to lowercase.
func ParseRatesFile(path string) (map[string]model.Rate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates file %s: %w", path, err)
	}

	raw := make(map[string]model.Rate)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse rates file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse rates file %s: %w", path, err)
		}
	}

	rates := make(map[string]model.Rate, len(raw))
	for key, rate := range raw {
		rates[strings.ToLower(strings.TrimSpace(key))] = rate
	}
	return rates, nil
}

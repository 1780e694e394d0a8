package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/penwyp/go-agent-meter/internal/util"
)

const (
	liteLLMPricingURL = "https://raw.githubusercontent.com/BerriAI/litellm/main/model_prices_and_context_window.json"
	cacheExpiration   = 24 * time.Hour
)

// LiteLLMProvider fetches rates from LiteLLM's public price list
type LiteLLMProvider struct {
	mu            sync.RWMutex
	url           string
	rates         map[string]model.Rate
	lastFetchTime time.Time
	httpClient    *http.Client
}

type liteLLMModel struct {
	InputCostPerToken  *float64 `json:"input_cost_per_token"`
	OutputCostPerToken *float64 `json:"output_cost_per_token"`
	Provider           string   `json:"litellm_provider"`
}

// NewLiteLLMProvider creates a provider reading the public LiteLLM price list
func NewLiteLLMProvider() *LiteLLMProvider {
	return NewLiteLLMProviderWithURL(liteLLMPricingURL)
}

// NewLiteLLMProviderWithURL creates a provider reading a LiteLLM-format
// document from url
func NewLiteLLMProviderWithURL(url string) *LiteLLMProvider {
	return &LiteLLMProvider{
		url:   url,
		rates: make(map[string]model.Rate),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *LiteLLMProvider) GetRate(ctx context.Context, key string) (model.Rate, error) {
	if err := p.ensureLoaded(ctx); err != nil {
		return model.Rate{}, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if rate, ok := p.rates[key]; ok {
		return rate, nil
	}
	return model.Rate{}, fmt.Errorf("%w: %s", ErrRateNotFound, key)
}

func (p *LiteLLMProvider) GetAllRates(ctx context.Context) (map[string]model.Rate, error) {
	if err := p.ensureLoaded(ctx); err != nil {
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

func (p *LiteLLMProvider) RefreshRates(ctx context.Context) error {
	return p.fetchRates(ctx)
}

func (p *LiteLLMProvider) GetProviderName() string {
	return "litellm"
}

func (p *LiteLLMProvider) ensureLoaded(ctx context.Context) error {
	p.mu.RLock()
	needsRefresh := time.Since(p.lastFetchTime) > cacheExpiration || len(p.rates) == 0
	p.mu.RUnlock()

	if needsRefresh {
		return p.fetchRates(ctx)
	}
	return nil
}

func (p *LiteLLMProvider) fetchRates(ctx context.Context) error {
	util.LogDebugf("Fetching rates from %s", p.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRatesUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code %d", ErrRatesUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var rawData map[string]json.RawMessage
	if err := sonic.Unmarshal(body, &rawData); err != nil {
		return fmt.Errorf("failed to parse rate data: %w", err)
	}

	rates := make(map[string]model.Rate)
	for name, raw := range rawData {
		var entry liteLLMModel
		if err := sonic.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if entry.InputCostPerToken == nil || entry.OutputCostPerToken == nil || entry.Provider == "" {
			continue
		}
		rates[model.RateKey(entry.Provider, stripProviderPrefix(name, entry.Provider))] = model.Rate{
			Input:  *entry.InputCostPerToken * model.UnitsPerMillion,
			Output: *entry.OutputCostPerToken * model.UnitsPerMillion,
		}
	}

	p.mu.Lock()
	p.rates = rates
	p.lastFetchTime = time.Now()
	p.mu.Unlock()

	util.LogDebugf("Loaded %d rate entries from LiteLLM (%d raw entries)", len(rates), len(rawData))
	return nil
}

// stripProviderPrefix turns "openai/gpt-4" into "gpt-4" when the entry is
// already namespaced by its provider.
func stripProviderPrefix(name, provider string) string {
	return strings.TrimPrefix(name, provider+"/")
}

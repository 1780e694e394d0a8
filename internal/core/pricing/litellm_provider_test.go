package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLiteLLMServer(t *testing.T, data map[string]interface{}) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(data)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewLiteLLMProvider(t *testing.T) {
	provider := NewLiteLLMProvider()

	assert.NotNil(t, provider.rates)
	assert.Equal(t, liteLLMPricingURL, provider.url)
	assert.Equal(t, 30*time.Second, provider.httpClient.Timeout)
	assert.Equal(t, "litellm", provider.GetProviderName())
}

func TestLiteLLMProvider_GetRate(t *testing.T) {
	server := newLiteLLMServer(t, map[string]interface{}{
		"gpt-4": map[string]interface{}{
			"input_cost_per_token":  0.00003,
			"output_cost_per_token": 0.00006,
			"litellm_provider":      "openai",
		},
		"deepseek/deepseek-chat": map[string]interface{}{
			"input_cost_per_token":  0.00000027,
			"output_cost_per_token": 0.0000011,
			"litellm_provider":      "deepseek",
		},
		"no-provider": map[string]interface{}{
			"input_cost_per_token":  0.1,
			"output_cost_per_token": 0.1,
		},
		"no-price": map[string]interface{}{
			"litellm_provider": "openai",
		},
		"sample_spec": "not an object",
	})

	provider := NewLiteLLMProviderWithURL(server.URL)
	ctx := context.Background()

	rate, err := provider.GetRate(ctx, "openai/gpt-4")
	require.NoError(t, err)
	assert.InDelta(t, 30.0, rate.Input, 1e-9)
	assert.InDelta(t, 60.0, rate.Output, 1e-9)

	rate, err = provider.GetRate(ctx, "deepseek/deepseek-chat")
	require.NoError(t, err)
	assert.InDelta(t, 0.27, rate.Input, 1e-9)

	_, err = provider.GetRate(ctx, "openai/no-price")
	assert.True(t, errors.Is(err, ErrRateNotFound))

	all, err := provider.GetAllRates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLiteLLMProvider_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewLiteLLMProviderWithURL(server.URL)
	_, err := provider.GetAllRates(context.Background())
	assert.True(t, errors.Is(err, ErrRatesUnavailable))
}

func TestStripProviderPrefix(t *testing.T) {
	assert.Equal(t, "gpt-4", stripProviderPrefix("openai/gpt-4", "openai"))
	assert.Equal(t, "gpt-4", stripProviderPrefix("gpt-4", "openai"))
	assert.Equal(t, "azure/gpt-4", stripProviderPrefix("azure/gpt-4", "openai"))
}

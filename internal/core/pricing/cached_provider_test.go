package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	rates map[string]model.Rate
	err   error
	calls int
}

func (s *stubProvider) GetRate(ctx context.Context, key string) (model.Rate, error) {
	s.calls++
	if s.err != nil {
		return model.Rate{}, s.err
	}
	rate, ok := s.rates[key]
	if !ok {
		return model.Rate{}, ErrRateNotFound
	}
	return rate, nil
}

func (s *stubProvider) GetAllRates(ctx context.Context) (map[string]model.Rate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rates, nil
}

func (s *stubProvider) RefreshRates(ctx context.Context) error { return s.err }
func (s *stubProvider) GetProviderName() string                { return "stub" }

func TestCacheManagerRoundTrip(t *testing.T) {
	manager, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.False(t, manager.HasCache())
	_, err = manager.LoadRates(ctx)
	assert.True(t, errors.Is(err, ErrRatesUnavailable))

	rates := map[string]model.Rate{"acme/widget": {Input: 1, Output: 2}}
	require.NoError(t, manager.SaveRates(ctx, "stub", rates))
	assert.True(t, manager.HasCache())

	cache, err := manager.LoadRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stub", cache.Source)
	assert.Equal(t, rates, cache.Rates)

	require.NoError(t, manager.ClearCache())
	assert.False(t, manager.HasCache())
	assert.NoError(t, manager.ClearCache())
}

func TestCachedProviderFallsBackToCache(t *testing.T) {
	manager, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	stub := &stubProvider{rates: map[string]model.Rate{"acme/widget": {Input: 4, Output: 8}}}
	provider := NewCachedProvider(stub, manager, false)
	assert.Equal(t, "stub-cached", provider.GetProviderName())

	// A successful full load populates the cache
	_, err = provider.GetAllRates(ctx)
	require.NoError(t, err)
	assert.True(t, manager.HasCache())

	stub.err = ErrRatesUnavailable

	rates, err := provider.GetAllRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Rate{Input: 4, Output: 8}, rates["acme/widget"])

	rate, err := provider.GetRate(ctx, "acme/widget")
	require.NoError(t, err)
	assert.Equal(t, 4.0, rate.Input)

	_, err = provider.GetRate(ctx, "acme/other")
	assert.Error(t, err)
}

func TestCachedProviderOfflinePrefersCache(t *testing.T) {
	manager, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, manager.SaveRates(ctx, "stub", map[string]model.Rate{"acme/widget": {Input: 9}}))

	stub := &stubProvider{rates: map[string]model.Rate{"acme/widget": {Input: 1}}}
	provider := NewCachedProvider(stub, manager, true)
	assert.Equal(t, "stub-offline", provider.GetProviderName())

	rates, err := provider.GetAllRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9.0, rates["acme/widget"].Input)
	assert.Equal(t, 0, stub.calls)

	assert.Error(t, provider.RefreshRates(ctx))
}

func TestCachedProviderOfflineWithoutCache(t *testing.T) {
	manager, err := NewCacheManager(t.TempDir())
	require.NoError(t, err)

	stub := &stubProvider{rates: map[string]model.Rate{"acme/widget": {Input: 1}}}
	provider := NewCachedProvider(stub, manager, true)

	rates, err := provider.GetAllRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, rates["acme/widget"].Input)
}

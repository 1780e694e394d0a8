package pricing

import (
	"context"
	"fmt"

	"github.com/penwyp/go-agent-meter/internal/core/model"
)

// DefaultProvider serves the built-in rate table
type DefaultProvider struct{}

// NewDefaultProvider creates a new default rate provider
func NewDefaultProvider() RateProvider {
	return &DefaultProvider{}
}

func (p *DefaultProvider) GetRate(ctx context.Context, key string) (model.Rate, error) {
	rate, ok := GetRate(key)
	if !ok {
		return model.Rate{}, fmt.Errorf("%w: %s", ErrRateNotFound, key)
	}
	return rate, nil
}

func (p *DefaultProvider) GetAllRates(ctx context.Context) (map[string]model.Rate, error) {
	return DefaultRates(), nil
}

// RefreshRates is a no-op for the default provider
func (p *DefaultProvider) RefreshRates(ctx context.Context) error {
	return nil
}

func (p *DefaultProvider) GetProviderName() string {
	return "default"
}

package pricing

import (
	"context"
	"errors"

	"github.com/penwyp/go-agent-meter/internal/core/model"
)

// RateProvider defines the interface for fetching rate entries
type RateProvider interface {
	// GetRate returns the rate for a lowercased "service/model" key
	GetRate(ctx context.Context, key string) (model.Rate, error)

	// GetAllRates returns all available rate entries
	GetAllRates(ctx context.Context) (map[string]model.Rate, error)

	// RefreshRates forces a refresh of rate data (for remote providers)
	RefreshRates(ctx context.Context) error

	// GetProviderName returns the name of this provider
	GetProviderName() string
}

// ErrRateNotFound is returned when no rate entry exists for a key
var ErrRateNotFound = errors.New("rate not found")

// ErrRatesUnavailable is returned when rate data is temporarily unavailable
var ErrRatesUnavailable = errors.New("rate data temporarily unavailable")

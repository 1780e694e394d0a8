package pricing

import (
	"context"
	"fmt"
	"sort"

	"github.com/penwyp/go-agent-meter/internal/core/model"
)

// Table is an immutable snapshot of rate entries. A lookup miss is zero-rate.
type Table struct {
	source string
	rates  map[string]model.Rate
}

// NewTable builds a table from a key -> rate mapping. Keys are expected to be
// lowercased "service/model" strings.
func NewTable(source string, rates map[string]model.Rate) *Table {
	copied := make(map[string]model.Rate, len(rates))
	for k, v := range rates {
		copied[k] = v
	}
	return &Table{source: source, rates: copied}
}

// LoadTable snapshots every entry of a provider. It is meant to be called
// once at process start.
func LoadTable(ctx context.Context, provider RateProvider) (*Table, error) {
	rates, err := provider.GetAllRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rates from %s: %w", provider.GetProviderName(), err)
	}
	return NewTable(provider.GetProviderName(), rates), nil
}

// Lookup returns the rate for a service/model pair
func (t *Table) Lookup(service, modelName string) model.Rate {
	if t == nil {
		return model.Rate{}
	}
	return t.rates[model.RateKey(service, modelName)]
}

// Source names the provider the table was loaded from
func (t *Table) Source() string {
	return t.source
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.rates)
}

// Keys returns all keys in sorted order
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.rates))
	for k := range t.rates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entry returns the rate stored under an exact key
func (t *Table) Entry(key string) (model.Rate, bool) {
	rate, ok := t.rates[key]
	return rate, ok
}

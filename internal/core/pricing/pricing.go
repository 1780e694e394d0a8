package pricing

import "github.com/penwyp/go-agent-meter/internal/core/model"

// SourceConfig selects where rate entries come from
type SourceConfig struct {
	PricingSource      string `json:"pricingSource"`
	PricingOfflineMode bool   `json:"pricingOfflineMode"`
	RatesFile          string `json:"ratesFile"`
}

// defaultRates is the built-in rate table, keyed by lowercased "service/model".
// Prices are per million units.
var defaultRates = map[string]model.Rate{
	// Anthropic
	model.RateKey(model.ServiceAnthropic, "claude-opus-4"):     {Input: 15.00, Output: 75.00},
	model.RateKey(model.ServiceAnthropic, "claude-sonnet-4"):   {Input: 3.00, Output: 15.00},
	model.RateKey(model.ServiceAnthropic, "claude-3-5-sonnet"): {Input: 3.00, Output: 15.00},
	model.RateKey(model.ServiceAnthropic, "claude-3-5-haiku"):  {Input: 0.80, Output: 4.00},

	// OpenAI
	model.RateKey(model.ServiceOpenAI, "gpt-4"):       {Input: 30.00, Output: 60.00},
	model.RateKey(model.ServiceOpenAI, "gpt-4-turbo"): {Input: 10.00, Output: 30.00},
	model.RateKey(model.ServiceOpenAI, "gpt-4o"):      {Input: 2.50, Output: 10.00},
	model.RateKey(model.ServiceOpenAI, "gpt-4o-mini"): {Input: 0.15, Output: 0.60},

	// DeepSeek
	model.RateKey(model.ServiceDeepSeek, "deepseek-chat"):     {Input: 0.27, Output: 1.10},
	model.RateKey(model.ServiceDeepSeek, "deepseek-reasoner"): {Input: 0.55, Output: 2.19},

	// Google
	model.RateKey(model.ServiceGoogle, "gemini-1.5-pro"):   {Input: 1.25, Output: 5.00},
	model.RateKey(model.ServiceGoogle, "gemini-1.5-flash"): {Input: 0.075, Output: 0.30},
}

// GetRate returns the built-in rate for a key. Unknown keys are free.
func GetRate(key string) (model.Rate, bool) {
	rate, ok := defaultRates[key]
	return rate, ok
}

// DefaultRates returns a copy of the built-in rate table
func DefaultRates() map[string]model.Rate {
	result := make(map[string]model.Rate, len(defaultRates))
	for k, v := range defaultRates {
		result[k] = v
	}
	return result
}

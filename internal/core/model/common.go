package model

import "strings"

// Well-known service identifiers used by the built-in rate table
const (
	ServiceAnthropic = "anthropic"
	ServiceOpenAI    = "openai"
	ServiceDeepSeek  = "deepseek"
	ServiceGoogle    = "google"
)

// UnitsPerMillion is the denominator for all rate entries
const UnitsPerMillion = 1_000_000

// RateKey builds the lookup key for a service/model pair.
func RateKey(service, model string) string {
	return strings.ToLower(service + "/" + model)
}

package model

import "time"

// Rate is the price of usage units, expressed per million units.
type Rate struct {
	Input  float64 `json:"input" yaml:"input"`
	Output float64 `json:"output" yaml:"output"`
}

// IsZero reports whether the rate makes every call free.
func (r Rate) IsZero() bool {
	return r.Input == 0 && r.Output == 0
}

// Cost derives the monetary amount for the given unit counts.
func (r Rate) Cost(inputUnits, outputUnits int64) float64 {
	return float64(inputUnits)/UnitsPerMillion*r.Input +
		float64(outputUnits)/UnitsPerMillion*r.Output
}

// CallRecord is one billable API call. Records are immutable once appended.
type CallRecord struct {
	Service     string    `json:"service"`
	Model       string    `json:"model"`
	InputUnits  int64     `json:"input_units"`
	OutputUnits int64     `json:"output_units"`
	Cost        float64   `json:"cost"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Key returns the rate key of the record.
func (r CallRecord) Key() string {
	return RateKey(r.Service, r.Model)
}

// LedgerStats summarizes a ledger at a point in time.
type LedgerStats struct {
	TotalCost      float64 `json:"total_cost"`
	CallCount      int     `json:"call_count"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Elapsed returns the elapsed time as a duration.
func (s LedgerStats) Elapsed() time.Duration {
	return time.Duration(s.ElapsedSeconds * float64(time.Second))
}

package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-agent-meter/internal/core/model"
)

// RateEntry is one line of a rate listing
type RateEntry struct {
	Key    string  `json:"key"`
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// WriteRates lists rate entries in the given output format. Prices are per
// million units.
func WriteRates(w io.Writer, format string, entries []RateEntry) error {
	switch format {
	case "table", "":
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Key, fmt.Sprintf("%.4f", e.Input), fmt.Sprintf("%.4f", e.Output)})
		}
		return writeTable(w, []string{"Service/Model", "Input $/M", "Output $/M"}, rows, nil)

	case "json":
		if entries == nil {
			entries = []RateEntry{}
		}
		data, err := sonic.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err

	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"key", "input_per_million", "output_per_million"}); err != nil {
			return err
		}
		for _, e := range entries {
			if err := cw.Write([]string{e.Key, fmt.Sprintf("%g", e.Input), fmt.Sprintf("%g", e.Output)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// NewRateEntry builds a listing entry
func NewRateEntry(key string, rate model.Rate) RateEntry {
	return RateEntry{Key: key, Input: rate.Input, Output: rate.Output}
}

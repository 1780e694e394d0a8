package formatter

import (
	"fmt"
	"io"
	"sort"

	"github.com/penwyp/go-agent-meter/internal/core/model"
)

// Row aggregates the calls of one service/model pair
type Row struct {
	Key         string  `json:"key"`
	Service     string  `json:"service"`
	Model       string  `json:"model"`
	Calls       int     `json:"calls"`
	InputUnits  int64   `json:"input_units"`
	OutputUnits int64   `json:"output_units"`
	Cost        float64 `json:"cost"`
}

// Report is a session summary ready for output
type Report struct {
	SessionID      string  `json:"session_id"`
	Rows           []Row   `json:"rows"`
	TotalCost      float64 `json:"total_cost"`
	CallCount      int     `json:"call_count"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Formatter writes a report
type Formatter interface {
	Format(w io.Writer, report Report) error
}

// NewFormatter returns the formatter for an output name
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "table", "":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
}

// BuildReport groups records by rate key. Rows are sorted by cost, highest
// first, then by key. Totals come from stats so they match the ledger exactly.
func BuildReport(sessionID string, records []model.CallRecord, stats model.LedgerStats) Report {
	byKey := make(map[string]*Row)
	for _, r := range records {
		key := r.Key()
		row, ok := byKey[key]
		if !ok {
			row = &Row{Key: key, Service: r.Service, Model: r.Model}
			byKey[key] = row
		}
		row.Calls++
		row.InputUnits += r.InputUnits
		row.OutputUnits += r.OutputUnits
		row.Cost += r.Cost
	}

	rows := make([]Row, 0, len(byKey))
	for _, row := range byKey {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Cost != rows[j].Cost {
			return rows[i].Cost > rows[j].Cost
		}
		return rows[i].Key < rows[j].Key
	})

	return Report{
		SessionID:      sessionID,
		Rows:           rows,
		TotalCost:      stats.TotalCost,
		CallCount:      stats.CallCount,
		ElapsedSeconds: stats.ElapsedSeconds,
	}
}

func (r Report) totalUnits() (input, output int64) {
	for _, row := range r.Rows {
		input += row.InputUnits
		output += row.OutputUnits
	}
	return input, output
}

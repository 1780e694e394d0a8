package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Service", "Model", "Calls", "Input", "Output", "Cost (USD)"}); err != nil {
		return err
	}

	for _, row := range report.Rows {
		record := []string{
			row.Service,
			row.Model,
			fmt.Sprintf("%d", row.Calls),
			fmt.Sprintf("%d", row.InputUnits),
			fmt.Sprintf("%d", row.OutputUnits),
			fmt.Sprintf("%.6f", row.Cost),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

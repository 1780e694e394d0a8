package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-agent-meter/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"Service/Model", "Calls", "Input", "Output", "Cost (USD)"},
	}
}

func (f *TableFormatter) Format(w io.Writer, report Report) error {
	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, []string{
			row.Key,
			fmt.Sprintf("%d", row.Calls),
			util.FormatNumber(row.InputUnits),
			util.FormatNumber(row.OutputUnits),
			util.FormatCost(row.Cost, 4),
		})
	}

	input, output := report.totalUnits()
	total := []string{
		"Total",
		fmt.Sprintf("%d", report.CallCount),
		util.FormatNumber(input),
		util.FormatNumber(output),
		util.FormatCost(report.TotalCost, 4),
	}

	return writeTable(w, f.headers, rows, total)
}

// writeTable prints a box-drawn table. The first column is left aligned,
// the rest right aligned. total may be nil.
func writeTable(w io.Writer, headers []string, rows [][]string, total []string) error {
	widths := make([]int, len(headers))
	measure := func(values []string) {
		for i, value := range values {
			if width := util.GetDisplayWidth(value); width > widths[i] {
				widths[i] = width
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}
	if total != nil {
		measure(total)
	}

	var b strings.Builder
	border(&b, widths, "┌", "┬", "┐")
	line(&b, headers, widths)
	border(&b, widths, "├", "┼", "┤")
	for _, row := range rows {
		line(&b, row, widths)
	}
	if total != nil {
		border(&b, widths, "├", "┼", "┤")
		line(&b, total, widths)
	}
	border(&b, widths, "└", "┴", "┘")

	_, err := io.WriteString(w, b.String())
	return err
}

func border(b *strings.Builder, widths []int, left, middle, right string) {
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right + "\n")
}

func line(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		if i == 0 {
			b.WriteString(" " + util.PadRight(value, widths[i]) + " │")
		} else {
			b.WriteString(" " + util.PadLeft(value, widths[i]) + " │")
		}
	}
	b.WriteString("\n")
}

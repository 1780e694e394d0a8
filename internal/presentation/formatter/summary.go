package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-agent-meter/internal/core/model"
	"github.com/penwyp/go-agent-meter/internal/util"
)

// SummaryFormatter writes a human-readable session summary
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(w io.Writer, report Report) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	b.WriteString("Agent Usage Summary\n")
	b.WriteString(rule + "\n\n")

	if report.SessionID != "" {
		fmt.Fprintf(&b, "Session: %s\n", report.SessionID)
	}
	elapsed := model.LedgerStats{ElapsedSeconds: report.ElapsedSeconds}.Elapsed()
	fmt.Fprintf(&b, "Elapsed: %s\n\n", util.FormatElapsed(elapsed))

	if report.CallCount == 0 {
		b.WriteString("No calls recorded\n\n")
		b.WriteString(rule + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	input, output := report.totalUnits()
	b.WriteString("Usage:\n")
	fmt.Fprintf(&b, "  Calls: %d\n", report.CallCount)
	fmt.Fprintf(&b, "  Input Units: %s\n", util.FormatNumber(input))
	fmt.Fprintf(&b, "  Output Units: %s\n\n", util.FormatNumber(output))

	b.WriteString("Cost:\n")
	fmt.Fprintf(&b, "  Total Cost: %s USD\n\n", util.FormatCurrency(report.TotalCost))

	b.WriteString("By Service/Model:\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "  %s %s calls, %s\n",
			util.PadRight(row.Key+":", 32),
			util.PadLeft(fmt.Sprintf("%d", row.Calls), 5),
			util.FormatCost(row.Cost, 4))
	}

	b.WriteString("\n" + rule + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

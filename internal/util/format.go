package util

import (
	"fmt"
	"strings"
	"time"
)

// FormatNumber shortens large counts: 1500 -> 1.5K, 2500000 -> 2.5M
func FormatNumber(n int64) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 1000000:
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// FormatCost renders an amount with a dollar sign and a fixed number of decimals
func FormatCost(amount float64, decimals int) string {
	return fmt.Sprintf("$%.*f", decimals, amount)
}

// FormatElapsed renders a duration as "Xm Ys". Minutes are not wrapped into hours.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// FormatCurrency formats with thousands separators and two decimals: $1,234.57
func FormatCurrency(amount float64) string {
	str := fmt.Sprintf("%.2f", amount)

	sign := ""
	if strings.HasPrefix(str, "-") {
		sign = "-"
		str = str[1:]
	}

	intPart, decPart, _ := strings.Cut(str, ".")
	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	return fmt.Sprintf("%s$%s.%s", sign, intPart, decPart)
}

package util

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBold   = "\033[1m"

	ClearScreen     = "\033[2J"
	ClearScrollback = "\033[3J"
	MoveCursorHome  = "\033[H"
)

// Progress glyphs
const (
	GlyphFilled    = "█"
	GlyphEmpty     = "░"
	GlyphCheck     = "✓"
	GlyphHourglass = "⏳"
	GlyphDone      = "✅"
	GlyphCost      = "💰"
)

// GetDisplayWidth calculates the terminal column width of a string
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadRight pads text with spaces to the given display width
func PadRight(text string, width int) string {
	return runewidth.FillRight(text, width)
}

// PadLeft right-aligns text within the given display width
func PadLeft(text string, width int) string {
	return runewidth.FillLeft(text, width)
}

// ProgressBar renders width glyphs, round(width*pct/100) of them filled.
// pct is clamped to [0, 100].
func ProgressBar(pct int, width int) string {
	if width <= 0 {
		return ""
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(math.Round(float64(width) * float64(pct) / 100))
	return strings.Repeat(GlyphFilled, filled) + strings.Repeat(GlyphEmpty, width-filled)
}

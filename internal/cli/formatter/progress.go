package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// BarScale decides how a bar is coloured.
type BarScale int

const (
	// HigherIsBetter colours high fractions green (probabilities, completion).
	HigherIsBetter BarScale = iota
	// HigherIsWorse colours high fractions red (utilisation).
	HigherIsWorse
)

// RenderProgress renders a bar like [████░░░░] 45%. The fraction is clamped
// to [0,1] and the width to at least 2.
func RenderProgress(pct float64, width int, scale BarScale) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	good := pct
	if scale == HigherIsWorse {
		good = 1 - pct
	}
	style := StyleGreen
	if good < 0.33 {
		style = StyleRed
	} else if good < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

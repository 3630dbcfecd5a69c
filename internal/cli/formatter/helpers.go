package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/horizon/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatDays renders a day count with one decimal, dropping a trailing ".0".
func FormatDays(days float64) string {
	s := fmt.Sprintf("%.1f", days)
	s = strings.TrimSuffix(s, ".0")
	return s + "d"
}

// FormatPercent renders a fraction in [0,1] as a whole percentage.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// FormatDeviation renders a signed day deviation, coloured late or early.
func FormatDeviation(days float64) string {
	if days > 0 {
		return StyleRed.Render("+" + FormatDays(days))
	}
	if days < 0 {
		return StyleGreen.Render("-" + FormatDays(-days))
	}
	return StyleGreen.Render("on target")
}

// ResourceTypeBadge renders a capitalised, purple resource type.
func ResourceTypeBadge(t domain.ResourceType) string {
	if t == "" {
		return StyleDim.Render("--")
	}
	s := string(t)
	return StylePurple.Render(strings.ToUpper(s[:1]) + s[1:])
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// HumanTimestamp returns a relative timestamp measured from now.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/horizon/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// WarningColor returns the style for an early-warning status.
func WarningColor(status domain.WarningStatus) lipgloss.Style {
	switch status {
	case domain.WarningRed:
		return StyleRed
	case domain.WarningYellow:
		return StyleYellow
	case domain.WarningGreen:
		return StyleGreen
	default:
		return StyleDim
	}
}

// WarningIndicator renders a status such as "● RED".
func WarningIndicator(status domain.WarningStatus) string {
	if status == "" {
		return StyleDim.Render("● UNKNOWN")
	}
	return WarningColor(status).Render("● " + strings.ToUpper(string(status)))
}

// ParallelRiskIndicator renders a parallel risk value with its level.
func ParallelRiskIndicator(risk float64, level domain.ParallelRiskLevel) string {
	style := StyleGreen
	switch level {
	case domain.ParallelCritical:
		style = StyleRed
	case domain.ParallelWarning:
		style = StyleYellow
	}
	return style.Render(fmt.Sprintf("%.2f (%s)", risk, level))
}

// ActionBadge renders an allocation action.
func ActionBadge(action domain.Action) string {
	switch action {
	case domain.ActionAssignSeniorDeveloper:
		return StylePurple.Render("▲ " + string(action))
	case domain.ActionScaleInfrastructure:
		return StyleBlue.Render("▲ " + string(action))
	default:
		return StyleDim.Render("● " + string(action))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

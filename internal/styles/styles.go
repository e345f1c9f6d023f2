// Package styles holds the lipgloss palette shared by the console and
// comparison formatters.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}
	ColorAccent    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			MarginTop(1)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Width(28)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true)

	MetricPositiveStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	MetricNegativeStyle = lipgloss.NewStyle().
				Foreground(ColorDanger).
				Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ColorBorder)

	TableCellStyle = lipgloss.NewStyle()

	TableHighlightStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorAccent)
)

// MetricTrendStyle picks the positive or negative metric style
func MetricTrendStyle(isPositive bool) lipgloss.Style {
	if isPositive {
		return MetricPositiveStyle
	}
	return MetricNegativeStyle
}

// TrendIndicator returns an arrow for the direction of a change
func TrendIndicator(isPositive bool) string {
	if isPositive {
		return "▲"
	}
	return "▼"
}

// ConfidenceStyle colours a confidence score: green when the plan holds,
// amber when it is marginal, red below that.
func ConfidenceStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return MetricPositiveStyle
	case score >= 50:
		return WarningStyle.Bold(true)
	default:
		return MetricNegativeStyle
	}
}

// PadRight renders s left aligned in a cell of the given width
func PadRight(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

// PadLeft renders s right aligned in a cell of the given width
func PadLeft(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(s)
}

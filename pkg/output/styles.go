package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color definitions using AdaptiveColor for automatic light/dark mode switching
var (
	PrimaryColor = lipgloss.AdaptiveColor{Light: "#007ACC", Dark: "#3D9EFF"}
	MutedColor   = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#A0A8B0"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#FFC107", Dark: "#FFD54F"}
	HeadingColor = lipgloss.AdaptiveColor{Light: "#212529", Dark: "#F8F9FA"}
	BorderColor  = lipgloss.AdaptiveColor{Light: "#DEE2E6", Dark: "#495057"}
)

// styles are bound to one lipgloss renderer so color detection follows the
// output writer, not stdout.
type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	muted   lipgloss.Style
	ext     lipgloss.Style
	plugin  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	errorS  lipgloss.Style
	border  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Foreground(HeadingColor).Bold(true),
		header:  r.NewStyle().Foreground(HeadingColor).Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		muted:   r.NewStyle().Foreground(MutedColor),
		ext:     r.NewStyle().Foreground(PrimaryColor),
		plugin:  r.NewStyle().Foreground(SuccessColor),
		success: r.NewStyle().Foreground(SuccessColor).Bold(true),
		warning: r.NewStyle().Foreground(WarningColor).Bold(true),
		errorS:  r.NewStyle().Foreground(ErrorColor).Bold(true),
		border:  r.NewStyle().Foreground(BorderColor),
	}
}

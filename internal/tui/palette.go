package tui

import (
	"github.com/charmbracelet/lipgloss"

	"epsdm/internal/processor"
)

var (
	ColorInk     = lipgloss.Color("#E5E9F0")
	ColorDim     = lipgloss.Color("#7A8291")
	ColorAccent  = lipgloss.Color("#88C0D0")
	ColorSuccess = lipgloss.Color("#A3BE8C")
	ColorWarn    = lipgloss.Color("#EBCB8B")
	ColorError   = lipgloss.Color("#BF616A")
)

// StateStyle colours an archive state for terminal output.
func StateStyle(s processor.ArchiveState) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch s {
	case processor.StateCompleted:
		return style.Foreground(ColorSuccess)
	case processor.StateCancelled:
		return style.Foreground(ColorWarn)
	case processor.StateFailed:
		return style.Foreground(ColorError).Bold(true)
	default:
		return style.Foreground(ColorDim)
	}
}

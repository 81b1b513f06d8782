package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"epsdm/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
}

// BatchRows lists the figures printed once a batch finishes.
func BatchRows(b processor.BatchStats, output string) []SummaryRow {
	rows := []SummaryRow{
		{Label: "Started", Value: b.StartedAt.Format(time.DateTime)},
		{Label: "Finished", Value: b.FinishedAt.Format(time.DateTime)},
		{Label: "Archives processed", Value: fmt.Sprintf("%d/%d", b.ArchivesProcessed, b.ArchivesTotal)},
		{Label: "Archives failed", Value: fmt.Sprintf("%d", b.ArchivesFailed)},
		{Label: "EPS files", Value: fmt.Sprintf("%d", b.TotalFiles)},
		{Label: "Decoded", Value: fmt.Sprintf("%d", b.Successful)},
		{Label: "Failed", Value: fmt.Sprintf("%d", b.Failed)},
		{Label: "Cache hits", Value: fmt.Sprintf("%d", b.CacheHits)},
		{Label: "Elapsed", Value: b.Elapsed.Round(time.Millisecond).String()},
		{Label: "Mean per file", Value: b.MeanPerFile().Round(time.Microsecond).String()},
		{Label: "Success rate", Value: fmt.Sprintf("%.1f%%", b.SuccessRate())},
	}
	if output != "" {
		rows = append(rows, SummaryRow{Label: "Results written to", Value: output})
	}
	if b.Cancelled {
		rows = append(rows, SummaryRow{Label: "Status", Value: "cancelled"})
	}
	return rows
}

// ArchiveLine is the one-line report for a finished archive.
func ArchiveLine(a processor.ArchiveStats) string {
	state := StateStyle(a.State).Render(padRight(a.State.String(), 9))
	line := fmt.Sprintf("%s %s  %d/%d decoded  %s",
		state, labelStyle.Render(a.Name), a.Successful, a.TotalFiles,
		dimStyle.Render(a.Elapsed.Round(time.Millisecond).String()))
	if a.Err != nil {
		line += "  " + errorStyle.Render(a.Err.Error())
	}
	return line
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
)

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epsdm/internal/processor"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestModelTracksEvents(t *testing.T) {
	m := NewModel(nil, nil)
	m = update(t, m, eventMsg{Kind: processor.EventArchiveStarted, Archive: "labels", ArchiveIndex: 0, ArchiveCount: 2, Total: 10})
	m = update(t, m, eventMsg{Kind: processor.EventFileProgress, Completed: 4, Total: 10})

	view := m.View()
	assert.Contains(t, view, "Archive 1/2: labels")
	assert.Contains(t, view, "Files: 4/10")

	m = update(t, m, eventMsg{Kind: processor.EventArchiveCompleted, Stats: processor.ArchiveStats{Successful: 9, Failed: 1}})
	m = update(t, m, eventMsg{Kind: processor.EventError, Message: "labels: result write failed"})

	view = m.View()
	assert.Contains(t, view, "Decoded: 9")
	assert.Contains(t, view, "failed:1")
	assert.Contains(t, view, "result write failed")
}

func TestModelCancelOnce(t *testing.T) {
	calls := 0
	m := NewModel(nil, func() { calls++ })

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.Equal(t, 1, calls)
	assert.Contains(t, m.View(), "finishing in-flight files")
}

func TestModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan processor.Event)
	close(events)

	m := NewModel(events, nil)
	msg := m.Init()()
	assert.IsType(t, doneMsg{}, msg)

	m = update(t, m, msg)
	assert.Empty(t, m.View())
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary([]SummaryRow{
		{Label: "EPS files", Value: "12"},
		{Label: "Decoded", Value: "11"},
	})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "EPS files")
	assert.Contains(t, lines[2], "11")
}

func TestBatchRows(t *testing.T) {
	rows := BatchRows(processor.BatchStats{TotalFiles: 4, Successful: 3, Cancelled: true}, "Out")
	values := map[string]string{}
	for _, r := range rows {
		values[r.Label] = r.Value
	}
	assert.Equal(t, "75.0%", values["Success rate"])
	assert.Equal(t, "Out", values["Results written to"])
	assert.Equal(t, "cancelled", values["Status"])
}

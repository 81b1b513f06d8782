package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"epsdm/internal/processor"
)

type Model struct {
	events      <-chan processor.Event
	cancel      func()
	started     time.Time
	width       int
	archive     string
	archiveIdx  int
	archiveCnt  int
	archiveDone int
	filesDone   int
	filesTotal  int
	successful  int
	failed      int
	lastError   string
	cancelling  bool
	quitting    bool
}

type doneMsg struct{}

type eventMsg processor.Event

// NewModel renders events until the channel closes. cancel is called when
// the user asks to stop.
func NewModel(events <-chan processor.Event, cancel func()) Model {
	return Model{events: events, cancel: cancel, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForEvents(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.apply(processor.Event(msg))
		return m, listenForEvents(m.events)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if !m.cancelling {
				m.cancelling = true
				if m.cancel != nil {
					m.cancel()
				}
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) apply(ev processor.Event) {
	switch ev.Kind {
	case processor.EventArchiveStarted:
		m.archive = ev.Archive
		m.archiveIdx = ev.ArchiveIndex
		m.archiveCnt = ev.ArchiveCount
		m.filesDone = 0
		m.filesTotal = ev.Total
	case processor.EventFileProgress:
		m.filesDone = ev.Completed
		m.filesTotal = ev.Total
	case processor.EventArchiveCompleted:
		m.archiveDone++
		m.successful += ev.Stats.Successful
		m.failed += ev.Stats.Failed
	case processor.EventError:
		m.lastError = ev.Message
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)
	archive := m.archive
	if archive == "" {
		archive = "-"
	}

	lines := []string{
		titleStyle.Render("epsdm"),
		labelStyle.Render(fmt.Sprintf("Archive %d/%d: %s", min(m.archiveIdx+1, max(m.archiveCnt, 1)), m.archiveCnt, filepath.Base(archive))),
		barStyle.Render(renderBar(barWidth, ratio(m.archiveDone, m.archiveCnt))),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", m.filesDone, m.filesTotal)),
		barStyle.Render(renderBar(barWidth, ratio(m.filesDone, m.filesTotal))),
		labelStyle.Render(fmt.Sprintf("Decoded: %d", m.successful)) + dimStyle.Render(fmt.Sprintf("  failed:%d", m.failed)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
	}
	if m.lastError != "" {
		lines = append(lines, errorStyle.Render("Last error: "+m.lastError))
	}
	if m.cancelling {
		lines = append(lines, warnStyle.Render("Stopping: finishing in-flight files..."))
	} else {
		lines = append(lines, dimStyle.Render("q to stop"))
	}

	return strings.Join(lines, "\n")
}

func listenForEvents(events <-chan processor.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func ratio(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	r := float64(done) / float64(total)
	if r > 1 {
		r = 1
	}
	return r
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	barStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
	errorStyle = lipgloss.NewStyle().Foreground(ColorError)
)

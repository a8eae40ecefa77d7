// Package watch implements the live status dashboard behind
// `mailstackctl status --watch`. It polls the service manager and port
// checker on a fixed interval and renders a small table plus the most
// recent log lines.
package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mailstackctl/internal/orchestrator"
	"mailstackctl/pkg/logging"
)

// ServiceRow is one rendered line of the dashboard.
type ServiceRow struct {
	Name      string
	Essential bool
	Active    bool
	Ports     []orchestrator.PortStatus
}

// StatusFetcher gathers the current rows; it runs once per poll tick.
type StatusFetcher func(ctx context.Context) []ServiceRow

const maxLogLines = 8

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleFail    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleLogWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type statusMsg []ServiceRow
type tickMsg time.Time
type logMsg logging.LogEntry

// Model is the bubbletea model for the dashboard.
type Model struct {
	spinner  spinner.Model
	fetch    StatusFetcher
	interval time.Duration
	logCh    <-chan logging.LogEntry

	rows     []ServiceRow
	logs     []logging.LogEntry
	width    int
	loaded   bool
	quitting bool
}

// NewModel builds the dashboard model. logCh may be nil when log streaming
// is not wanted (tests).
func NewModel(fetch StatusFetcher, interval time.Duration, logCh <-chan logging.LogEntry) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	return Model{
		spinner:  sp,
		fetch:    fetch,
		interval: interval,
		logCh:    logCh,
		width:    80,
	}
}

// Init starts the spinner, the first poll and the log pump.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.fetchCmd()}
	if m.logCh != nil {
		cmds = append(cmds, m.waitForLog())
	}
	return tea.Batch(cmds...)
}

// Update handles polling, log delivery and quit keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case statusMsg:
		m.rows = msg
		m.loaded = true
		return m, m.scheduleTick()

	case tickMsg:
		return m, m.fetchCmd()

	case logMsg:
		m.logs = append(m.logs, logging.LogEntry(msg))
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		return m, m.waitForLog()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("mailstackctl status") + " " + styleDim.Render(fmt.Sprintf("(refresh %s, q to quit)", m.interval)) + "\n\n")

	if !m.loaded {
		b.WriteString(m.spinner.View() + " gathering service state...\n")
		return b.String()
	}

	b.WriteString(renderTable(m.rows, m.width))

	if len(m.logs) > 0 {
		b.WriteString("\n" + styleDim.Render(strings.Repeat("─", min(m.width, 60))) + "\n")
		for _, e := range m.logs {
			b.WriteString(renderLogLine(e, m.width) + "\n")
		}
	}
	return b.String()
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.interval)
		defer cancel()
		return statusMsg(m.fetch(ctx))
	}
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForLog() tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-m.logCh
		if !ok {
			return nil
		}
		return logMsg(entry)
	}
}

func renderTable(rows []ServiceRow, width int) string {
	var b strings.Builder
	b.WriteString(styleDim.Render(fmt.Sprintf("  %-12s %-8s %s", "SERVICE", "UNIT", "PORTS")) + "\n")

	for _, row := range rows {
		// Pad before styling: ANSI escapes confuse printf width counting.
		unit := styleFail.Render(fmt.Sprintf("%-8s", "stopped"))
		if row.Active {
			unit = styleOK.Render(fmt.Sprintf("%-8s", "active"))
		}

		var ports []string
		for _, p := range row.Ports {
			cell := fmt.Sprintf("%d", p.Port)
			if p.Label != "" {
				cell = fmt.Sprintf("%d/%s", p.Port, p.Label)
			}
			if p.Bound {
				ports = append(ports, styleOK.Render(cell))
			} else {
				ports = append(ports, styleFail.Render(cell))
			}
		}

		name := row.Name
		if row.Essential {
			name += "*"
		}
		line := fmt.Sprintf("  %-12s %s %s", Truncate(name, 12), unit, strings.Join(ports, " "))
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + styleDim.Render("  * essential service") + "\n")
	return b.String()
}

func renderLogLine(e logging.LogEntry, width int) string {
	line := Truncate(fmt.Sprintf("%s %s %s: %s", e.Timestamp.Format("15:04:05"), e.Level, e.Subsystem, e.Message), width)
	switch e.Level {
	case logging.LevelError:
		return styleFail.Render(line)
	case logging.LevelWarn:
		return styleLogWarn.Render(line)
	default:
		return styleDim.Render(line)
	}
}

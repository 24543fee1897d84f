// Package ui provides the Bubble Tea console for the flash loan engine.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Anuj0x/AaveFlashToolkit/pkg/ui/components"
)

// ConnectionInfo holds a collaborator's state.
type ConnectionInfo struct {
	Connected bool
	Latency   time.Duration
	LastSeen  time.Time
}

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "starting", "done", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseStartup   Phase = "startup"
	PhaseDashboard Phase = "dashboard"
)

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the console.
type Model struct {
	stats      *components.StatsComponent
	executions *components.ExecutionsComponent
	status     *components.StatusComponent

	phase       Phase
	startupTime time.Time

	ready    bool
	quitting bool
	width    int
	height   int

	lastUpdate time.Time
	errors     []ErrorEntry
	logs       []string

	startupComplete bool
	startupSteps    map[string]*StartupStep
	stepOrder       []string
}

// New creates a new console model.
func New() Model {
	return Model{
		stats:      components.NewStatsComponent(),
		executions: components.NewExecutionsComponent(50),
		status:     components.NewStatusComponent(),
		phase:      PhaseStartup,
		logs:       make([]string, 0, 10),
		errors:     make([]ErrorEntry, 0, 3),
		startupSteps: map[string]*StartupStep{
			"config":   {Name: "Loading configuration", Status: "pending"},
			"ledger":   {Name: "Opening ledger and store", Status: "pending"},
			"venues":   {Name: "Seeding venue pools", Status: "pending"},
			"facility": {Name: "Funding credit facility", Status: "pending"},
			"feed":     {Name: "Connecting route feed", Status: "pending"},
		},
		stepOrder:   []string{"config", "ledger", "venues", "facility", "feed"},
		startupTime: time.Now(),
	}
}

// Init initializes the console model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "c":
			m.executions.Clear()
			return m, nil
		case "up", "k":
			m.executions.ScrollUp()
			return m, nil
		case "down", "j":
			m.executions.ScrollDown()
			return m, nil
		case "e":
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		return m, tickCmd()

	case ExecutionMsg:
		m.executions.Add(components.ExecutionRow{
			Timestamp: msg.Timestamp.Format("15:04:05"),
			Asset:     msg.Asset,
			Variant:   msg.Variant,
			Amount:    msg.Amount,
			Profit:    msg.Profit,
			Hops:      msg.Hops,
			Committed: msg.Committed,
			ErrorCode: msg.ErrorCode,
		})
		m.lastUpdate = time.Now()

	case StatsMsg:
		m.stats.Update(components.Stats{
			Executions:       msg.Executions,
			Committed:        msg.Committed,
			Aborted:          msg.Aborted,
			CumulativeProfit: msg.CumulativeProfit,
			Paused:           msg.Paused,
		})
		m.lastUpdate = time.Now()

	case ConnectionStatusMsg:
		m.status.Update(components.ConnectionStatus{
			Name:       msg.Name,
			Connected:  msg.Connected,
			Latency:    msg.Latency,
			LastUpdate: time.Now(),
		})
		m.lastUpdate = time.Now()

	case ErrorMsg:
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		allDone := true
		for _, step := range m.startupSteps {
			if step.Status != "done" {
				allDone = false
				break
			}
		}
		if allDone {
			m.startupComplete = true
			m.phase = PhaseDashboard
		}
	}

	return m, nil
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the console.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}
	if m.phase == PhaseStartup && !m.startupComplete {
		return m.renderStartupScreen()
	}

	var b strings.Builder

	title := TitleStyle.Render(" ⚡ Flash Loan Arbitrage Engine ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	leftCol := m.stats.View() + "\n\n" + m.status.View()
	rightCol := m.executions.View()

	if m.width > 120 {
		left := BoxStyle.Width(m.width/3 - 2).Render(leftCol)
		right := BoxStyle.Width(2*m.width/3 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")

	if len(m.logs) > 0 {
		b.WriteString(MutedValue.Render("RECENT LOGS"))
		b.WriteString("\n")
		for _, line := range m.logs {
			b.WriteString(MutedValue.Render("  " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("q: quit • c: clear • e: clear errors • ↑↓: scroll"))

	return b.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF"))

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	successStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	startingStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	failedStyle := lipgloss.NewStyle().Foreground(ColorDanger)

	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  ⚡ Flash Loan Arbitrage Engine"))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	for _, key := range m.stepOrder {
		step, ok := m.startupSteps[key]
		if !ok {
			continue
		}

		var icon, statusText string
		var style lipgloss.Style

		switch step.Status {
		case "done":
			icon = "✓"
			statusText = "Ready"
			style = successStyle
		case "starting":
			spinners := []string{"◐", "◓", "◑", "◒"}
			idx := int(time.Since(m.startupTime).Milliseconds()/200) % len(spinners)
			icon = spinners[idx]
			statusText = "Starting..."
			style = startingStyle
		case "failed":
			icon = "✗"
			statusText = "Failed"
			style = failedStyle
		default:
			icon = "○"
			statusText = "Pending"
			style = mutedStyle
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			style.Render(icon),
			mutedStyle.Render(step.Name),
			style.Render(statusText),
		))
	}

	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		indicator := ""
		if ago < 2*time.Second {
			indicator = "▪"
		}
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago %s", ago, indicator)))
	} else {
		parts = append(parts, MutedValue.Render("Waiting for first cycle..."))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}

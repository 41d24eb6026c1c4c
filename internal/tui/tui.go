package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/dicetracker/internal/console"
	"github.com/lox/dicetracker/internal/report"
	"github.com/lox/dicetracker/internal/session"
	"github.com/lox/dicetracker/internal/simulator"
	"github.com/lox/dicetracker/internal/tally"
)

// Focusable form fields, in tab order
const (
	focusPlayers = iota
	focusMode
	focusRoll
	focusOutput
	focusCount
)

// Config controls the form
type Config struct {
	Players           int // pre-fills the player field and starts a session
	Threshold         float64
	MinRollsPerPlayer int
	Simulator         simulator.Config
}

// Model is the Bubble Tea model for the dice tracker form
type Model struct {
	config Config
	logger *log.Logger

	// UI components
	playersInput textinput.Model
	rollInput    textinput.Model
	output       viewport.Model

	// State
	session  *session.Session
	sim      *simulator.Simulator
	mode     console.Mode
	lines    []string
	errMsg   string
	focus    int
	quitting bool

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// NewModel creates a form model
func NewModel(config Config, logger *log.Logger) *Model {
	return NewModelWithOptions(config, logger, false)
}

// NewModelWithOptions creates a form model with test mode option
func NewModelWithOptions(config Config, logger *log.Logger, testMode bool) *Model {
	if config.Threshold <= 0 {
		config.Threshold = tally.DefaultThreshold
	}
	// Rounds are paced by the UI, not the simulator
	config.Simulator.Delay = 0
	if config.Simulator.Logger == nil {
		config.Simulator.Logger = logger
	}

	vp := viewport.New(10, 5)
	vp.SetContent("")

	players := textinput.New()
	players.Placeholder = "number of players"
	players.CharLimit = 4
	players.Width = 20
	players.Prompt = "> "
	players.PromptStyle = lipgloss.NewStyle().Foreground(focusedBorder).Bold(true)

	roll := textinput.New()
	roll.Placeholder = "sum of two dice (2-12)"
	roll.CharLimit = 3
	roll.Width = 30
	roll.Prompt = "> "
	roll.PromptStyle = lipgloss.NewStyle().Foreground(focusedBorder).Bold(true)

	m := &Model{
		config:       config,
		logger:       logger.WithPrefix("tui"),
		playersInput: players,
		rollInput:    roll,
		output:       vp,
		mode:         console.Manual,
		sim:          simulator.New(config.Simulator),
		testMode:     testMode,
	}

	if config.Players > 0 {
		m.playersInput.SetValue(strconv.Itoa(config.Players))
		m.SubmitPlayers(m.playersInput.Value())
	} else {
		m.setFocus(focusPlayers)
	}
	return m
}

// Init initializes the form
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the form
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.setFocus((m.focus + 1) % focusCount)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, nil
		case "ctrl+r":
			m.Reset()
			return m, nil
		case "ctrl+a":
			m.RunAutomatic()
			return m, nil
		case "enter":
			switch m.focus {
			case focusPlayers:
				m.SubmitPlayers(m.playersInput.Value())
			case focusMode:
				if m.mode == console.Automatic {
					m.RunAutomatic()
				} else {
					m.setFocus(focusRoll)
				}
			case focusRoll:
				m.SubmitRoll(m.rollInput.Value())
				m.rollInput.SetValue("")
			}
			return m, nil
		case "left", "right", " ":
			if m.focus == focusMode {
				m.ToggleMode()
				return m, nil
			}
		case "up", "k", "down", "j", "pgup", "pgdown", "home", "end":
			if m.focus == focusOutput {
				m.scroll(msg.String())
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusPlayers:
		m.playersInput, cmd = m.playersInput.Update(msg)
		cmds = append(cmds, cmd)
	case focusRoll:
		m.rollInput, cmd = m.rollInput.Update(msg)
		cmds = append(cmds, cmd)
	case focusOutput:
		m.output, cmd = m.output.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) scroll(key string) {
	switch key {
	case "up", "k":
		m.output.ScrollUp(1)
	case "down", "j":
		m.output.ScrollDown(1)
	case "pgup":
		m.output.HalfPageUp()
	case "pgdown":
		m.output.HalfPageDown()
	case "home":
		m.output.GotoTop()
	case "end":
		m.output.GotoBottom()
	}
}

func (m *Model) setFocus(focus int) {
	m.focus = focus
	m.playersInput.Blur()
	m.rollInput.Blur()
	switch focus {
	case focusPlayers:
		m.playersInput.Focus()
	case focusRoll:
		m.rollInput.Focus()
	}
}

// SubmitPlayers starts a new session for the entered player count.
// Invalid input shows an error and leaves any current session alone.
func (m *Model) SubmitPlayers(input string) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		m.showError("Invalid input. Please enter a number.")
		return
	}

	if n < 1 {
		m.showError("Must be at least 1 player.")
		return
	}
	sess, err := session.New(n, m.config.MinRollsPerPlayer, tally.NewEngine())
	if err != nil {
		m.showError(err.Error())
		return
	}

	m.logger.Info("Starting session", "players", n)
	m.session = sess
	m.errMsg = ""
	m.ClearLog()
	m.AddLogEntry(fmt.Sprintf("New game for %d players. Interpretation appears after %d total rolls.", n, sess.MinRolls()))
	m.setFocus(focusMode)
}

// ToggleMode switches between manual and automatic rolling
func (m *Model) ToggleMode() {
	if m.mode == console.Manual {
		m.mode = console.Automatic
	} else {
		m.mode = console.Manual
	}
}

// SetMode selects the rolling mode
func (m *Model) SetMode(mode console.Mode) {
	m.mode = mode
}

// SubmitRoll records a manually entered sum for the current player
func (m *Model) SubmitRoll(input string) {
	if m.session == nil {
		m.showError("Enter the number of players first.")
		return
	}

	sum, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		m.showError("Invalid input. Please enter a number.")
		return
	}
	if !tally.Valid(sum) {
		m.showError(fmt.Sprintf("Invalid sum. Must be between %d and %d.", tally.MinSum, tally.MaxSum))
		return
	}

	turn, err := m.session.Roll(sum)
	if err != nil {
		m.showError(err.Error())
		return
	}
	m.errMsg = ""
	m.logger.Debug("Recorded roll", "player", turn.Player, "round", turn.Round, "sum", sum)

	m.AddLogEntry(fmt.Sprintf("Player %d rolled a %d", turn.Player, sum))
	m.appendReport(m.session.ReportReady())
}

// RunAutomatic simulates a full automatic game into the current session
func (m *Model) RunAutomatic() {
	if m.session == nil {
		m.showError("Enter the number of players first.")
		return
	}
	m.errMsg = ""

	// Headers follow the session's rounds, which may already be part way
	// through when a manual game switches to automatic
	var lines []string
	lastRound := 0
	_, err := m.sim.Run(context.Background(), m.session, simulator.Hooks{
		RoundStarted: func(round, rounds int) {
			if round == 1 {
				lines = append(lines, fmt.Sprintf("Automatic Mode: Simulating %d rounds for %d players...", rounds, m.session.Players()))
			}
		},
		Rolled: func(turn session.Turn, sum int) {
			if turn.Round != lastRound {
				lines = append(lines, fmt.Sprintf("--- Round %d ---", turn.Round))
				lastRound = turn.Round
			}
			lines = append(lines, fmt.Sprintf("Player %d rolled a %d", turn.Player, sum))
		},
	})
	m.addLogEntries(lines...)
	if err != nil {
		m.logger.Error("Automatic game failed", "error", err)
		m.showError(err.Error())
		return
	}
	m.appendReport(true)
}

// Reset clears the session tally and the displayed output
func (m *Model) Reset() {
	m.logger.Info("Resetting session")
	if m.session != nil {
		m.session.Reset()
	}
	m.errMsg = ""
	m.rollInput.SetValue("")
	m.ClearLog()
	if m.session != nil {
		m.AddLogEntry(fmt.Sprintf("Reset. New game for %d players.", m.session.Players()))
	}
}

func (m *Model) appendReport(ready bool) {
	var b strings.Builder
	report.WriteFull(&b, m.session.Sink(), m.config.Threshold, ready)
	m.addLogEntries(strings.Split(strings.TrimRight(b.String(), "\n"), "\n")...)
}

func (m *Model) showError(msg string) {
	m.logger.Warn("Rejected input", "error", msg)
	m.errMsg = msg
}

// Session returns the active session, or nil before players are entered
func (m *Model) Session() *session.Session {
	return m.session
}

// Mode returns the selected rolling mode
func (m *Model) Mode() console.Mode {
	return m.mode
}

// Error returns the message currently shown in the error banner
func (m *Model) Error() string {
	return m.errMsg
}

// View renders the form
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	formContent := m.renderForm()
	formHeight := lipgloss.Height(formContent)

	formStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(blurredBorder).
		Width(max(m.width-2, 1)).
		Height(max(formHeight, 1))
	if m.focus != focusOutput {
		formStyle = formStyle.BorderForeground(focusedBorder)
	}
	formPane := formStyle.Render(formContent)

	sidebarContent := m.renderSidebar()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-formHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(blurredBorder).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	outputWidth := max(m.width-sidebarWidth-4, 1)
	m.output.Width = outputWidth
	m.output.Height = paneHeight
	if !m.initialized && outputWidth > 1 && paneHeight > 1 {
		m.output.SetContent(strings.Join(m.lines, "\n"))
		m.output.GotoBottom()
		m.initialized = true
	}

	outputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(blurredBorder).
		Width(outputWidth).
		Height(paneHeight)
	if m.focus == focusOutput {
		outputStyle = outputStyle.BorderForeground(focusedBorder)
	}
	outputPane := outputStyle.Render(m.output.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, outputPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, formPane)
}

func (m *Model) label(text string, focus int) string {
	if m.focus == focus {
		return FocusedLabelStyle.Render(text)
	}
	return LabelStyle.Render(text)
}

func (m *Model) renderForm() string {
	var content strings.Builder

	content.WriteString(m.label("Players", focusPlayers))
	content.WriteString(" ")
	content.WriteString(m.playersInput.View())
	content.WriteString("\n")

	manual, automatic := "( ) manual", "( ) automatic"
	if m.mode == console.Manual {
		manual = ModeStyle.Render("(•) manual")
	} else {
		automatic = ModeStyle.Render("(•) automatic")
	}
	content.WriteString(m.label("Mode", focusMode))
	content.WriteString("    ")
	content.WriteString(manual + "  " + automatic)
	content.WriteString("\n")

	content.WriteString(m.label("Roll", focusRoll))
	content.WriteString("    ")
	content.WriteString(m.rollInput.View())
	content.WriteString("\n")

	if m.errMsg != "" {
		content.WriteString(ErrorStyle.Render("✗ " + m.errMsg))
		content.WriteString("\n")
	}

	content.WriteString(InfoStyle.Render(
		"Tab next field • Enter submit • ←/→ mode • Ctrl+A auto game • Ctrl+R reset • Ctrl+C quit"))
	return content.String()
}

func (m *Model) renderSidebar() string {
	var content strings.Builder
	content.WriteString(HeaderStyle.Render(" Dice Tracker "))
	content.WriteString("\n\n")

	if m.session == nil {
		content.WriteString(InfoStyle.Render("No game yet"))
		return content.String()
	}

	content.WriteString(fmt.Sprintf("Players: %d\n", m.session.Players()))
	content.WriteString(fmt.Sprintf("Mode:    %s\n", m.mode))
	content.WriteString(fmt.Sprintf("Rolls:   %d\n", m.session.Total()))
	content.WriteString(fmt.Sprintf("Round:   %d\n", m.session.Round()))
	content.WriteString(WarningStyle.Render(fmt.Sprintf("Next:    Player %d", m.session.CurrentPlayer())))
	content.WriteString("\n\n")

	if m.session.ReportReady() {
		for _, line := range report.Interpret(m.session.Sink().Deviations(m.config.Threshold)) {
			content.WriteString(line)
			content.WriteString("\n")
		}
	} else {
		remaining := m.session.MinRolls() - m.session.Total()
		content.WriteString(InfoStyle.Render(fmt.Sprintf("%d more rolls to interpret", remaining)))
	}
	return content.String()
}

// AddLogEntry appends a line to the output pane
func (m *Model) AddLogEntry(entry string) {
	m.addLogEntries(entry)
}

// addLogEntries appends lines and refreshes the viewport once
func (m *Model) addLogEntries(entries ...string) {
	if len(entries) == 0 {
		return
	}
	m.lines = append(m.lines, entries...)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entries...)
		return
	}

	m.output.SetContent(strings.Join(m.lines, "\n"))
	if m.output.Height > 0 && m.output.Width > 0 {
		m.output.GotoBottom()
	}
}

// ClearLog clears the output pane
func (m *Model) ClearLog() {
	m.lines = nil
	m.capturedLog = nil
	m.output.SetContent("")
}

// GetCapturedLog returns the captured output lines (test mode only)
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the model is in test mode
func (m *Model) IsTestMode() bool {
	return m.testMode
}

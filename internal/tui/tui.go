// Package tui is an interactive terminal hand evaluator.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/handeval/poker"
)

// Entry is a hand on the leaderboard.
type Entry struct {
	Seq  int
	Hand poker.Hand
}

// Model is the Bubble Tea model for the evaluator
type Model struct {
	logger *log.Logger

	input       textinput.Model
	leaderboard viewport.Model

	entries  []Entry // strongest first
	nextSeq  int
	lastErr  error
	last     *Entry
	quitting bool

	width  int
	height int
}

// NewModel creates the evaluator model
func NewModel(logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter five cards, e.g. TS JS QS KS AS"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 48
	ti.PromptStyle = PromptStyle
	ti.Prompt = "> "

	return &Model{
		logger:      logger.WithPrefix("tui"),
		input:       ti,
		leaderboard: viewport.New(60, 12),
		nextSeq:     1,
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.leaderboard.Width = max(msg.Width, 1)
		m.leaderboard.Height = max(msg.Height-6, 1)
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			m.Submit(m.input.Value())
			m.input.SetValue("")
			return m, nil
		case "ctrl+l":
			m.Clear()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.leaderboard, cmd = m.leaderboard.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Submit evaluates input and, if valid, places it on the leaderboard.
func (m *Model) Submit(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	hand, err := poker.ParseHand(input)
	if err != nil {
		m.logger.Debug("Rejected hand", "input", input, "error", err)
		m.lastErr = err
		m.last = nil
		return
	}

	entry := Entry{Seq: m.nextSeq, Hand: hand}
	m.nextSeq++
	m.lastErr = nil
	m.last = &entry

	// Insert after every hand at least as strong so ties keep entry order.
	pos := len(m.entries)
	for i, e := range m.entries {
		if hand.Beats(e.Hand) {
			pos = i
			break
		}
	}
	m.entries = append(m.entries, Entry{})
	copy(m.entries[pos+1:], m.entries[pos:])
	m.entries[pos] = entry

	m.logger.Debug("Evaluated hand", "hand", hand, "position", pos+1)
	m.refresh()
}

// Clear empties the leaderboard.
func (m *Model) Clear() {
	m.entries = nil
	m.last = nil
	m.lastErr = nil
	m.refresh()
}

// Entries returns the leaderboard, strongest first.
func (m *Model) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// LastError returns the error for the most recent submission, if any.
func (m *Model) LastError() error {
	return m.lastErr
}

func (m *Model) refresh() {
	m.leaderboard.SetContent(m.renderLeaderboard())
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("Poker Hand Evaluator") + "\n\n")
	sb.WriteString(m.input.View() + "\n")

	switch {
	case m.lastErr != nil:
		sb.WriteString(ErrorStyle.Render(m.lastErr.Error()) + "\n")
	case m.last != nil:
		sb.WriteString(HandInfoStyle.Render(fmt.Sprintf("#%d %s", m.last.Seq, m.last.Hand.Category())) + "\n")
	default:
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + m.leaderboard.View() + "\n")
	sb.WriteString(InfoStyle.Render("enter: evaluate • ctrl+l: clear • esc: quit"))
	return sb.String()
}

func (m *Model) renderLeaderboard() string {
	if len(m.entries) == 0 {
		return InfoStyle.Render("No hands yet")
	}

	lines := make([]string, 0, len(m.entries))
	for i, e := range m.entries {
		lines = append(lines, fmt.Sprintf("%2d. %s  %s %s",
			i+1,
			renderCards(e.Hand.Cards()),
			HandInfoStyle.Render(e.Hand.Category().String()),
			InfoStyle.Render(fmt.Sprintf("#%d", e.Seq))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderCards colours hearts and diamonds red.
func renderCards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		switch c.Suit() {
		case poker.Hearts, poker.Diamonds:
			parts[i] = RedCardStyle.Render(c.String())
		default:
			parts[i] = BlackCardStyle.Render(c.String())
		}
	}
	return strings.Join(parts, " ")
}

// Run starts the interactive program and blocks until the user quits.
func Run(logger *log.Logger, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(NewModel(logger), opts...).Run()
	return err
}

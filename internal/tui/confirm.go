package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModel is a Yes/No dialog. Focus starts on No, since it guards
// destructive commands such as remove.
//
// Navigation: left/right/tab/shift+tab move focus between the buttons.
// Enter activates the focused button. y/n/esc are shortcut accelerators.
type confirmModel struct {
	message   string
	focusYes  bool
	answered  bool
	confirmed bool

	width  int
	height int
}

func newConfirmModel(message string) confirmModel {
	return confirmModel{message: message}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, confirmYesKey):
			return m.answer(true)
		case key.Matches(msg, confirmNoKey), key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit):
			return m.answer(false)
		case key.Matches(msg, keys.Enter):
			return m.answer(m.focusYes)
		case key.Matches(msg, confirmLeft), key.Matches(msg, confirmRight),
			key.Matches(msg, confirmTab), key.Matches(msg, confirmShiftTab):
			m.focusYes = !m.focusYes
		}
	}
	return m, nil
}

func (m confirmModel) answer(yes bool) (tea.Model, tea.Cmd) {
	m.answered = true
	m.confirmed = yes
	return m, tea.Quit
}

// View renders the dialog box with the message and Yes / No buttons.
func (m confirmModel) View() string {
	if m.answered {
		return ""
	}

	question := lipgloss.NewStyle().
		Width(40).
		Align(lipgloss.Center).
		Render(m.message)

	var yesBtn, noBtn string
	if m.focusYes {
		yesBtn = dialogActiveButtonStyle.Render("Yes")
		noBtn = dialogButtonStyle.Render("No")
	} else {
		yesBtn = dialogButtonStyle.Render("Yes")
		noBtn = dialogActiveButtonStyle.Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yesBtn, "  ", noBtn)
	ui := lipgloss.JoinVertical(lipgloss.Center, question, "", buttons)
	dialog := dialogBoxStyle.Render(ui)

	if m.width <= 0 {
		return dialog + "\n"
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, dialog) + "\n"
}

// Confirm shows message in a Yes/No dialog and reports whether the user
// chose Yes.
func Confirm(message string, in io.Reader, out io.Writer) (bool, error) {
	p := tea.NewProgram(newConfirmModel(message), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation dialog: %w", err)
	}
	m, ok := final.(confirmModel)
	return ok && m.confirmed, nil
}

// Key bindings for the confirm dialog.
var (
	confirmYesKey = key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	)
	confirmNoKey = key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "cancel"),
	)
	confirmLeft = key.NewBinding(
		key.WithKeys("left", "h"),
	)
	confirmRight = key.NewBinding(
		key.WithKeys("right", "l"),
	)
	confirmTab = key.NewBinding(
		key.WithKeys("tab"),
	)
	confirmShiftTab = key.NewBinding(
		key.WithKeys("shift+tab"),
	)
)

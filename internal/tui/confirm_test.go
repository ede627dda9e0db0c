package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func updateConfirm(t *testing.T, m confirmModel, msg tea.Msg) (confirmModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	cm, ok := next.(confirmModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return cm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewConfirmModel(t *testing.T) {
	m := newConfirmModel("Remove variant glm?")
	if m.focusYes {
		t.Error("focus should default to No")
	}
	if m.answered {
		t.Error("new dialog should not be answered")
	}
	if !strings.Contains(m.View(), "Remove variant glm?") {
		t.Errorf("view missing message:\n%s", m.View())
	}
}

func TestConfirmUpdate_Shortcuts(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want bool
	}{
		{"y", runes("y"), true},
		{"Y", runes("Y"), true},
		{"n", runes("n"), false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, false},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := updateConfirm(t, newConfirmModel("Remove?"), tt.msg)
			if !m.answered {
				t.Fatal("dialog should be answered")
			}
			if m.confirmed != tt.want {
				t.Errorf("confirmed = %v, want %v", m.confirmed, tt.want)
			}
			if cmd == nil {
				t.Fatal("answer should quit")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("answer should return tea.Quit")
			}
		})
	}
}

func TestConfirmUpdate_EnterUsesFocus(t *testing.T) {
	m, _ := updateConfirm(t, newConfirmModel("Remove?"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.confirmed {
		t.Error("enter on default focus should cancel")
	}

	m = newConfirmModel("Remove?")
	m, _ = updateConfirm(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.focusYes {
		t.Fatal("tab should move focus to Yes")
	}
	m, _ = updateConfirm(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.confirmed {
		t.Error("enter on Yes should confirm")
	}
}

func TestConfirmUpdate_NavigationToggles(t *testing.T) {
	m := newConfirmModel("Remove?")
	for i, msg := range []tea.KeyMsg{
		{Type: tea.KeyLeft},
		{Type: tea.KeyRight},
		runes("h"),
		runes("l"),
		{Type: tea.KeyShiftTab},
	} {
		m, _ = updateConfirm(t, m, msg)
		if want := i%2 == 0; m.focusYes != want {
			t.Errorf("after key %d focusYes = %v, want %v", i, m.focusYes, want)
		}
	}
	if m.answered {
		t.Error("navigation should not answer")
	}
}

func TestConfirmUpdate_IgnoresOtherKeys(t *testing.T) {
	m, cmd := updateConfirm(t, newConfirmModel("Remove?"), runes("x"))
	if m.answered || cmd != nil {
		t.Error("unrelated key should be ignored")
	}
}

func TestConfirmView_AnsweredIsEmpty(t *testing.T) {
	m, _ := updateConfirm(t, newConfirmModel("Remove?"), runes("y"))
	if m.View() != "" {
		t.Errorf("answered view = %q, want empty", m.View())
	}
}

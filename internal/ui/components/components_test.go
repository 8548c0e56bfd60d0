package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoiceArrowAndEnter(t *testing.T) {
	m := NewMultiChoice("Which gas traps heat?", []string{"Oxygen", "Carbon dioxide", "Argon", "Neon"}, 1)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if !m.Submitted || m.ChosenIndex != 1 {
		t.Fatalf("expected option 1 submitted, got submitted=%v chosen=%d", m.Submitted, m.ChosenIndex)
	}
	if !m.IsCorrect() {
		t.Error("expected correct answer")
	}

	// Further keys are ignored once submitted.
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 1 {
		t.Errorf("selection moved after submit: %d", m.Selected)
	}
}

func TestMultiChoiceLetterKey(t *testing.T) {
	m := NewMultiChoice("Q", []string{"a", "b", "c", "d"}, 0)
	m, _ = m.Update(keyPress('c'))
	if m.ChosenIndex != 2 || m.IsCorrect() {
		t.Errorf("expected wrong option 2, got %d", m.ChosenIndex)
	}

	m = NewMultiChoice("Q", []string{"a", "b", "c", "d"}, 0)
	m, _ = m.Update(keyPress('z'))
	if m.Submitted {
		t.Error("out of range letter must not submit")
	}
}

func TestMultiChoiceView(t *testing.T) {
	m := NewMultiChoice("Q?", []string{"one", "two"}, 0)
	view := m.View()
	for _, want := range []string{"Q?", "A)  one", "B)  two"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	called := ""
	m := NewMenu([]MenuItem{
		{Label: "locked", Disabled: true},
		{Label: "energy", Action: func() tea.Cmd { called = "energy"; return nil }},
		{Label: "locked too", Disabled: true},
		{Label: "water", Action: func() tea.Cmd { called = "water"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("expected first enabled item selected, got %d", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Fatalf("expected disabled item skipped, got %d", m.Selected)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if called != "water" {
		t.Errorf("expected water action, got %q", called)
	}
}

func TestProgressBarPercent(t *testing.T) {
	p := NewProgressBar("", 3, 5, true, 40)
	if p.Percent != 0.6 {
		t.Errorf("expected 0.6, got %v", p.Percent)
	}
	if !strings.Contains(p.View(), "60%") {
		t.Errorf("expected 60%% in view: %q", p.View())
	}
	if NewProgressBar("", 1, 0, false, 10).Percent != 0 {
		t.Error("zero total must not divide")
	}
}

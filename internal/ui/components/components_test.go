package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestChoiceList_SingleKeepsOnePick(t *testing.T) {
	c := NewChoiceList("Pick one", []string{"a", "b", "c"}, false)
	c = c.Toggle(0).Toggle(2)
	if got := c.Selected(); len(got) != 1 || got[0] != 2 {
		t.Errorf("Selected = %v, want [2]", got)
	}
	c = c.Toggle(2)
	if got := c.Selected(); len(got) != 0 {
		t.Errorf("Selected after untoggle = %v, want none", got)
	}
}

func TestChoiceList_MultipleKeepsAll(t *testing.T) {
	c := NewChoiceList("Pick many", []string{"a", "b", "c"}, true)
	orig := c
	c = c.Toggle(0).Toggle(2).Toggle(9)
	if got := c.Selected(); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("Selected = %v, want [0 2]", got)
	}
	if len(orig.Selected()) != 0 {
		t.Error("Toggle mutated the original list")
	}
	if !strings.Contains(c.View(1), "[x] a") {
		t.Errorf("view does not mark picked option:\n%s", c.View(1))
	}
}

func TestButtonView(t *testing.T) {
	if !strings.Contains(NewButton("Next", true).View(), "▸ Next") {
		t.Error("focused button should carry the cursor")
	}
	if strings.Contains(NewButton("Next", false).View(), "▸") {
		t.Error("unfocused button should not carry the cursor")
	}
}

func TestProgressBarClamps(t *testing.T) {
	if p := NewProgressBar("", 1.7, true, 20); p.Percent != 1 {
		t.Errorf("Percent = %v, want 1", p.Percent)
	}
	if p := NewProgressBar("", -1, false, 20); p.Percent != 0 {
		t.Errorf("Percent = %v, want 0", p.Percent)
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	pressed := ""
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "one", Action: func() tea.Cmd { pressed = "one"; return nil }},
		{Label: "two", Action: func() tea.Cmd { pressed = "two"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("moved onto a disabled item")
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if pressed != "two" {
		t.Errorf("pressed = %q, want two", pressed)
	}
}

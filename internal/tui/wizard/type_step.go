package wizard

import (
	"slices"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/form"
	"github.com/mark3labs/beacon/internal/tui/theme"
)

// typeStep lists the project types. Moving the cursor selects the type, so
// the step validates as soon as a type is highlighted.
type typeStep struct {
	machine *form.Machine
	types   []beacon.ProjectType
	cursor  int
}

func newTypeStep(m *form.Machine) *typeStep {
	t := &typeStep{machine: m, types: beacon.ProjectTypes()}
	if i := slices.Index(t.types, m.State().SelectedType); i >= 0 {
		t.cursor = i
	}
	return t
}

// Update moves the cursor. It reports whether the key was consumed.
func (t *typeStep) Update(msg tea.Msg) (bool, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return false, nil
	}
	switch key.String() {
	case "up", "k", "shift+tab":
		t.move(-1)
		return true, nil
	case "down", "j", "tab":
		t.move(1)
		return true, nil
	case "space":
		t.selectCursor()
		return true, nil
	case "enter":
		// Select before the wizard advances.
		t.selectCursor()
		return false, nil
	}
	return false, nil
}

func (t *typeStep) move(delta int) {
	t.cursor = (t.cursor + delta + len(t.types)) % len(t.types)
	t.selectCursor()
}

func (t *typeStep) selectCursor() {
	if sel := t.types[t.cursor]; t.machine.State().SelectedType != sel {
		t.machine.SetSelectedType(sel)
	}
}

// View renders the type list.
func (t *typeStep) View() string {
	s := theme.Current().S()
	selected := t.machine.State().SelectedType

	rows := []string{s.Label.Render("What kind of project are you starting?"), ""}
	for i, pt := range t.types {
		marker := "  "
		if i == t.cursor {
			marker = "▸ "
		}
		label := pt.Label()
		if pt == selected {
			label = s.Selected.Render(" " + label + " ")
		} else if i == t.cursor {
			label = s.LabelFocused.Render(label)
		} else {
			label = s.ListItem.Render(label)
		}
		rows = append(rows, marker+label)
		rows = append(rows, "    "+s.Help.Render(pt.Description()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

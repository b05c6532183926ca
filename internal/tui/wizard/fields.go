package wizard

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/form"
	"github.com/mark3labs/beacon/internal/logger"
	"github.com/mark3labs/beacon/internal/tui/theme"
)

// fieldRow is one schema rule rendered as an editable row.
type fieldRow struct {
	rule  beacon.Rule
	input textinput.Model // text, number and url values; new list items
	list  *listBinding
	err   string // local parse error, e.g. a non-numeric team size
}

func (r *fieldRow) usesInput() bool {
	switch r.rule.Kind {
	case beacon.KindEnum, beacon.KindBool:
		return false
	}
	return true
}

// formStep edits the base fields (step 2) or the type-specific fields of the
// selected project type (step 3). Rows are generated from the schema; every
// edit is dispatched to the machine right away.
type formStep struct {
	step    form.Step
	machine *form.Machine
	rows    []*fieldRow
	focus   int
	width   int

	// showErrors is set once the user tried to leave the step while it was
	// invalid. Until then only fields with content show their issues.
	showErrors bool
}

func newFormStep(step form.Step, m *form.Machine) *formStep {
	f := &formStep{step: step, machine: m, width: 60}

	var (
		rules []beacon.Rule
		lists map[string]listBinding
	)
	switch step {
	case form.StepBase:
		rules = beacon.BaseSchema.Rules
		lists = map[string]listBinding{"tags": tagsBinding(m)}
	case form.StepDetails:
		schema, ok := beacon.SchemaFor(m.State().SelectedType)
		if !ok {
			return f
		}
		rules = schema.Rules
		lists = typeLists(m)
	}

	values := f.values()
	for _, rule := range rules {
		row := &fieldRow{rule: rule}
		if rule.Kind == beacon.KindList {
			if b, ok := lists[rule.Field]; ok {
				row.list = &b
			}
		}
		if row.usesInput() {
			row.input = newRowInput(rule, values[rule.Field])
		}
		f.rows = append(f.rows, row)
	}
	f.focusRow(0)
	return f
}

func newRowInput(rule beacon.Rule, value any) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.SetStyles(inputStyles())
	ti.SetWidth(50)
	if rule.MaxLen > 0 {
		ti.CharLimit = rule.MaxLen
	}

	switch rule.Kind {
	case beacon.KindList:
		ti.Placeholder = "add an item and press enter"
	case beacon.KindInt:
		ti.Placeholder = fmt.Sprintf("%d-%d", rule.Min, rule.Max)
		if n, ok := value.(int); ok && n != 0 {
			ti.SetValue(strconv.Itoa(n))
		}
	case beacon.KindURL:
		ti.Placeholder = "https://"
		ti.SetValue(fmt.Sprint(orEmpty(value)))
	default:
		ti.Placeholder = rule.Help
		ti.SetValue(fmt.Sprint(orEmpty(value)))
	}
	return ti
}

func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}

// values reads the current record of the step from the machine.
func (f *formStep) values() beacon.Fields {
	s := f.machine.State()
	var (
		v   beacon.Fields
		err error
	)
	switch f.step {
	case form.StepBase:
		v, err = beacon.ToFields(s.FormData.Base)
	case form.StepDetails:
		if fs := s.FormData.TypeSpecific(); fs != nil {
			v, err = beacon.ToFields(fs)
		}
	}
	if err != nil {
		logger.Warn("wizard: reading %s fields: %v", f.step.Title(), err)
	}
	if v == nil {
		v = beacon.Fields{}
	}
	return v
}

func (f *formStep) update(partial beacon.Fields) {
	switch f.step {
	case form.StepBase:
		f.machine.UpdateBaseFields(partial)
	case form.StepDetails:
		f.machine.UpdateTypeFields(partial)
	}
}

func (f *formStep) focused() *fieldRow {
	if f.focus < 0 || f.focus >= len(f.rows) {
		return nil
	}
	return f.rows[f.focus]
}

// focusRow moves focus to row i, wrapping around.
func (f *formStep) focusRow(i int) tea.Cmd {
	if len(f.rows) == 0 {
		return nil
	}
	i = (i%len(f.rows) + len(f.rows)) % len(f.rows)
	for _, r := range f.rows {
		r.input.Blur()
	}
	f.focus = i
	if r := f.rows[i]; r.usesInput() {
		return r.input.Focus()
	}
	return nil
}

// FocusField focuses the row of the named field.
func (f *formStep) FocusField(name string) tea.Cmd {
	for i, r := range f.rows {
		if r.rule.Field == name {
			return f.focusRow(i)
		}
	}
	return nil
}

// TakesText reports whether the focused row consumes printable keys.
func (f *formStep) TakesText() bool {
	r := f.focused()
	return r != nil && r.usesInput()
}

// SetDescription replaces the description, as returned by the external
// editor.
func (f *formStep) SetDescription(text string) {
	text = strings.TrimSpace(text)
	f.update(beacon.Fields{"description": text})
	for _, r := range f.rows {
		if r.rule.Field == "description" {
			r.input.SetValue(text)
		}
	}
}

// SetWidth resizes the inputs.
func (f *formStep) SetWidth(width int) {
	f.width = width
	for _, r := range f.rows {
		r.input.SetWidth(max(width-6, 20))
	}
}

// Update handles a message for the focused row. It reports whether the
// message was consumed; unconsumed enter presses advance the wizard.
func (f *formStep) Update(msg tea.Msg) (bool, tea.Cmd) {
	key, isKey := msg.(tea.KeyPressMsg)
	row := f.focused()
	if row == nil {
		return false, nil
	}

	if isKey {
		switch key.String() {
		case "tab", "down":
			return true, f.focusRow(f.focus + 1)
		case "shift+tab", "up":
			return true, f.focusRow(f.focus - 1)
		case "enter":
			if row.list != nil && strings.TrimSpace(row.input.Value()) != "" {
				if row.list.add(row.input.Value()) {
					row.input.SetValue("")
					row.err = ""
				} else {
					row.err = fmt.Sprintf("at most %d items", row.list.max)
				}
				return true, nil
			}
			return false, nil
		}

		switch row.rule.Kind {
		case beacon.KindEnum:
			return f.cycleEnum(row, key.String()), nil
		case beacon.KindBool:
			switch key.String() {
			case "space", "left", "right", "x":
				cur, _ := f.values()[row.rule.Field].(bool)
				f.update(beacon.Fields{row.rule.Field: !cur})
				return true, nil
			}
			return false, nil
		case beacon.KindList:
			if key.String() == "backspace" && row.input.Value() == "" && row.list != nil {
				if n := len(row.list.items()); n > 0 {
					row.list.remove(n - 1)
				}
				row.err = ""
				return true, nil
			}
		}
	}

	if !row.usesInput() {
		return false, nil
	}
	before := row.input.Value()
	var cmd tea.Cmd
	row.input, cmd = row.input.Update(msg)
	if after := row.input.Value(); after != before && row.list == nil {
		f.commit(row, after)
	}
	return isKey, cmd
}

// commit dispatches the text of a scalar row.
func (f *formStep) commit(row *fieldRow, text string) {
	if row.rule.Kind != beacon.KindInt {
		f.update(beacon.Fields{row.rule.Field: text})
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		row.err = ""
		f.update(beacon.Fields{row.rule.Field: 0})
		return
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		// Clear the field so the step gate agrees with the row error.
		row.err = "must be a whole number"
		f.update(beacon.Fields{row.rule.Field: 0})
		return
	}
	row.err = ""
	f.update(beacon.Fields{row.rule.Field: n})
}

func (f *formStep) cycleEnum(row *fieldRow, key string) bool {
	opts := row.rule.Enum
	if len(opts) == 0 {
		return false
	}
	var delta int
	switch key {
	case "right", "space", "l":
		delta = 1
	case "left", "h":
		delta = -1
	default:
		return false
	}
	cur, _ := f.values()[row.rule.Field].(string)
	i := slices.Index(opts, cur)
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(opts) - 1
	default:
		i = (i + delta + len(opts)) % len(opts)
	}
	f.update(beacon.Fields{row.rule.Field: opts[i]})
	return true
}

// View renders every row with its current issues.
func (f *formStep) View() string {
	if len(f.rows) == 0 {
		return theme.Current().S().Help.Render("Select a project type first.")
	}
	s := theme.Current().S()
	values := f.values()
	issues := form.StepIssues(f.step, f.machine.State())

	var rows []string
	for i, r := range f.rows {
		label := r.rule.Label
		if r.rule.Required {
			label += " *"
		}
		if i == f.focus {
			label = s.LabelFocused.Render("▸ " + label)
		} else {
			label = s.Label.Render("  " + label)
		}

		var body string
		switch r.rule.Kind {
		case beacon.KindEnum:
			body = f.renderEnum(r, values, i == f.focus)
		case beacon.KindBool:
			mark := "[ ]"
			if v, _ := values[r.rule.Field].(bool); v {
				mark = "[x]"
			}
			body = "  " + s.ListItem.Render(mark)
		case beacon.KindList:
			body = f.renderList(r)
		default:
			body = "  " + r.input.View()
		}

		lines := []string{label, body}
		if msg := r.err; msg != "" {
			lines = append(lines, "  "+s.FieldError.Render("✗ "+msg))
		} else if fieldIssues := issues.For(r.rule.Field); len(fieldIssues) > 0 && f.shouldShow(r, values) {
			lines = append(lines, "  "+s.FieldError.Render("✗ "+fieldIssues[0].Message))
		}
		if i == f.focus && r.rule.Help != "" && r.rule.Kind != beacon.KindString && r.rule.Kind != beacon.KindText {
			lines = append(lines, "  "+s.Help.Render(r.rule.Help))
		}
		rows = append(rows, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (f *formStep) shouldShow(r *fieldRow, values beacon.Fields) bool {
	if f.showErrors {
		return true
	}
	switch v := values[r.rule.Field].(type) {
	case string:
		return v != ""
	case []string:
		return len(v) > 0
	case int:
		return v != 0
	}
	return false
}

func (f *formStep) renderEnum(r *fieldRow, values beacon.Fields, focused bool) string {
	s := theme.Current().S()
	cur, _ := values[r.rule.Field].(string)
	parts := make([]string, 0, len(r.rule.Enum))
	for _, opt := range r.rule.Enum {
		if opt == cur {
			parts = append(parts, s.Selected.Render(" "+opt+" "))
		} else {
			parts = append(parts, s.Label.Render(" "+opt+" "))
		}
	}
	out := "  " + strings.Join(parts, " ")
	if focused {
		out += "  " + s.Help.Render("←/→")
	}
	return out
}

func (f *formStep) renderList(r *fieldRow) string {
	s := theme.Current().S()
	var items []string
	if r.list != nil {
		items = r.list.items()
	}
	lines := make([]string, 0, len(items)+1)
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("  %s %s", s.Label.Render(fmt.Sprintf("%d.", i+1)), s.ListItem.Render(item)))
	}
	counter := fmt.Sprintf("%d", len(items))
	if r.list != nil && r.list.max > 0 {
		counter = fmt.Sprintf("%d/%d", len(items), r.list.max)
	}
	lines = append(lines, "  "+r.input.View()+" "+s.Help.Render(counter))
	return strings.Join(lines, "\n")
}

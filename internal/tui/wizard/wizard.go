// Package wizard is the terminal front end of the beacon creation engine: a
// bubbletea model that renders the four steps, the progress header and the
// button bar, and runs submissions off the UI loop.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/form"
	"github.com/mark3labs/beacon/internal/logger"
	"github.com/mark3labs/beacon/internal/tui/theme"
)

// ErrCancelled is returned by Run when the user quits before anything was
// submitted or saved.
var ErrCancelled = errors.New("wizard cancelled by user")

const defaultToastTTL = 3 * time.Second

// Modal layout constants
const (
	minModalWidth = 60
	maxModalWidth = 100
)

// Options configure a wizard.
type Options struct {
	// Draft is the payload the wizard was resumed from. It is loaded into the
	// machine and the preview diffs against it.
	Draft *beacon.Payload
	// Profile overrides the detected colour profile of stdout.
	Profile *colorprofile.Profile
}

// Result summarises a wizard session.
type Result struct {
	Created     []beacon.Payload
	DraftsSaved int
}

// Model is the main BubbleTea model of the beacon wizard.
type Model struct {
	ctx     context.Context
	nav     *form.Navigator
	draft   *beacon.Payload
	profile colorprofile.Profile

	typeStep    *typeStep
	baseStep    *formStep
	detailsStep *formStep
	detailsType beacon.ProjectType
	previewStep *previewStep

	spinner  spinner.Model
	inflight *form.Submission

	err      string
	toast    string
	toastID  int
	toastTTL time.Duration

	editorFile string

	width     int
	height    int
	cancelled bool
	result    Result
}

// New creates a wizard driving nav. A draft in opts is loaded into the
// machine.
func New(ctx context.Context, nav *form.Navigator, opts Options) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	m := &Model{
		ctx:      ctx,
		nav:      nav,
		spinner:  s,
		toastTTL: defaultToastTTL,
		width:    80,
		height:   30,
	}
	if opts.Profile != nil {
		m.profile = *opts.Profile
	} else {
		m.profile = DetectProfile()
	}
	if opts.Draft != nil {
		if nav.Machine().LoadPayload(*opts.Draft) {
			draft := *opts.Draft
			m.draft = &draft
		} else {
			m.err = "Could not load draft"
		}
	}
	nav.Refresh()
	m.typeStep = newTypeStep(nav.Machine())
	return m
}

// Run is the entry point for the beacon wizard.
// It creates a standalone BubbleTea program, runs it, and returns the result.
func Run(ctx context.Context, nav *form.Navigator, opts Options) (*Result, error) {
	m := New(ctx, nav, opts)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	wizModel, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if wizModel.cancelled && len(wizModel.result.Created) == 0 && wizModel.result.DraftsSaved == 0 {
		return &wizModel.result, ErrCancelled
	}
	return &wizModel.result, nil
}

// Result returns what the session produced so far.
func (m *Model) Result() Result {
	return m.result
}

// Init initializes the wizard model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateStepSizes()
		return m, nil

	case spinner.TickMsg:
		if !m.nav.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SubmissionDoneMsg:
		return m, m.finishSubmission(msg)

	case clearToastMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case DescriptionEditedMsg:
		m.cleanupEditorFile()
		if m.baseStep != nil {
			m.baseStep.SetDescription(msg.Content)
			m.nav.Refresh()
		}
		return m, nil

	case EditorFailedMsg:
		m.cleanupEditorFile()
		m.err = "Editor failed: " + msg.Err.Error()
		logger.Warn("wizard: editor failed: %v", msg.Err)
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	// Forward everything else (cursor blink, mouse) to the current step.
	_, cmd := m.updateCurrentStep(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.cancelled = true
		return tea.Quit
	}
	// Navigation and edits are locked while a submission is in flight.
	if m.nav.Busy() {
		return nil
	}

	switch key {
	case "esc":
		m.err = ""
		if m.nav.HandleBack() {
			return m.enterStep()
		}
		if m.currentStep() == form.FirstStep {
			m.cancelled = true
			return tea.Quit
		}
		return nil

	case "ctrl+s":
		sub := m.nav.BeginDraft()
		if sub == nil {
			return m.showToast("Nothing to save yet")
		}
		m.err = ""
		return m.startSubmission(sub)

	case "ctrl+e":
		if m.currentStep() == form.StepBase {
			return m.openEditor()
		}
		return nil
	}

	if step, ok := m.jumpTarget(key); ok {
		if m.nav.GoToStep(step) {
			m.err = ""
			return m.enterStep()
		}
		return nil
	}

	consumed, cmd := m.updateCurrentStep(msg)
	m.nav.Refresh()
	if consumed || key != "enter" {
		return cmd
	}

	m.err = ""
	sub, moved := m.nav.Advance()
	switch {
	case sub != nil:
		return tea.Batch(cmd, m.startSubmission(sub))
	case moved:
		return tea.Batch(cmd, m.enterStep())
	}
	if fs := m.currentFormStep(); fs != nil {
		fs.showErrors = true
	}
	return cmd
}

// jumpTarget maps 1-4 to a step. Plain digits only jump when the focused
// widget does not take text; alt+digit always does.
func (m *Model) jumpTarget(key string) (form.Step, bool) {
	digit, alt := strings.CutPrefix(key, "alt+")
	if len(digit) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(digit)
	if err != nil || !form.Step(n).Valid() {
		return 0, false
	}
	if !alt {
		if fs := m.currentFormStep(); fs != nil && fs.TakesText() {
			return 0, false
		}
	}
	return form.Step(n), true
}

func (m *Model) currentStep() form.Step {
	return m.nav.Machine().State().CurrentStep
}

func (m *Model) currentFormStep() *formStep {
	switch m.currentStep() {
	case form.StepBase:
		return m.baseStep
	case form.StepDetails:
		return m.detailsStep
	}
	return nil
}

func (m *Model) updateCurrentStep(msg tea.Msg) (bool, tea.Cmd) {
	switch m.currentStep() {
	case form.StepType:
		return m.typeStep.Update(msg)
	case form.StepBase, form.StepDetails:
		if fs := m.currentFormStep(); fs != nil {
			return fs.Update(msg)
		}
	case form.StepPreview:
		if m.previewStep != nil {
			return m.previewStep.Update(msg)
		}
	}
	return false, nil
}

// enterStep prepares the view of the step the machine is on. The details
// form is rebuilt when the selected type changed since it was built.
func (m *Model) enterStep() tea.Cmd {
	mc := m.nav.Machine()
	var cmd tea.Cmd
	switch m.currentStep() {
	case form.StepType:
		m.typeStep = newTypeStep(mc)
	case form.StepBase:
		if m.baseStep == nil {
			m.baseStep = newFormStep(form.StepBase, mc)
		}
		cmd = m.baseStep.focusRow(m.baseStep.focus)
	case form.StepDetails:
		if sel := mc.State().SelectedType; m.detailsStep == nil || m.detailsType != sel {
			m.detailsStep = newFormStep(form.StepDetails, mc)
			m.detailsType = sel
		}
		cmd = m.detailsStep.focusRow(m.detailsStep.focus)
	case form.StepPreview:
		if m.previewStep == nil {
			m.previewStep = newPreviewStep(mc, m.draft, m.profile)
		}
		m.previewStep.refresh()
	}
	m.updateStepSizes()
	m.nav.Refresh()
	return cmd
}

// resetSteps discards every step view after the machine was reset.
func (m *Model) resetSteps() {
	m.typeStep = newTypeStep(m.nav.Machine())
	m.baseStep = nil
	m.detailsStep = nil
	m.detailsType = ""
	m.previewStep = nil
	m.draft = nil
}

func (m *Model) startSubmission(sub *form.Submission) tea.Cmd {
	m.inflight = sub
	ctx := m.ctx
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return SubmissionDoneMsg{Submission: sub, Err: sub.Run(ctx)}
		},
	)
}

func (m *Model) finishSubmission(msg SubmissionDoneMsg) tea.Cmd {
	sub := msg.Submission
	if sub == m.inflight {
		m.inflight = nil
	}
	if err := m.nav.Complete(sub, msg.Err); err != nil {
		what := "Submission"
		if sub != nil && sub.Draft {
			what = "Draft save"
		}
		m.err = fmt.Sprintf("%s failed: %v", what, err)
		return nil
	}

	m.err = ""
	if sub.Draft {
		m.result.DraftsSaved++
		return m.showToast("Draft saved")
	}
	m.result.Created = append(m.result.Created, sub.Payload)
	m.resetSteps()
	m.nav.Refresh()
	return m.showToast(fmt.Sprintf("Beacon %q created", sub.Payload.Title))
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toastID++
	m.toast = text
	id := m.toastID
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
		return clearToastMsg{id: id}
	})
}

// openEditor launches the user's $EDITOR with the description.
func (m *Model) openEditor() tea.Cmd {
	tmpfile, err := os.CreateTemp("", "beacon_description_*.md")
	if err != nil {
		return func() tea.Msg { return EditorFailedMsg{Err: err} }
	}
	if _, err := tmpfile.WriteString(m.nav.Machine().State().FormData.Base.Description); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return func() tea.Msg { return EditorFailedMsg{Err: err} }
	}
	_ = tmpfile.Close()
	m.editorFile = tmpfile.Name()

	cmd, err := editor.Command("beacon", tmpfile.Name())
	if err != nil {
		return func() tea.Msg { return EditorFailedMsg{Err: err} }
	}

	path := tmpfile.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return EditorFailedMsg{Err: err}
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return EditorFailedMsg{Err: err}
		}
		return DescriptionEditedMsg{Content: string(content)}
	})
}

func (m *Model) cleanupEditorFile() {
	if m.editorFile != "" {
		_ = os.Remove(m.editorFile)
		m.editorFile = ""
	}
}

func (m *Model) modalWidth() int {
	return min(max(m.width-10, minModalWidth), maxModalWidth)
}

// updateStepSizes updates the size of the step components.
func (m *Model) updateStepSizes() {
	contentWidth := m.modalWidth() - 6
	contentHeight := max(m.height-16, 5)
	if m.baseStep != nil {
		m.baseStep.SetWidth(contentWidth)
	}
	if m.detailsStep != nil {
		m.detailsStep.SetWidth(contentWidth)
	}
	if m.previewStep != nil {
		m.previewStep.SetSize(contentWidth, contentHeight)
	}
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(m.render()).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgCrust)
	return view
}

// render builds the modal: header, step body, status line, buttons and hints.
func (m *Model) render() string {
	s := theme.Current().S()
	state := m.nav.Machine().State()
	width := m.modalWidth()

	var body string
	switch state.CurrentStep {
	case form.StepType:
		body = m.typeStep.View()
	case form.StepBase, form.StepDetails:
		if fs := m.currentFormStep(); fs != nil {
			body = fs.View()
		}
	case form.StepPreview:
		if m.previewStep != nil {
			body = m.previewStep.View()
		}
	}

	sections := []string{renderHeader(state, width-6), "", body, ""}

	switch {
	case m.nav.Busy():
		what := "Creating beacon..."
		if m.inflight != nil && m.inflight.Draft {
			what = "Saving draft..."
		}
		sections = append(sections, m.spinner.View()+" "+s.Label.Render(what))
	case m.err != "":
		sections = append(sections, s.ErrorBanner.Render("✗ "+m.err))
	case m.toast != "":
		sections = append(sections, s.Toast.Render("✓ "+m.toast))
	}

	bar := NewButtonBar(navButtons(m.nav))
	bar.SetWidth(width - 6)
	sections = append(sections, bar.Render(), m.hints())

	modal := s.ModalContainer.Width(width).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m *Model) hints() string {
	switch m.currentStep() {
	case form.StepType:
		return renderHintBar("↑↓", "choose", "enter", "next", "esc", "cancel")
	case form.StepBase:
		return renderHintBar("tab", "field", "←→", "option", "ctrl+e", "edit description", "alt+1-4", "jump")
	case form.StepDetails:
		return renderHintBar("tab", "field", "enter", "add item", "⌫", "remove last", "alt+1-4", "jump")
	}
	return renderHintBar("↑↓", "scroll", "enter", "create", "ctrl+s", "save draft", "1-4", "jump")
}

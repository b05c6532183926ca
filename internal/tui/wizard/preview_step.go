package wizard

import (
	"os"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/colorprofile"
	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/form"
)

// previewStep renders the assembled payload as markdown. When the wizard was
// resumed from a draft, a unified diff against the draft follows.
type previewStep struct {
	machine *form.Machine
	draft   *beacon.Payload
	profile colorprofile.Profile

	viewport viewport.Model
	width    int
}

func newPreviewStep(m *form.Machine, draft *beacon.Payload, profile colorprofile.Profile) *previewStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(12),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	p := &previewStep{machine: m, draft: draft, profile: profile, viewport: vp, width: 60}
	p.refresh()
	return p
}

// DetectProfile reports the colour support of stdout.
func DetectProfile() colorprofile.Profile {
	return colorprofile.Detect(os.Stdout, os.Environ())
}

// glamourStyle picks a glamour style for the terminal's colour profile.
func glamourStyle(p colorprofile.Profile) string {
	switch p {
	case colorprofile.NoTTY, colorprofile.Ascii:
		return "notty"
	}
	return "dark"
}

// RenderMarkdown renders markdown content using glamour in a style suited
// to the colour profile.
// Falls back to plain text if rendering fails.
func RenderMarkdown(content string, width int, p colorprofile.Profile) string {
	// Cap width to 120 for readability
	if width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle(p)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	// Remove trailing newline that glamour adds
	return strings.TrimSuffix(rendered, "\n")
}

// Markdown returns the document shown by the preview.
func (p *previewStep) Markdown() string {
	cur := p.machine.State().FormData.Payload()
	doc := cur.Markdown()
	if p.draft == nil {
		return doc
	}
	diff := udiff.Unified("draft", "current", p.draft.Markdown(), doc)
	if diff == "" {
		return doc + "\n## Changes since draft\n\nNo changes.\n"
	}
	return doc + "\n## Changes since draft\n\n```diff\n" + diff + "```\n"
}

// refresh re-renders the payload. The wizard calls it whenever the step is
// entered or resized.
func (p *previewStep) refresh() {
	p.viewport.SetContent(RenderMarkdown(p.Markdown(), p.width, p.profile))
	p.viewport.GotoTop()
}

// SetSize updates the viewport dimensions.
func (p *previewStep) SetSize(width, height int) {
	p.width = width
	p.viewport.SetWidth(width)
	p.viewport.SetHeight(max(height, 5))
	p.refresh()
}

// Update forwards scrolling to the viewport. Keys are never consumed so the
// wizard still sees enter and the jump keys.
func (p *previewStep) Update(msg tea.Msg) (bool, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return false, cmd
}

// View renders the viewport.
func (p *previewStep) View() string {
	return p.viewport.View()
}

package wizard

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/beacon/internal/form"
	"github.com/stretchr/testify/assert"
)

func TestGlamourStyle(t *testing.T) {
	assert.Equal(t, "notty", glamourStyle(colorprofile.NoTTY))
	assert.Equal(t, "notty", glamourStyle(colorprofile.Ascii))
	assert.Equal(t, "dark", glamourStyle(colorprofile.TrueColor))
	assert.Equal(t, "dark", glamourStyle(colorprofile.ANSI256))
}

func TestRenderMarkdown(t *testing.T) {
	out := ansi.Strip(RenderMarkdown("# Chess\n\nPlay **fast**.", 200, colorprofile.Ascii))
	assert.Contains(t, out, "Chess")
	assert.Contains(t, out, "fast")
}

func TestPreviewWithoutDraft(t *testing.T) {
	m := newTestWizard(t, &recorder{}, nil, Options{})
	fillHackathon(m)

	p := newPreviewStep(m.nav.Machine(), nil, colorprofile.Ascii)
	md := p.Markdown()
	assert.Contains(t, md, "# Realtime Chess Server")
	assert.Contains(t, md, "Global Game Jam")
	assert.NotContains(t, md, "Changes since draft")

	p.SetSize(70, 20)
	assert.Contains(t, ansi.Strip(p.View()), "Realtime Chess Server")
}

func TestPreviewNeverConsumesKeys(t *testing.T) {
	m := newTestWizard(t, &recorder{}, nil, Options{})
	fillHackathon(m)
	m.nav.Machine().SetStep(form.StepPreview)
	p := newPreviewStep(m.nav.Machine(), nil, colorprofile.Ascii)

	for _, k := range []string{"enter", "down", "3"} {
		consumed, _ := p.Update(key(k))
		assert.False(t, consumed, k)
	}
}

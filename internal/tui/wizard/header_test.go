package wizard

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/beacon/internal/form"
	"github.com/stretchr/testify/assert"
)

func TestProgressCells(t *testing.T) {
	tests := []struct {
		name       string
		pct        float64
		width      int
		wantFilled int
		wantTotal  int
	}{
		{"empty", 0, 20, 0, 20},
		{"third", 100.0 / 3, 30, 10, 30},
		{"full", 100, 20, 20, 20},
		{"narrow width is widened", 50, 2, 5, 10},
		{"overflow is clamped", 150, 20, 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filled, total := progressCells(tt.pct, tt.width)
			assert.Equal(t, tt.wantFilled, filled)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestRenderProgress(t *testing.T) {
	out := ansi.Strip(renderProgress(form.Progress(form.StepDetails), 30))
	assert.True(t, strings.HasSuffix(out, " 67%"), out)
	assert.Equal(t, 25, strings.Count(out, "━"))
}

func TestRenderHeaderMarksCompletedSteps(t *testing.T) {
	m := newTestWizard(t, &recorder{}, nil, Options{})
	fillHackathon(m)
	m.nav.Machine().SetStep(form.StepPreview)

	out := ansi.Strip(renderHeader(m.nav.Machine().State(), 60))
	assert.Contains(t, out, "Step 4 of 4: Preview")
	assert.Contains(t, out, "✓ Type")
	assert.Contains(t, out, "✓ Basics")
	assert.Contains(t, out, "✓ Details")
	assert.Contains(t, out, "100%")
}

func TestNavButtons(t *testing.T) {
	m := newTestWizard(t, &recorder{}, &recorder{}, Options{})

	buttons := navButtons(m.nav)
	assert.Len(t, buttons, 2, "no draft button on the first step")
	assert.Equal(t, "← Cancel", buttons[0].Label)
	assert.Equal(t, ButtonDisabled, buttons[1].State)

	fillHackathon(m)
	m.nav.Machine().SetStep(form.StepPreview)
	buttons = navButtons(m.nav)
	assert.Len(t, buttons, 3)
	assert.Equal(t, "← Back", buttons[0].Label)
	assert.Equal(t, ButtonNormal, buttons[1].State)
	assert.Equal(t, "Create Beacon →", buttons[2].Label)
	assert.Equal(t, ButtonFocused, buttons[2].State)

	bar := NewButtonBar(buttons)
	bar.SetWidth(80)
	out := ansi.Strip(bar.Render())
	assert.Contains(t, out, "Save draft (ctrl+s)")
	assert.Contains(t, out, "Create Beacon → (enter)")
}

package wizard

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/beacon/internal/form"
	"github.com/mark3labs/beacon/internal/tui/theme"
)

// renderHeader renders the step indicator and the progress bar.
func renderHeader(s form.State, width int) string {
	styles := theme.Current().S()
	done := form.CompletedSteps(s)

	parts := make([]string, 0, len(form.Steps()))
	for _, step := range form.Steps() {
		label := fmt.Sprintf("%d %s", int(step), step.Title())
		switch {
		case step == s.CurrentStep:
			parts = append(parts, styles.StepActive.Render(label))
		case slices.Contains(done, step):
			parts = append(parts, styles.StepDone.Render("✓ "+step.Title()))
		default:
			parts = append(parts, styles.StepPending.Render(label))
		}
	}
	indicator := strings.Join(parts, styles.StepPending.Render(" ─ "))

	title := styles.HeaderTitle.Render(fmt.Sprintf("New Beacon - Step %d of %d: %s",
		int(s.CurrentStep), len(form.Steps()), s.CurrentStep.Title()))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		indicator,
		renderProgress(form.Progress(s.CurrentStep), width),
	)
}

// renderProgress renders a bar of width cells filled to pct percent.
func renderProgress(pct float64, width int) string {
	styles := theme.Current().S()
	label := fmt.Sprintf(" %3.0f%%", pct)
	filled, total := progressCells(pct, width-len(label))

	return styles.ProgressFilled.Render(strings.Repeat("━", filled)) +
		styles.ProgressEmpty.Render(strings.Repeat("━", total-filled)) +
		styles.Label.Render(label)
}

// progressCells returns how many of the bar's cells are filled. Bars are at
// least 10 cells wide.
func progressCells(pct float64, width int) (filled, total int) {
	total = max(width, 10)
	filled = int(pct / 100 * float64(total))
	return min(max(filled, 0), total), total
}

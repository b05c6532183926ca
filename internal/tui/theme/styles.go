package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	StepActive  lipgloss.Style
	StepDone    lipgloss.Style
	StepPending lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style

	ModalContainer lipgloss.Style
	ModalTitle     lipgloss.Style

	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	Help         lipgloss.Style
	FieldError   lipgloss.Style
	ListItem     lipgloss.Style
	Selected     lipgloss.Style

	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style

	ErrorBanner lipgloss.Style
	Toast       lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	button := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)

	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		StepActive:  lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		StepDone:    lipgloss.NewStyle().Foreground(c(t.Success)),
		StepPending: lipgloss.NewStyle().Foreground(c(t.FgMuted)),

		ProgressFilled: lipgloss.NewStyle().Foreground(c(t.Primary)),
		ProgressEmpty:  lipgloss.NewStyle().Foreground(c(t.BgSurface1)),

		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BorderFocused)).
			Background(c(t.BgBase)).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true).
			Align(lipgloss.Center),

		Label:        lipgloss.NewStyle().Foreground(c(t.FgSubtle)),
		LabelFocused: lipgloss.NewStyle().Foreground(c(t.Secondary)).Bold(true),
		Help:         lipgloss.NewStyle().Foreground(c(t.FgMuted)).Italic(true),
		FieldError:   lipgloss.NewStyle().Foreground(c(t.Error)),
		ListItem:     lipgloss.NewStyle().Foreground(c(t.FgBase)),
		Selected:     lipgloss.NewStyle().Foreground(c(t.BgBase)).Background(c(t.Secondary)).Bold(true),

		ButtonNormal: button.
			Foreground(c(t.FgBase)).
			Background(c(t.BgSurface0)),
		ButtonDisabled: button.
			Foreground(c(t.FgMuted)).
			Background(c(t.BgMantle)),
		ButtonFocused: button.
			Foreground(c(t.BgBase)).
			Background(c(t.Secondary)).
			Bold(true),

		ErrorBanner: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Error)).
			Bold(true).
			Padding(0, 1),
		Toast: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Success)).
			Padding(0, 1),

		HintKey:       lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Bold(true),
		HintDesc:      lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().Foreground(c(t.BgSurface2)),
	}
}

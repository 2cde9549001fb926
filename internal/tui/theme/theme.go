package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // lipgloss.Color is a string type
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgCrust    string
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string
	BgOverlay  string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Border colors
	BorderMuted   string
	BorderDefault string
	BorderFocused string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

var (
	current     *Theme
	currentOnce sync.Once
)

// Current returns the active theme. Only catppuccin-mocha is registered.
func Current() *Theme {
	currentOnce.Do(func() {
		current = NewCatppuccinMocha()
	})
	return current
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	button := lipgloss.NewStyle().
		Padding(0, 2).
		Margin(0, 1)

	return &Styles{
		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocused)).
			Background(lipgloss.Color(t.BgBase)).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		StepCompleted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		StepCurrent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		StepUpcoming: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
		StepSeparator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgSurface2)),
		Button: button.
			Foreground(lipgloss.Color(t.FgBase)).
			Background(lipgloss.Color(t.BgSurface0)),
		ButtonDisabled: button.
			Foreground(lipgloss.Color(t.BgOverlay)).
			Background(lipgloss.Color(t.BgMantle)),
		ButtonFocused: button.
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Tertiary)).
			Bold(true),
		HintKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)).
			Bold(true),
		HintDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgBase)),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderDefault)).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocused)).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
	}
}

package theme

import "charm.land/lipgloss/v2"

// Styles contains the pre-built lipgloss styles shared by wizard screens.
type Styles struct {
	ModalContainer lipgloss.Style
	ModalTitle     lipgloss.Style

	// Progress breadcrumb
	StepCompleted lipgloss.Style
	StepCurrent   lipgloss.Style
	StepUpcoming  lipgloss.Style
	StepSeparator lipgloss.Style

	// Control buttons
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style

	// Hint bar
	HintKey  lipgloss.Style
	HintDesc lipgloss.Style

	// Forms
	Label        lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Notices
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

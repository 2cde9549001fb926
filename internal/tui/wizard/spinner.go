package wizard

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
)

// Spinner wraps bubbles spinner with convenience methods
type Spinner struct {
	model spinner.Model
}

// NewSpinner creates a new spinner with the given style
func NewSpinner(style spinner.Spinner) Spinner {
	t := theme.Current()
	s := spinner.New(
		spinner.WithSpinner(style),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary))),
	)
	return Spinner{model: s}
}

// NewDefaultSpinner creates a spinner with MiniDot style
func NewDefaultSpinner() Spinner {
	return NewSpinner(spinner.MiniDot)
}

// Update handles spinner tick messages
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return cmd
}

// View renders the current spinner frame
func (s *Spinner) View() string {
	return s.model.View()
}

// Tick returns the tick command to start animation
func (s *Spinner) Tick() tea.Cmd {
	return s.model.Tick
}

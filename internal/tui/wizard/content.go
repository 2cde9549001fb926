package wizard

import tea "charm.land/bubbletea/v2"

// Content is the renderable body of a step. It follows the same shape as
// the other embedded components: Update returns only a command and View
// returns a string for the wizard to frame.
type Content interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Sizer is implemented by content that reflows on resize.
type Sizer interface {
	SetSize(width, height int)
}

// Mounter is implemented by content whose first render depends on
// asynchronous work. Mount is called when the content is attached
// off-screen; the content must run ready exactly when it can be shown.
// Content that never runs ready keeps the transition in the exiting phase.
type Mounter interface {
	Mount(ready tea.Cmd) tea.Cmd
}

// Step is a single page of the wizard.
type Step struct {
	Key     string
	Label   string // Display label; falls back to Key
	Content Content
}

// DisplayLabel returns the label shown in progress indicators.
func (s Step) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Key
}

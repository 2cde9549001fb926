package wizard

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
	"github.com/mark3labs/frontdesk/internal/wizard"
)

// ProgressItem is one step as seen by a progress renderer.
type ProgressItem struct {
	Key    string
	Label  string
	Status wizard.StepStatus
}

// ProgressProps is what the shell hands to the progress slot.
type ProgressProps struct {
	Steps []ProgressItem
	// GoToStep jumps to key without validation. Which targets to offer is
	// the renderer's policy.
	GoToStep func(key string) tea.Cmd
}

// ProgressRenderer draws progress and may turn key presses into jumps.
type ProgressRenderer interface {
	RenderProgress(p ProgressProps, width int) string
	HandleProgressKey(msg tea.KeyPressMsg, p ProgressProps) (cmd tea.Cmd, handled bool)
}

// ControlsProps is what the shell hands to the controls slot.
type ControlsProps struct {
	IsFirst bool
	IsLast  bool
	Pending bool // A forward move is being validated
	GoBack  func() tea.Cmd
	GoNext  func() tea.Cmd
}

// ControlsRenderer draws navigation controls and maps keys to them.
type ControlsRenderer interface {
	RenderControls(p ControlsProps, width int) string
	HandleControlsKey(msg tea.KeyPressMsg, p ControlsProps) (cmd tea.Cmd, handled bool)
}

// ProgressFunc adapts a plain render function to ProgressRenderer. It
// handles no keys.
type ProgressFunc func(p ProgressProps, width int) string

func (f ProgressFunc) RenderProgress(p ProgressProps, width int) string { return f(p, width) }

func (f ProgressFunc) HandleProgressKey(tea.KeyPressMsg, ProgressProps) (tea.Cmd, bool) {
	return nil, false
}

// ControlsFunc adapts a plain render function to ControlsRenderer, with the
// default key bindings.
type ControlsFunc func(p ControlsProps, width int) string

func (f ControlsFunc) RenderControls(p ControlsProps, width int) string { return f(p, width) }

func (f ControlsFunc) HandleControlsKey(msg tea.KeyPressMsg, p ControlsProps) (tea.Cmd, bool) {
	return handleNavKey(msg, p)
}

// BreadcrumbProgress renders "✓ 1 Guest › ● 2 Party › ○ 3 Confirm".
// alt+<n> jumps back to completed step n; upcoming steps are never offered.
type BreadcrumbProgress struct{}

func (BreadcrumbProgress) RenderProgress(p ProgressProps, width int) string {
	s := theme.Current().S()

	parts := make([]string, 0, len(p.Steps))
	for i, item := range p.Steps {
		switch item.Status {
		case wizard.StatusCompleted:
			parts = append(parts, s.StepCompleted.Render(fmt.Sprintf("✓ %d %s", i+1, item.Label)))
		case wizard.StatusCurrent:
			parts = append(parts, s.StepCurrent.Render(fmt.Sprintf("● %d %s", i+1, item.Label)))
		default:
			parts = append(parts, s.StepUpcoming.Render(fmt.Sprintf("○ %d %s", i+1, item.Label)))
		}
	}
	return strings.Join(parts, s.StepSeparator.Render(" › "))
}

func (BreadcrumbProgress) HandleProgressKey(msg tea.KeyPressMsg, p ProgressProps) (tea.Cmd, bool) {
	digit, ok := strings.CutPrefix(msg.String(), "alt+")
	if !ok {
		return nil, false
	}
	n, err := strconv.Atoi(digit)
	if err != nil || n < 1 || n > len(p.Steps) {
		return nil, false
	}
	item := p.Steps[n-1]
	if item.Status != wizard.StatusCompleted || p.GoToStep == nil {
		return nil, false
	}
	return p.GoToStep(item.Key), true
}

// ButtonControls renders a Back/Next button bar with a hint line.
type ButtonControls struct {
	NextLabel   string // Defaults to "Next →"
	FinishLabel string // Defaults to "Finish"
}

func (b ButtonControls) RenderControls(p ControlsProps, width int) string {
	label := b.NextLabel
	if label == "" {
		label = "Next →"
	}
	if p.IsLast {
		label = b.FinishLabel
		if label == "" {
			label = "Finish"
		}
	}

	buttons := CreateBackNextButtons(!p.IsFirst && !p.Pending, !p.Pending, label)
	if p.Pending {
		buttons[1].State = ButtonBusy
	}
	bar := NewButtonBar(buttons)
	bar.SetWidth(width)

	hints := renderHintBar("enter", strings.ToLower(strings.TrimSuffix(label, " →")), "esc", "back", "ctrl+c", "quit")
	return bar.Render() + "\n" + hints
}

func (ButtonControls) HandleControlsKey(msg tea.KeyPressMsg, p ControlsProps) (tea.Cmd, bool) {
	return handleNavKey(msg, p)
}

// handleNavKey is the default controls key map.
func handleNavKey(msg tea.KeyPressMsg, p ControlsProps) (tea.Cmd, bool) {
	if p.Pending {
		return nil, false
	}
	switch msg.String() {
	case "enter", "ctrl+n":
		if p.GoNext != nil {
			return p.GoNext(), true
		}
	case "esc", "ctrl+b":
		if p.IsFirst {
			return nil, false
		}
		if p.GoBack != nil {
			return p.GoBack(), true
		}
	}
	return nil, false
}

package wizard

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/frontdesk/internal/logger"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
	"github.com/mark3labs/frontdesk/internal/wizard"
)

// Phase is the animation lifecycle stage between two steps' content.
type Phase int

const (
	PhaseStable Phase = iota
	PhaseExiting
	PhaseEntering
)

func (p Phase) String() string {
	switch p {
	case PhaseExiting:
		return "exiting"
	case PhaseEntering:
		return "entering"
	default:
		return "stable"
	}
}

// frameInterval stands in for the first paint of content that does not
// report its own readiness.
const frameInterval = time.Second / 60

// slideOffset is the column shift used to draw the slide.
const slideOffset = 2

// AnimationConfig selects the transition policy.
type AnimationConfig struct {
	Enabled bool
	Exit    time.Duration // Exit phase duration
	Enter   time.Duration // Enter phase duration
}

// DefaultAnimation returns the default animation timings.
func DefaultAnimation() AnimationConfig {
	return AnimationConfig{
		Enabled: true,
		Exit:    150 * time.Millisecond,
		Enter:   150 * time.Millisecond,
	}
}

// MountedMsg reports that the pending content for Key has committed its
// first render. Gen ties the signal to one transition.
type MountedMsg struct {
	Key string
	Gen uint64
}

type exitElapsedMsg struct{ gen uint64 }

type enterElapsedMsg struct{ gen uint64 }

// Coordinator animates between the displayed step content and the next one.
// Incoming content is attached off-screen and only swapped in once it has
// mounted and the exit phase has run its full duration.
//
// Invariant: pending is non-nil iff phase == PhaseExiting.
type Coordinator struct {
	anim      AnimationConfig
	phase     Phase
	direction wizard.Direction

	displayed    Content
	displayedKey string
	pending      Content
	pendingKey   string

	mounted     bool
	exitElapsed bool

	gen    uint64             // Identity of the in-flight transition
	ctx    context.Context    // Lifetime of the in-flight transition's timers
	cancel context.CancelFunc // Cancels ctx
}

// NewCoordinator creates a coordinator with the given animation policy.
func NewCoordinator(anim AnimationConfig) *Coordinator {
	return &Coordinator{anim: anim}
}

// Show displays content immediately, without any transition.
func (c *Coordinator) Show(key string, content Content) tea.Cmd {
	c.abandon()
	c.phase = PhaseStable
	c.direction = wizard.DirectionNone
	c.displayed = content
	c.displayedKey = key
	return content.Init()
}

// Transition moves towards the content for key. Calling it again before the
// previous transition settles abandons that transition.
func (c *Coordinator) Transition(key string, content Content, dir wizard.Direction) tea.Cmd {
	if c.displayed == nil {
		return c.Show(key, content)
	}
	if !c.anim.Enabled {
		if key == c.displayedKey {
			return nil
		}
		return c.Show(key, content)
	}

	switch {
	case c.phase == PhaseExiting && key == c.pendingKey:
		return nil
	case key == c.displayedKey && c.phase != PhaseExiting:
		return nil
	case key == c.displayedKey:
		// Navigated back to what is still on screen.
		logger.Debug("Transition to %s abandoned, returning to %s", c.pendingKey, key)
		c.abandon()
		c.phase = PhaseStable
		return nil
	}

	c.abandon()
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.gen++
	c.phase = PhaseExiting
	c.direction = dir
	c.pending = content
	c.pendingKey = key
	c.mounted = false
	c.exitElapsed = false

	logger.Debug("Transition %d: %s -> %s (%s)", c.gen, c.displayedKey, key, dir)

	return tea.Batch(
		content.Init(),
		c.mount(key, content),
		after(c.ctx, c.anim.Exit, exitElapsedMsg{gen: c.gen}),
	)
}

// mount attaches content off-screen and arranges for its MountedMsg.
func (c *Coordinator) mount(key string, content Content) tea.Cmd {
	signal := MountedMsg{Key: key, Gen: c.gen}
	if m, ok := content.(Mounter); ok {
		return m.Mount(func() tea.Msg { return signal })
	}
	return after(c.ctx, frameInterval, signal)
}

// abandon drops the in-flight transition and stops its timers.
func (c *Coordinator) abandon() {
	c.Stop()
	if c.pending != nil {
		c.gen++
	}
	c.pending = nil
	c.pendingKey = ""
	c.mounted = false
	c.exitElapsed = false
}

// Update handles the coordinator's own messages. handled is false for
// anything else.
func (c *Coordinator) Update(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	switch msg := msg.(type) {
	case MountedMsg:
		if msg.Gen != c.gen || msg.Key != c.pendingKey || c.phase != PhaseExiting || c.mounted {
			logger.Debug("Ignoring stale mount signal for %s (gen %d, now %d)", msg.Key, msg.Gen, c.gen)
			return nil, true
		}
		c.mounted = true
		return c.maybeEnter(), true

	case exitElapsedMsg:
		if msg.gen != c.gen || c.phase != PhaseExiting {
			return nil, true
		}
		c.exitElapsed = true
		return c.maybeEnter(), true

	case enterElapsedMsg:
		if msg.gen != c.gen || c.phase != PhaseEntering {
			return nil, true
		}
		c.phase = PhaseStable
		c.Stop()
		return nil, true
	}
	return nil, false
}

// maybeEnter swaps in the pending content once it is mounted and the exit
// phase has elapsed.
func (c *Coordinator) maybeEnter() tea.Cmd {
	if !c.mounted || !c.exitElapsed {
		return nil
	}

	c.displayed = c.pending
	c.displayedKey = c.pendingKey
	c.pending = nil
	c.pendingKey = ""
	c.phase = PhaseEntering

	return after(c.ctx, c.anim.Enter, enterElapsedMsg{gen: c.gen})
}

// Stop cancels any running timers. The coordinator keeps its content.
func (c *Coordinator) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
		c.ctx = nil
	}
}

// Phase returns the current animation phase.
func (c *Coordinator) Phase() Phase { return c.phase }

// Direction returns the direction of the current or last transition.
func (c *Coordinator) Direction() wizard.Direction { return c.direction }

// Displayed returns the content currently on screen.
func (c *Coordinator) Displayed() Content { return c.displayed }

// DisplayedKey returns the key of the content currently on screen.
func (c *Coordinator) DisplayedKey() string { return c.displayedKey }

// Pending returns the off-screen content, if a transition is exiting.
func (c *Coordinator) Pending() Content { return c.pending }

// PendingKey returns the key of the off-screen content.
func (c *Coordinator) PendingKey() string { return c.pendingKey }

// Settled reports whether no transition is in flight.
func (c *Coordinator) Settled() bool { return c.phase == PhaseStable }

// View renders the displayed content styled for the current phase. Exiting
// content fades and slides toward the direction of travel; entering content
// arrives from the opposite side.
func (c *Coordinator) View() string {
	if c.displayed == nil {
		return ""
	}
	return phaseStyle(c.phase, c.direction).Render(c.displayed.View())
}

func phaseStyle(phase Phase, dir wizard.Direction) lipgloss.Style {
	style := lipgloss.NewStyle().MarginLeft(slideOffset)
	if dir == wizard.DirectionNone {
		return style
	}

	towards, away := 0, 2*slideOffset
	if dir == wizard.DirectionBackward {
		towards, away = away, towards
	}

	switch phase {
	case PhaseExiting:
		t := theme.Current()
		return style.
			MarginLeft(towards).
			Faint(true).
			Foreground(lipgloss.Color(theme.InterpolateColor(t.FgBase, t.BgBase, 0.5)))
	case PhaseEntering:
		return style.MarginLeft(away)
	}
	return style
}

// after returns a command that delivers msg after d unless ctx is cancelled
// first, in which case it delivers nothing.
func after(ctx context.Context, d time.Duration, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

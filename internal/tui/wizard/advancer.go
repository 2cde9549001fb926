package wizard

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/frontdesk/internal/wizard"
)

// CompletedMsg is sent when forward progress is confirmed on the last step.
type CompletedMsg struct{}

// StepRejectedMsg is sent when a step's validator resolved false.
type StepRejectedMsg struct {
	Step string
}

// StepErrorMsg is sent when a step's validator could not complete.
// Err is a *wizard.ValidationError.
type StepErrorMsg struct {
	Step string
	Err  error
}

// Advancer decides whether the wizard may move forward. The shell never
// validates on its own; it calls Next and offers every message to Resolve.
type Advancer interface {
	// Next starts a forward move from the current step.
	Next() tea.Cmd
	// Resolve handles messages produced by Next's commands.
	Resolve(msg tea.Msg) (cmd tea.Cmd, handled bool)
	// Pending reports whether a forward move is still being decided.
	Pending() bool
}

// AdvancerFactory builds an Advancer for the shell's controller.
type AdvancerFactory func(ctrl *wizard.Controller) Advancer

// Ungated is the AdvancerFactory used when none is given: every forward
// move is allowed.
func Ungated(ctrl *wizard.Controller) Advancer {
	return &ungatedAdvancer{ctrl: ctrl}
}

type ungatedAdvancer struct {
	ctrl *wizard.Controller
}

func (a *ungatedAdvancer) Next() tea.Cmd {
	if a.ctrl.IsLast() {
		return emit(CompletedMsg{})
	}
	a.ctrl.GoNext()
	return nil
}

func (a *ungatedAdvancer) Resolve(tea.Msg) (tea.Cmd, bool) { return nil, false }

func (a *ungatedAdvancer) Pending() bool { return false }

// Gated returns an AdvancerFactory that runs validators through a
// wizard.Gate. Validators run inside commands, off the update loop, with ctx.
func Gated(ctx context.Context, validators map[string]wizard.Validator) AdvancerFactory {
	return func(ctrl *wizard.Controller) Advancer {
		return NewGateAdvancer(ctx, wizard.NewGate(ctrl, validators))
	}
}

// validatedMsg carries a finished attempt back to the update loop.
type validatedMsg struct {
	result wizard.Result
}

// GateAdvancer adapts a wizard.Gate to the bubbletea update loop.
type GateAdvancer struct {
	ctx  context.Context
	gate *wizard.Gate
}

// NewGateAdvancer creates an advancer backed by gate.
func NewGateAdvancer(ctx context.Context, gate *wizard.Gate) *GateAdvancer {
	return &GateAdvancer{ctx: ctx, gate: gate}
}

// Next begins an attempt and returns the command that validates it.
func (a *GateAdvancer) Next() tea.Cmd {
	attempt := a.gate.Begin("")
	return func() tea.Msg {
		return validatedMsg{result: attempt.Run(a.ctx)}
	}
}

// Resolve commits finished attempts and reports their outcome.
func (a *GateAdvancer) Resolve(msg tea.Msg) (tea.Cmd, bool) {
	v, ok := msg.(validatedMsg)
	if !ok {
		return nil, false
	}

	outcome, err := a.gate.Commit(v.result)
	switch outcome {
	case wizard.OutcomeSuccess:
		if v.result.Final {
			return emit(CompletedMsg{}), true
		}
	case wizard.OutcomeFailure:
		return emit(StepRejectedMsg{Step: v.result.Step}), true
	case wizard.OutcomeError:
		return emit(StepErrorMsg{Step: v.result.Step, Err: err}), true
	}
	return nil, true
}

// Pending reports whether an attempt is in flight.
func (a *GateAdvancer) Pending() bool {
	return a.gate.Pending()
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

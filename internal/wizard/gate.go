package wizard

import (
	"context"
	"fmt"

	"github.com/mark3labs/frontdesk/internal/logger"
)

// Validator decides whether a step's input allows moving forward. Returning
// false means the input is invalid; returning an error means the check itself
// could not complete.
type Validator func(ctx context.Context) (bool, error)

// Outcome is the result of committing an advance attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota // Validation passed (or was not needed) and the move was applied
	OutcomeFailure                // Validator resolved false; nothing changed
	OutcomeError                  // Validator errored; nothing changed
	OutcomeStale                  // Position changed while validating; result discarded
	OutcomeNoOp                   // Unknown target; nothing to do
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeError:
		return "error"
	case OutcomeStale:
		return "stale"
	case OutcomeNoOp:
		return "noop"
	default:
		return "unknown"
	}
}

// Gate conditions forward navigation on per-step validators. Backward moves
// and same-step jumps are never validated.
type Gate struct {
	ctrl       *Controller
	validators map[string]Validator
	pending    int
}

// NewGate creates a gate over ctrl. Steps missing from validators always pass.
func NewGate(ctrl *Controller, validators map[string]Validator) *Gate {
	v := make(map[string]Validator, len(validators))
	for k, fn := range validators {
		v[k] = fn
	}
	return &Gate{ctrl: ctrl, validators: v}
}

// Attempt is an advance that has been started but not committed. Run may be
// called off the goroutine that owns the controller.
type Attempt struct {
	Step       string // Step being validated
	Target     string // Destination key; empty for unknown targets
	Generation uint64 // Controller generation at Begin
	Final      bool   // Advancing past the last step, i.e. completion
	validate   Validator
}

// Result is the verdict of a finished Attempt.
type Result struct {
	Step       string
	Target     string
	Generation uint64
	Final      bool
	Valid      bool
	Err        error
}

// Begin starts an attempt to move to target. An empty target means "next".
func (g *Gate) Begin(target string) *Attempt {
	g.pending++

	from := g.ctrl.Current()
	a := &Attempt{
		Step:       from,
		Generation: g.ctrl.Generation(),
	}

	if target == "" {
		if g.ctrl.IsLast() {
			a.Final = true
			a.Target = from
		} else {
			a.Target = g.ctrl.keys[g.ctrl.current+1]
		}
	} else if _, ok := g.ctrl.IndexOf(target); ok {
		a.Target = target
	}

	if a.Target == "" {
		return a
	}
	to, _ := g.ctrl.IndexOf(a.Target)
	if a.Final || to > g.ctrl.CurrentIndex() {
		a.validate = g.validators[from]
	}
	return a
}

// Run invokes the validator. It never touches the controller.
func (a *Attempt) Run(ctx context.Context) (r Result) {
	r = Result{
		Step:       a.Step,
		Target:     a.Target,
		Generation: a.Generation,
		Final:      a.Final,
	}
	if a.validate == nil {
		r.Valid = a.Target != ""
		return r
	}

	defer func() {
		if p := recover(); p != nil {
			r.Valid = false
			r.Err = &ValidationError{Step: a.Step, Err: fmt.Errorf("validator panicked: %v", p)}
		}
	}()

	ok, err := a.validate(ctx)
	if err != nil {
		r.Err = &ValidationError{Step: a.Step, Err: err}
		return r
	}
	r.Valid = ok
	return r
}

// Commit applies a finished attempt. Only OutcomeError carries an error,
// always a *ValidationError. Results tagged with an outdated generation are
// discarded as OutcomeStale.
func (g *Gate) Commit(r Result) (Outcome, error) {
	if g.pending > 0 {
		g.pending--
	}

	if r.Generation != g.ctrl.Generation() {
		logger.Debug("Discarding stale validation result for step %s (generation %d, now %d)",
			r.Step, r.Generation, g.ctrl.Generation())
		return OutcomeStale, nil
	}
	if r.Target == "" {
		return OutcomeNoOp, nil
	}
	if r.Err != nil {
		logger.Warn("Validation errored on step %s: %v", r.Step, r.Err)
		return OutcomeError, r.Err
	}
	if !r.Valid {
		logger.Debug("Validation rejected step %s", r.Step)
		return OutcomeFailure, nil
	}

	if r.Final {
		// Terminal step: nothing to move to, the caller completes the flow.
		return OutcomeSuccess, nil
	}
	g.ctrl.GoToStep(r.Target)
	return OutcomeSuccess, nil
}

// Advance validates the current step and moves to the next one.
func (g *Gate) Advance(ctx context.Context) (Outcome, error) {
	return g.Commit(g.Begin("").Run(ctx))
}

// AdvanceTo moves to key, validating the current step first when key lies
// ahead of it.
func (g *Gate) AdvanceTo(ctx context.Context, key string) (Outcome, error) {
	return g.Commit(g.Begin(key).Run(ctx))
}

// Pending reports whether any attempt has begun without being committed.
func (g *Gate) Pending() bool {
	return g.pending > 0
}

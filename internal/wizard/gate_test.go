package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constValidator(ok bool, err error) Validator {
	return func(context.Context) (bool, error) { return ok, err }
}

func TestGate_FalseValidatorDoesNotMove(t *testing.T) {
	c := newABC(t)
	g := NewGate(c, map[string]Validator{"A": constValidator(false, nil)})

	outcome, err := g.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, outcome)
	assert.Equal(t, 0, c.CurrentIndex())
	assert.False(t, g.Pending())
}

func TestGate_TrueValidatorAdvancesByOne(t *testing.T) {
	c := newABC(t)
	g := NewGate(c, map[string]Validator{"A": constValidator(true, nil)})

	outcome, err := g.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, 1, c.CurrentIndex())
	assert.Equal(t, DirectionForward, c.LastDirection())
}

func TestGate_ValidatorErrorIsDistinct(t *testing.T) {
	cause := errors.New("uniqueness service unreachable")
	c := newABC(t)
	g := NewGate(c, map[string]Validator{"A": constValidator(false, cause)})

	outcome, err := g.Advance(context.Background())
	require.Error(t, err)
	assert.Equal(t, OutcomeError, outcome)
	assert.Equal(t, 0, c.CurrentIndex())

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "A", vErr.Step)
	assert.ErrorIs(t, err, cause)

	// A plain false result carries no error at all.
	g = NewGate(c, map[string]Validator{"A": constValidator(false, nil)})
	outcome, err = g.Advance(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeFailure, outcome)
	assert.Equal(t, 0, c.CurrentIndex())
}

func TestGate_ValidatorPanicBecomesValidationError(t *testing.T) {
	c := newABC(t)
	g := NewGate(c, map[string]Validator{"A": func(context.Context) (bool, error) {
		panic("boom")
	}})

	outcome, err := g.Advance(context.Background())
	assert.Equal(t, OutcomeError, outcome)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Error(), "boom")
	assert.Equal(t, 0, c.CurrentIndex())
}

func TestGate_MissingValidatorPasses(t *testing.T) {
	c := newABC(t)
	g := NewGate(c, nil)

	outcome, err := g.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, "B", c.Current())
}

func TestGate_BackwardAndSameStepAreNeverValidated(t *testing.T) {
	c := newABC(t)
	c.GoToStep("C")

	calls := 0
	reject := func(context.Context) (bool, error) {
		calls++
		return false, nil
	}
	g := NewGate(c, map[string]Validator{"A": reject, "B": reject, "C": reject})

	outcome, err := g.AdvanceTo(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, "A", c.Current())
	assert.Equal(t, DirectionBackward, c.LastDirection())

	outcome, err = g.AdvanceTo(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, DirectionNone, c.LastDirection())

	assert.Zero(t, calls)
}

func TestGate_ForwardJumpValidatesCurrentStep(t *testing.T) {
	c := newABC(t)

	var validated []string
	record := func(key string) Validator {
		return func(context.Context) (bool, error) {
			validated = append(validated, key)
			return true, nil
		}
	}
	g := NewGate(c, map[string]Validator{"A": record("A"), "B": record("B")})

	outcome, err := g.AdvanceTo(context.Background(), "C")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Equal(t, "C", c.Current())
	assert.Equal(t, []string{"A"}, validated)
}

func TestGate_UnknownTargetIsNoOp(t *testing.T) {
	c := newABC(t)
	g := NewGate(c, map[string]Validator{"A": constValidator(true, nil)})

	outcome, err := g.AdvanceTo(context.Background(), "Z")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoOp, outcome)
	assert.Equal(t, 0, c.CurrentIndex())
}

func TestGate_FinalStepReportsCompletionWithoutMoving(t *testing.T) {
	c, err := NewController([]string{"A", "B"}, "B")
	require.NoError(t, err)
	g := NewGate(c, map[string]Validator{"B": constValidator(true, nil)})

	attempt := g.Begin("")
	require.True(t, attempt.Final)

	result := attempt.Run(context.Background())
	outcome, err := g.Commit(result)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.True(t, result.Final)
	assert.Equal(t, 1, c.CurrentIndex())
}

func TestGate_StaleResultIsDiscarded(t *testing.T) {
	c := newABC(t)
	g := NewGate(c, map[string]Validator{"A": constValidator(true, nil)})

	attempt := g.Begin("")
	require.True(t, g.Pending())

	// The user retreats/jumps while validation is in flight.
	c.GoToStep("C")
	c.GoToStep("A")

	outcome, err := g.Commit(attempt.Run(context.Background()))
	require.NoError(t, err)
	assert.Equal(t, OutcomeStale, outcome)
	assert.Equal(t, "A", c.Current())
	assert.Equal(t, DirectionBackward, c.LastDirection())
	assert.False(t, g.Pending())
}

func TestGate_StaleErrorIsNotSurfaced(t *testing.T) {
	c := newABC(t)
	g := NewGate(c, map[string]Validator{"A": constValidator(false, errors.New("late failure"))})

	attempt := g.Begin("")
	c.GoNext()

	outcome, err := g.Commit(attempt.Run(context.Background()))
	assert.NoError(t, err)
	assert.Equal(t, OutcomeStale, outcome)
}

func TestGate_RunPassesContext(t *testing.T) {
	type ctxKey struct{}
	c := newABC(t)

	var seen any
	g := NewGate(c, map[string]Validator{"A": func(ctx context.Context) (bool, error) {
		seen = ctx.Value(ctxKey{})
		return true, nil
	}})

	ctx := context.WithValue(context.Background(), ctxKey{}, "front-desk")
	_, err := g.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "front-desk", seen)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "failure", OutcomeFailure.String())
	assert.Equal(t, "error", OutcomeError.String())
	assert.Equal(t, "stale", OutcomeStale.String())
	assert.Equal(t, "noop", OutcomeNoOp.String())
}

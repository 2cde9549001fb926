package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newABC(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	c, err := NewController([]string{"A", "B", "C"}, "", opts...)
	require.NoError(t, err)
	return c
}

func TestNewController_RejectsBadStepLists(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		key  string
	}{
		{name: "empty list", keys: nil},
		{name: "empty key", keys: []string{"A", ""}},
		{name: "duplicate key", keys: []string{"A", "B", "A"}, key: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewController(tt.keys, "")
			require.Nil(t, c)
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %T", err)
			assert.Equal(t, tt.key, cfgErr.Key)
		})
	}
}

func TestNewController_DefaultStep(t *testing.T) {
	c, err := NewController([]string{"A", "B", "C"}, "B")
	require.NoError(t, err)
	assert.Equal(t, 1, c.CurrentIndex())
	assert.Equal(t, "B", c.Current())
	assert.Equal(t, DirectionNone, c.LastDirection(), "initial mount has no direction")

	c, err = NewController([]string{"A", "B", "C"}, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, c.CurrentIndex(), "unknown default falls back to first step")
}

func TestNewController_CopiesKeys(t *testing.T) {
	keys := []string{"A", "B"}
	c, err := NewController(keys, "")
	require.NoError(t, err)

	keys[0] = "Z"
	assert.Equal(t, "A", c.Current())

	got := c.Keys()
	got[1] = "Y"
	assert.Equal(t, []string{"A", "B"}, c.Keys())
}

func TestController_ProgressIsPositional(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	for start := range keys {
		c, err := NewController(keys, keys[start])
		require.NoError(t, err)

		progress := c.Progress()
		require.Len(t, progress, len(keys))

		currents := 0
		for i, entry := range progress {
			assert.Equal(t, keys[i], entry.Key)
			switch {
			case i < start:
				assert.Equal(t, StatusCompleted, entry.Status, "index %d at current %d", i, start)
			case i == start:
				assert.Equal(t, StatusCurrent, entry.Status)
				currents++
			default:
				assert.Equal(t, StatusUpcoming, entry.Status, "index %d at current %d", i, start)
			}
		}
		assert.Equal(t, 1, currents, "exactly one current step")
	}
}

func TestController_GoNextOnLastIsNoOp(t *testing.T) {
	c, err := NewController([]string{"A", "B", "C"}, "B")
	require.NoError(t, err)

	require.True(t, c.GoNext())
	require.True(t, c.IsLast())
	require.Equal(t, DirectionForward, c.LastDirection())
	gen := c.Generation()

	assert.False(t, c.GoNext())
	assert.Equal(t, 2, c.CurrentIndex())
	assert.Equal(t, DirectionForward, c.LastDirection())
	assert.Equal(t, gen, c.Generation())
}

func TestController_GoBackOnFirstIsNoOp(t *testing.T) {
	c := newABC(t)
	require.True(t, c.IsFirst())

	assert.False(t, c.GoBack())
	assert.Equal(t, 0, c.CurrentIndex())
	assert.Equal(t, DirectionNone, c.LastDirection())
	assert.Equal(t, uint64(0), c.Generation())
}

func TestController_GoToUnknownStepIsNoOp(t *testing.T) {
	c := newABC(t)
	c.GoNext()

	assert.False(t, c.GoToStep("Z"))
	assert.Equal(t, 1, c.CurrentIndex())
	assert.Equal(t, DirectionForward, c.LastDirection())
}

func TestController_NextBackRoundTrip(t *testing.T) {
	c := newABC(t)

	require.True(t, c.GoNext())
	require.True(t, c.GoBack())

	assert.Equal(t, 0, c.CurrentIndex())
	assert.Equal(t, DirectionBackward, c.LastDirection())
	assert.Equal(t, uint64(2), c.Generation())
}

func TestController_GoToStepDirections(t *testing.T) {
	c := newABC(t)

	require.True(t, c.GoToStep("C"))
	assert.Equal(t, DirectionForward, c.LastDirection())
	assert.Equal(t, "C", c.Current())

	require.True(t, c.GoToStep("A"))
	assert.Equal(t, DirectionBackward, c.LastDirection())

	gen := c.Generation()
	assert.False(t, c.GoToStep("A"))
	assert.Equal(t, DirectionNone, c.LastDirection())
	assert.Equal(t, gen, c.Generation(), "no movement keeps the generation")
}

func TestController_DirectionTrackingDisabled(t *testing.T) {
	c := newABC(t, WithDirectionTracking(false))

	c.GoNext()
	assert.Equal(t, DirectionNone, c.LastDirection())
	c.GoToStep("C")
	assert.Equal(t, DirectionNone, c.LastDirection())
	c.GoBack()
	assert.Equal(t, DirectionNone, c.LastDirection())
	assert.Equal(t, "B", c.Current())
}

func TestController_SingleStep(t *testing.T) {
	c, err := NewController([]string{"only"}, "")
	require.NoError(t, err)

	assert.True(t, c.IsFirst())
	assert.True(t, c.IsLast())
	assert.False(t, c.GoNext())
	assert.False(t, c.GoBack())
	assert.Equal(t, []ProgressEntry{{Key: "only", Status: StatusCurrent}}, c.Progress())
}

func TestStatusAndDirectionStrings(t *testing.T) {
	assert.Equal(t, "completed", StatusCompleted.String())
	assert.Equal(t, "current", StatusCurrent.String())
	assert.Equal(t, "upcoming", StatusUpcoming.String())
	assert.Equal(t, "forward", DirectionForward.String())
	assert.Equal(t, "backward", DirectionBackward.String())
	assert.Equal(t, "none", DirectionNone.String())
}

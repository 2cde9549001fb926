// Package wizard implements the UI-independent multi-step wizard engine:
// the step sequence controller and the validation gate that conditions
// forward progress on an external check.
package wizard

// Option configures a Controller.
type Option func(*Controller)

// WithDirectionTracking controls whether navigation records a direction.
// When disabled, LastDirection always reports DirectionNone.
func WithDirectionTracking(enabled bool) Option {
	return func(c *Controller) {
		c.trackDirection = enabled
	}
}

// Controller owns a fixed, ordered list of step keys and the current
// position within it. Out-of-range and unknown-key requests are no-ops.
type Controller struct {
	keys           []string
	index          map[string]int
	current        int
	direction      Direction
	trackDirection bool
	generation     uint64 // Bumped whenever current changes
}

// NewController creates a controller over keys, positioned at defaultKey.
// An empty or unknown defaultKey starts at the first step.
func NewController(keys []string, defaultKey string, opts ...Option) (*Controller, error) {
	if len(keys) == 0 {
		return nil, &ConfigurationError{Reason: "at least one step is required"}
	}

	index := make(map[string]int, len(keys))
	for i, k := range keys {
		if k == "" {
			return nil, &ConfigurationError{Reason: "step key must not be empty"}
		}
		if _, dup := index[k]; dup {
			return nil, &ConfigurationError{Reason: "duplicate step key", Key: k}
		}
		index[k] = i
	}

	c := &Controller{
		keys:           append([]string(nil), keys...),
		index:          index,
		trackDirection: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if i, ok := index[defaultKey]; ok {
		c.current = i
	}
	return c, nil
}

// GoNext moves one step forward. Returns false on the last step.
func (c *Controller) GoNext() bool {
	if c.current >= len(c.keys)-1 {
		return false
	}
	c.moveTo(c.current + 1)
	return true
}

// GoBack moves one step backward. Returns false on the first step.
func (c *Controller) GoBack() bool {
	if c.current == 0 {
		return false
	}
	c.moveTo(c.current - 1)
	return true
}

// GoToStep jumps to key, in either direction and any distance. Returns true
// if the position changed. Jumping to the current step resets the direction
// to none; an unknown key changes nothing.
//
// Forward jumps past unvisited steps are permitted here; restricting them is
// the caller's policy.
func (c *Controller) GoToStep(key string) bool {
	target, ok := c.index[key]
	if !ok {
		return false
	}
	if target == c.current {
		c.direction = DirectionNone
		return false
	}
	c.moveTo(target)
	return true
}

func (c *Controller) moveTo(target int) {
	switch {
	case !c.trackDirection:
		c.direction = DirectionNone
	case target > c.current:
		c.direction = DirectionForward
	default:
		c.direction = DirectionBackward
	}
	c.current = target
	c.generation++
}

// Progress returns the status of every step, in order.
func (c *Controller) Progress() []ProgressEntry {
	entries := make([]ProgressEntry, len(c.keys))
	for i, k := range c.keys {
		entries[i] = ProgressEntry{Key: k, Status: statusAt(i, c.current)}
	}
	return entries
}

// IsFirst reports whether the current step is the first one.
func (c *Controller) IsFirst() bool { return c.current == 0 }

// IsLast reports whether the current step is the last one.
func (c *Controller) IsLast() bool { return c.current == len(c.keys)-1 }

// Current returns the key of the current step.
func (c *Controller) Current() string { return c.keys[c.current] }

// CurrentIndex returns the position of the current step.
func (c *Controller) CurrentIndex() int { return c.current }

// LastDirection returns the direction of the most recent navigation.
func (c *Controller) LastDirection() Direction { return c.direction }

// Generation identifies the current position. Async work started for one
// generation must not be applied once it has changed.
func (c *Controller) Generation() uint64 { return c.generation }

// Len returns the number of steps.
func (c *Controller) Len() int { return len(c.keys) }

// Keys returns a copy of the step keys.
func (c *Controller) Keys() []string {
	return append([]string(nil), c.keys...)
}

// IndexOf returns the position of key.
func (c *Controller) IndexOf(key string) (int, bool) {
	i, ok := c.index[key]
	return i, ok
}

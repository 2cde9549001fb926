package wizard

// StepStatus is the positional classification of a step relative to the
// current position.
type StepStatus int

const (
	StatusCompleted StepStatus = iota // Before the current step
	StatusCurrent                     // The current step
	StatusUpcoming                    // After the current step
)

// String returns the lowercase name of the status.
func (s StepStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusCurrent:
		return "current"
	case StatusUpcoming:
		return "upcoming"
	default:
		return "unknown"
	}
}

// Direction is the direction of the most recent committed navigation.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionForward
	DirectionBackward
)

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return "none"
	}
}

// ProgressEntry is the derived status of a single step.
type ProgressEntry struct {
	Key    string
	Status StepStatus
}

// statusAt classifies index i against the current index.
func statusAt(i, current int) StepStatus {
	switch {
	case i < current:
		return StatusCompleted
	case i == current:
		return StatusCurrent
	default:
		return StatusUpcoming
	}
}

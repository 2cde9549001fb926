package wizard

import "fmt"

// ConfigurationError is returned when a wizard is constructed from an
// invalid step list.
type ConfigurationError struct {
	Reason string
	Key    string // Offending key, if any
}

func (e *ConfigurationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("wizard configuration: %s: %q", e.Reason, e.Key)
	}
	return "wizard configuration: " + e.Reason
}

// ValidationError reports that a step validator failed to produce a verdict.
// It is distinct from a validator resolving false: the fields may be fine but
// the check itself could not run.
type ValidationError struct {
	Step string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validating step %q: %v", e.Step, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

package md

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every construction-time validation failure.
var ErrConfiguration = errors.New("md: invalid configuration")

// ConfigurationError describes a rejected construction parameter. No state is
// created when one is returned.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("md: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// Invalid builds a ConfigurationError.
func Invalid(field string, value any, reason string) error {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

// RequirePositive rejects zero, negative and NaN values.
func RequirePositive(field string, v float64) error {
	if !(v > 0) {
		return Invalid(field, v, "must be positive")
	}
	return nil
}

// RequireNonNegative rejects negative and NaN values.
func RequireNonNegative(field string, v float64) error {
	if !(v >= 0) {
		return Invalid(field, v, "must not be negative")
	}
	return nil
}

// Degeneracies counts numerical degeneracies recovered locally during a run.
// They never abort a step.
type Degeneracies struct {
	// ClampedPairs counts pair evaluations with r below the force field floor.
	ClampedPairs int
	// ZeroLengthBonds counts bonds evaluated with coincident particles.
	ZeroLengthBonds int
	// SkippedRescales counts thermostat rescales skipped at zero temperature.
	SkippedRescales int
	// CutoffViolations counts force evaluations run with a cutoff above half
	// the shortest box edge, where the minimum image misses pairs.
	CutoffViolations int
}

func (d Degeneracies) Total() int {
	return d.ClampedPairs + d.ZeroLengthBonds + d.SkippedRescales + d.CutoffViolations
}

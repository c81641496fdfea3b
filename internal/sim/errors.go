package sim

import (
	"errors"
	"fmt"
)

var (
	ErrUnstable      = errors.New("sim: non-finite position or velocity")
	ErrInvalidConfig = errors.New("sim: invalid run config")
)

// StepError records where a run stopped.
type StepError struct {
	Step     int
	Time     float64
	Particle int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g) particle %d: %v", e.Step, e.Time, e.Particle, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

package valueobject

import "fmt"

// MaxStep is the last hourly step of the 31-day simulation window.
const MaxStep = 743

const hoursPerDay = 24

// Step is an hour index into the simulation window, 1-based.
type Step struct {
	value int
}

// DeriveStep converts a calendar day (1..31) and hour (0..23) into a step.
//
// The computed step is clamped to MaxStep. When clamping happens the clamped
// step is returned together with ErrStepExceedsMax so callers can both show
// the value and refuse to predict on it.
func DeriveStep(day, hour int) (Step, error) {
	if day < 1 || day > 31 {
		return Step{}, fmt.Errorf("%w (got %d)", ErrDayOutOfRange, day)
	}
	if hour < 0 || hour >= hoursPerDay {
		return Step{}, fmt.Errorf("%w (got %d)", ErrHourOutOfRange, hour)
	}

	raw := (day-1)*hoursPerDay + hour + 1
	if raw > MaxStep {
		return Step{value: MaxStep}, fmt.Errorf("%w (day %d hour %d gives %d)", ErrStepExceedsMax, day, hour, raw)
	}
	return Step{value: raw}, nil
}

// NewStep validates a raw step value.
func NewStep(v int) (Step, error) {
	if v < 1 || v > MaxStep {
		return Step{}, fmt.Errorf("%w (got %d)", ErrStepOutOfRange, v)
	}
	return Step{value: v}, nil
}

// Int returns the raw step.
func (s Step) Int() int { return s.value }

// Day returns the 1-based day of the step.
func (s Step) Day() int { return (s.value-1)/hoursPerDay + 1 }

// Hour returns the hour of day, 0..23.
func (s Step) Hour() int { return (s.value - 1) % hoursPerDay }

// IsZero returns true if the Step has not been set.
func (s Step) IsZero() bool { return s.value == 0 }

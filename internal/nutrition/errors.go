package nutrition

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTarget matches any *InvalidTargetError.
	ErrInvalidTarget = errors.New("invalid scoring target")
	// ErrUnknownGoal matches any *UnknownGoalError.
	ErrUnknownGoal = errors.New("unknown goal")
	// ErrMalformedNutrient matches any *MalformedNutrientEntryError.
	ErrMalformedNutrient = errors.New("malformed nutrient entry")
)

// InvalidTargetError reports a scoring denominator that is zero or negative.
// It usually means the profile upstream produced a non-positive TEE.
type InvalidTargetError struct {
	Target string
	Value  float64
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid %s target %g: must be positive", e.Target, e.Value)
}

func (e *InvalidTargetError) Is(target error) bool { return target == ErrInvalidTarget }

// UnknownGoalError reports a goal with no weight vector.
type UnknownGoalError struct {
	Goal Goal
}

func (e *UnknownGoalError) Error() string {
	return fmt.Sprintf("unknown goal %q", string(e.Goal))
}

func (e *UnknownGoalError) Is(target error) bool { return target == ErrUnknownGoal }

// MalformedNutrientEntryError describes a nutrient amount that could not be
// read as a non-negative number. The normalizer skips such entries.
type MalformedNutrientEntryError struct {
	SourceID string
	Nutrient string
	Amount   any
	Err      error
}

func (e *MalformedNutrientEntryError) Error() string {
	return fmt.Sprintf("food %s: nutrient %q: amount %v: %v", e.SourceID, e.Nutrient, e.Amount, e.Err)
}

func (e *MalformedNutrientEntryError) Unwrap() error { return e.Err }

func (e *MalformedNutrientEntryError) Is(target error) bool { return target == ErrMalformedNutrient }

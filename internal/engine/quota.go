package engine

import (
	"errors"
	"fmt"
)

// DefaultMaxPasses bounds the passes of one Reduce call.
//
// A well-formed addition problem with left operand n1 settles within n1 + 3
// passes, so the default only trips on runaway input.
const DefaultMaxPasses = 1_000_000

// passQuota counts passes of one Reduce call and enforces the limit.
type passQuota struct {
	maxPasses int
	current   int
}

func newPassQuota(maxPasses int) *passQuota {
	return &passQuota{maxPasses: maxPasses}
}

// Check increments the pass counter and validates against the limit.
func (q *passQuota) Check() error {
	q.current++
	if q.current > q.maxPasses {
		return &PassesExceededError{Passes: q.current, Limit: q.maxPasses}
	}
	return nil
}

// PassesExceededError is returned when Reduce does not reach a fixpoint
// within the configured number of passes.
type PassesExceededError struct {
	Passes int
	Limit  int
}

// Error implements the error interface.
func (e *PassesExceededError) Error() string {
	return fmt.Sprintf("no normal form within %d passes", e.Limit)
}

// IsPassesExceeded returns true if the error is a PassesExceededError.
// Uses errors.As to handle wrapped errors.
func IsPassesExceeded(err error) bool {
	var pe *PassesExceededError
	return errors.As(err, &pe)
}

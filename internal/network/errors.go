package network

import (
	"errors"
	"fmt"

	"github.com/roach88/inet/internal/ir"
)

// ErrIDCollision is returned when the id generator yields an id that is
// already in use. It is a precondition violation of the generator, so
// construction cannot proceed.
var ErrIDCollision = errors.New("id collision")

// CollisionError reports the colliding id.
type CollisionError struct {
	ID ir.NodeID
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: generator returned %s twice", ErrIDCollision, e.ID)
}

// Is makes errors.Is(err, ErrIDCollision) match.
func (e *CollisionError) Is(target error) bool {
	return target == ErrIDCollision
}

// DecodeError reports why a chain could not be read as a natural number.
type DecodeError struct {
	Addr   ir.NodeID
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode at %s: %s", e.Addr, e.Reason)
}

// IsDecodeError returns true if err is or wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

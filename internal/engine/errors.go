package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/network"
)

// RuntimeError represents an error detected while reducing or editing a
// network.
//
// RuntimeError includes structured fields for diagnostics.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Addr is the address involved, if any.
	Addr ir.NodeID

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeMalformedNetwork indicates more than two live records share an
	// address, or two do but no rule matches their kinds.
	ErrCodeMalformedNetwork RuntimeErrorCode = "MALFORMED_NETWORK"

	// ErrCodeInvalidEdit indicates a batch that would remove a record that is
	// not live or over-connect an address.
	ErrCodeInvalidEdit RuntimeErrorCode = "INVALID_EDIT"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if !e.Addr.IsNil() {
		return fmt.Sprintf("%s: %s (addr=%s)", e.Code, e.Message, e.Addr)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMalformedError returns true if the error is a malformed network error.
// Uses errors.As to handle wrapped errors.
func IsMalformedError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeMalformedNetwork
	}
	return false
}

// IsInvalidEdit returns true if the error rejected an edit batch.
// Uses errors.As to handle wrapped errors.
func IsInvalidEdit(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvalidEdit
	}
	return false
}

// IsIDCollision returns true if construction failed because the id
// generator repeated a value.
func IsIDCollision(err error) bool {
	return errors.Is(err, network.ErrIDCollision)
}

// newEditError creates a RuntimeError rejecting op number index of a batch.
func newEditError(index int, op Op, reason string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidEdit,
		Message: reason,
		Addr:    op.Node.Addr,
		Details: map[string]string{
			"op_index": fmt.Sprintf("%d", index),
			"op":       op.Type.String(),
			"record":   op.Node.String(),
		},
	}
}

// Anomaly is a contained MalformedNetwork condition found at one address
// during a pass. The records were re-emitted unchanged.
type Anomaly struct {
	Addr    ir.NodeID `json:"addr"`
	Records []ir.Node `json:"records"`
	Reason  string    `json:"reason"`
}

// Anomaly reasons.
const (
	ReasonStuckPair     = "stuck_pair"
	ReasonOverConnected = "over_connected"
)

// Err converts the anomaly into a RuntimeError.
func (a Anomaly) Err() *RuntimeError {
	msg := fmt.Sprintf("%d live records share the address", len(a.Records))
	if a.Reason == ReasonStuckPair {
		msg = fmt.Sprintf("no rule for %s/%s", a.Records[0].Kind.Tag, a.Records[len(a.Records)-1].Kind.Tag)
	}
	return &RuntimeError{
		Code:    ErrCodeMalformedNetwork,
		Message: msg,
		Addr:    a.Addr,
		Details: map[string]string{"reason": a.Reason},
	}
}

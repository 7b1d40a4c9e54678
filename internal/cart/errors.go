package cart

import (
	"errors"
	"fmt"
)

var (
	ErrNotEditable   = errors.New("cart: session is not in an editable state")
	ErrAlreadyOpen   = errors.New("cart: session already has a unit selected")
	ErrSessionClosed = errors.New("cart: session was closed while the request was in flight")
	ErrFinished      = errors.New("cart: session already finished")
	ErrUnknownStatus = errors.New("cart: unknown status")
	ErrEmptyCart     = errors.New("add at least one product to the cart")
)

// ValidationError rejects an action locally, before any network call.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cart: validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// OperationError carries the operator-facing message of a failed gateway call.
// The session keeps its working state when one is returned.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("cart: %s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

package owner

import (
	"errors"
	"fmt"
)

var (
	ErrNotEditable = errors.New("owner: form is not editable")
	ErrSaving      = errors.New("owner: form is saving and cannot be closed")
	ErrClosed      = errors.New("owner: form was closed")
)

// ValidationError rejects the form before any network call. Details maps a
// field name to its problem.
type ValidationError struct {
	Message string
	Details map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("owner: validation failed: %s", e.Message)
}

// OperationError carries the operator-facing message of a failed gateway
// call. The form keeps its contents when one is returned.
type OperationError struct {
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("owner: %s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

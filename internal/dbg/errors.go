package dbg

import (
	"errors"
	"fmt"
)

// Core errors.
var (
	// ErrAborted indicates the operator chose the abort directive.
	ErrAborted = errors.New("aborted by debugger")

	// ErrNoEvaluator indicates the host supplied no expression evaluator.
	ErrNoEvaluator = errors.New("no evaluator available")

	// ErrNoStackReader indicates the host supplied no stack introspection.
	ErrNoStackReader = errors.New("no stack introspection available")
)

// DispatchError marks a failure raised by the debugger's own dispatch code,
// as opposed to an error surfaced by the host-language evaluator. The
// distinction controls how an error is shown to the operator: dispatch
// failures print their full description, evaluator errors print their own
// default text.
type DispatchError struct {
	Op  string // dispatch operation (e.g. "evaluate", "stack")
	Err error  // underlying error
}

// NewDispatchError wraps err as a failure of the named dispatch operation.
func NewDispatchError(op string, err error) *DispatchError {
	return &DispatchError{Op: op, Err: err}
}

func (e *DispatchError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("debugger %s failed", e.Op)
	}
	return fmt.Sprintf("debugger %s failed: %v", e.Op, e.Err)
}

func (e *DispatchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

package calculation

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks structurally invalid input. Callers match it
// with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// InputError describes which input field was rejected and why
type InputError struct {
	Operation string
	Field     string
	Reason    string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %s", e.Operation, ErrInvalidArgument, e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidArgument) match any InputError
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidArgument(operation, field, format string, args ...any) error {
	return &InputError{
		Operation: operation,
		Field:     field,
		Reason:    fmt.Sprintf(format, args...),
	}
}

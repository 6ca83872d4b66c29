package advisor

import (
	"errors"
	"fmt"
)

// Input errors reported instead of a computed value.
var (
	ErrInvalidIncome       = errors.New("monthly income must be positive")
	ErrInvalidContribution = errors.New("monthly contribution must be positive")
)

// InputError is returned when a heuristic is called with values it cannot use.
type InputError struct {
	Err   error
	Field string
	Value string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v (got %s)", e.Field, e.Err, e.Value)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err is an advisor input error.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}

package avatar

import (
	"errors"
	"fmt"
)

var (
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidFormat   = errors.New("invalid format")
	ErrNotFound        = errors.New("No URL found by specified id")
)

// ArgumentError reports a rejected field. Its message is stable and
// callers may match on it.
type ArgumentError struct {
	Field string
	Kind  error
}

func (e *ArgumentError) Error() string {
	if errors.Is(e.Kind, ErrInvalidFormat) {
		return fmt.Sprintf("`%s` does not appear to be a uuid", e.Field)
	}
	return fmt.Sprintf("`%s` is required", e.Field)
}

func (e *ArgumentError) Unwrap() error {
	return e.Kind
}

func missing(field string) error {
	return &ArgumentError{Field: field, Kind: ErrMissingArgument}
}

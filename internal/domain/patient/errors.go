package patient

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("patient not found")
	ErrConflict        = errors.New("patient id already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidHeight   = errors.New("height must be greater than 0")
)

// ValidationError reports the field that failed and the constraint it violated.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

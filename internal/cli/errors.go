package cli

import (
	"errors"
	"fmt"
)

// CommandError is a failure reported to the user as a plain message.
type CommandError struct {
	Msg string
}

func (e *CommandError) Error() string { return e.Msg }

// ValidationError reports invalid input: bad arguments, flags or package
// folder contents.
type ValidationError struct {
	CommandError
}

func commandErrorf(format string, args ...any) error {
	return &CommandError{Msg: fmt.Sprintf(format, args...)}
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{CommandError{Msg: fmt.Sprintf(format, args...)}}
}

// ErrErrorsLogged is returned by Execute when the command completed but
// logged at least one error.
var ErrErrorsLogged = errors.New("errors were logged")

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

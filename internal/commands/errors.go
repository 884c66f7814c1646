package commands

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotUnderstood means the verb matched no registered definition.
	ErrNotUnderstood = errors.New("not understood")

	// ErrNoInput means the line was blank.
	ErrNoInput = errors.New("no input")

	// ErrHandlerFault wraps errors returned by command handlers.
	ErrHandlerFault = errors.New("command handler fault")

	// ErrEmptyQuery is returned when a search is attempted without a name.
	ErrEmptyQuery = errors.New("empty search query")
)

// UserError represents an error that should be displayed to the user.
// These are not system failures - just invalid input or usage.
type UserError struct {
	Message string

	// Choices lists the candidates of an ambiguous match, in order.
	Choices []string
}

func (e *UserError) Error() string {
	if len(e.Choices) == 0 {
		return e.Message
	}
	var sb strings.Builder
	sb.WriteString(e.Message)
	for i, c := range e.Choices {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, c)
	}
	return sb.String()
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

// NewUserErrorf creates a user-facing error from a format string.
func NewUserErrorf(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

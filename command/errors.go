package command

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned by commands whose selection is empty.
var ErrEmptySelection = errors.New("empty selection")

// ArgumentError reports invalid arguments for a command.
type ArgumentError struct {
	Command string // kind of command, e.g. "PitchCommand"
	Issue   string // human-readable description of the issue
}

// Error implements the error interface.
func (e ArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument: %s", e.Command, e.Issue)
}

func argError(cmd string, format string, args ...any) error {
	return ArgumentError{Command: cmd, Issue: fmt.Sprintf(format, args...)}
}

// CountError reports a mismatch between the number of values a command
// has and the number of logical ties it is applied to.
type CountError struct {
	Command string
	Values  int // values available
	Ties    int // logical ties selected
	Issue   string
}

// Error implements the error interface.
func (e CountError) Error() string {
	return fmt.Sprintf("%s: %s (%d values for %d logical ties)", e.Command, e.Issue, e.Values, e.Ties)
}

package peg

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
)

// ParseError is the hard failure of a parse.  It's raised when a rule
// that was required didn't match or when an action rejects what was
// matched.  Positions go from the innermost input to the outermost,
// so errors within nested inputs can say where they were included.
type ParseError struct {
	Message   string
	Positions []Position
}

// NewParseError creates an error at the cursor of `in` and of every
// input it's nested in
func NewParseError(message string, in *Input) *ParseError {
	var positions []Position
	for i := in; i != nil; i = i.Parent() {
		positions = append(positions, i.Position())
	}
	return &ParseError{Message: message, Positions: positions}
}

// Error renders the innermost position followed by the message and
// one line per enclosing input
func (e *ParseError) Error() string {
	if len(e.Positions) == 0 {
		return e.Message
	}
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s: %s", e.Positions[0], e.Message))
	for _, p := range e.Positions[1:] {
		s.WriteString(fmt.Sprintf("\n  included from %s", p))
	}
	return s.String()
}

// Position returns the innermost position of the error
func (e *ParseError) Position() Position {
	if len(e.Positions) == 0 {
		return Position{}
	}
	return e.Positions[0]
}

// IsParseError reports whether `err` is or wraps a ParseError
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// InputError is returned when a file can't be turned into an input
type InputError struct {
	Op   string
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Errno returns the operating system error code behind the failure,
// when there's one
func (e *InputError) Errno() (syscall.Errno, bool) {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return errno, true
	}
	return 0, false
}

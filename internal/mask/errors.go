package mask

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern is the sentinel for every pattern compilation failure.
var ErrInvalidPattern = errors.New("invalid pattern")

// Error describes where and why a pattern failed to compile.
type Error struct {
	Pattern string
	// Pos is the grapheme index in Pattern, or -1 when the failure is not
	// tied to one character.
	Pos    int
	Reason string
	// Err is an underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("invalid pattern %q", e.Pattern)
	if e.Pos >= 0 {
		msg += fmt.Sprintf(" at %d", e.Pos)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrInvalidPattern and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidPattern, e.Err}
	}
	return []error{ErrInvalidPattern}
}

func patternError(pattern string, pos int, reason string) *Error {
	return &Error{Pattern: pattern, Pos: pos, Reason: reason}
}

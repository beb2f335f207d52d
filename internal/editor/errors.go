package editor

import (
	"errors"
	"fmt"
)

// Edit errors. Rejected commands leave the editor untouched and report one
// of these in Outcome.Err.
var (
	ErrInvalidChar   = errors.New("invalid character")
	ErrSectionFull   = errors.New("no fillable section at or after the cursor")
	ErrValueMismatch = errors.New("value does not fit the mask")
	ErrIncomplete    = errors.New("required section is empty")
)

// ValidationKind classifies a ValidationError.
type ValidationKind int

const (
	Incomplete ValidationKind = iota
	ValueMismatch
)

func (k ValidationKind) String() string {
	switch k {
	case Incomplete:
		return "incomplete"
	case ValueMismatch:
		return "value mismatch"
	default:
		return "unknown"
	}
}

// ValidationError is returned by Commit and SetValue. It is meant for the
// end user, e.g. to mark the field invalid.
type ValidationError struct {
	Kind ValidationKind
	// Section is the index of the offending section, or -1.
	Section int
	Detail  string
}

func (e *ValidationError) Error() string {
	msg := e.Kind.String()
	if e.Section >= 0 {
		msg += fmt.Sprintf(" at section %d", e.Section)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is matches ErrIncomplete and ErrValueMismatch by kind.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrIncomplete:
		return e.Kind == Incomplete
	case ErrValueMismatch:
		return e.Kind == ValueMismatch
	}
	return false
}

func mismatch(section int, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: ValueMismatch, Section: section, Detail: fmt.Sprintf(format, args...)}
}

func invalidChar(cluster string, pos int) error {
	return fmt.Errorf("%w %q at %d", ErrInvalidChar, cluster, pos)
}

package errors

import (
	"fmt"
)

// Type categorizes a condition-language failure.
type Type string

const (
	// TypeParse indicates malformed conditional-fact syntax (e.g. a "$if "
	// sigil with no colon separating expression from content).
	TypeParse Type = "parse"

	// TypeSanitization indicates the expression failed the character
	// allowlist or keyword blocklist before compilation was attempted.
	TypeSanitization Type = "sanitization"

	// TypeCompilation indicates malformed grammar inside the allowed syntax.
	TypeCompilation Type = "compilation"

	// TypeEvaluation indicates a runtime failure in a sandboxed call,
	// such as a malformed dice string or an unknown identifier.
	TypeEvaluation Type = "evaluation"

	// TypeRegexSafety indicates a structurally unsafe regular expression
	// (nested quantifiers, capturing groups, backreferences, and so on).
	TypeRegexSafety Type = "regex_safety"
)

// Error is the single externally visible error kind for the condition
// language. Source holds the offending expression or pattern text.
type Error struct {
	Type    Type   // failure category
	Message string // human-readable, author-displayable description
	Source  string // the expression or pattern that failed
	Cause   error  // underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Source != "" {
		msg += fmt.Sprintf(" (in %q)", e.Source)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause, allowing errors.Is/As traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error of the given type.
func New(t Type, source, format string, args ...any) *Error {
	return &Error{
		Type:    t,
		Message: fmt.Sprintf(format, args...),
		Source:  source,
	}
}

// Wrap creates an Error of the given type with an underlying cause.
func Wrap(t Type, source string, cause error, format string, args ...any) *Error {
	return &Error{
		Type:    t,
		Message: fmt.Sprintf(format, args...),
		Source:  source,
		Cause:   cause,
	}
}

// IsType reports whether err is (or wraps) an *Error of the given type.
func IsType(err error, t Type) bool {
	for err != nil {
		if langErr, ok := err.(*Error); ok {
			return langErr.Type == t
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Package apperr defines the error taxonomy shared by the lifecycle core and its callers.
// Every error returned by the core is either one of these kinds or an infrastructure
// failure (database, redis) that callers treat as internal.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error.
type Kind int

const (
	KindInternal Kind = iota
	// KindValidation marks malformed input: bad ids, unknown enum values, out-of-range lists.
	KindValidation
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound
	// KindConflict marks an illegal state transition or an unauthorized actor.
	KindConflict
	// KindPrecondition marks a request that is well formed but cannot be satisfied,
	// e.g. an office without eligible staff.
	KindPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPrecondition:
		return "precondition"
	default:
		return "internal"
	}
}

// Codes refine a Kind where transports need to tell cases apart.
const (
	CodeNotAssigned   = "not_assigned"
	CodeForbidden     = "forbidden"
	CodeStateConflict = "state_conflict"
	CodeTerminal      = "terminal_state"
)

// Error is a tagged domain error.
type Error struct {
	Kind    Kind
	Code    string
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Validation reports malformed input for the given field.
func Validation(field, format string, args ...any) error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity.
func NotFound(entity string, id any) error {
	return &Error{Kind: KindNotFound, Field: entity, Message: fmt.Sprintf("%s %v not found", entity, id)}
}

// Conflict reports an illegal transition; code may be empty.
func Conflict(code, format string, args ...any) error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Precondition reports an unsatisfiable but valid request.
func Precondition(format string, args ...any) error {
	return &Error{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

// As unwraps err into a domain error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for non-domain errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the refinement code of err, if any.
func CodeOf(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
func IsPrecondition(err error) bool { return KindOf(err) == KindPrecondition }

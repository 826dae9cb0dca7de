// Package problems defines the closed set of failures reported by the LCMP core.
//
// Every failure is a *Error carrying a Kind, so callers branch on the kind
// instead of matching message text. The transport layer maps kinds to
// status codes.
package problems

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation         Kind = "validation_failed"
	KindCapacity           Kind = "capacity_exceeded"
	KindResolution         Kind = "resolution_failed"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindCatalogUnavailable Kind = "catalog_unavailable"
	KindBadRequest         Kind = "bad_request"
)

// Error is a failure of the core.
type Error struct {
	Kind Kind
	// Subject identifies the offending entity (context ID, appDId), if any.
	Subject string
	// Reasons lists every detected problem; never truncated.
	Reasons []string
	Cause   error
}

// Error joins the reasons with ";".
func (e *Error) Error() string {
	return strings.Join(e.Reasons, ";")
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error of the given kind.
func New(kind Kind, reasons ...string) *Error {
	return &Error{Kind: kind, Reasons: reasons}
}

// KindOf returns the kind of err, or "" when err is not a *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Validation folds an accumulated (multierr) error into a single
// ValidationFailed error. Nested validation errors are flattened so the
// reasons of every child appear once, in order. Returns nil for nil.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	var reasons []string
	for _, e := range multierr.Errors(err) {
		var pe *Error
		if errors.As(e, &pe) && pe.Kind == KindValidation {
			reasons = append(reasons, pe.Reasons...)
			continue
		}
		reasons = append(reasons, e.Error())
	}
	return &Error{Kind: KindValidation, Reasons: reasons}
}

// CapacityExceeded reports that the store already holds max contexts.
func CapacityExceeded(max int) *Error {
	return New(KindCapacity, fmt.Sprintf("maximum active contexts reached (%d)", max))
}

// NotFound reports an unknown context ID.
func NotFound(contextID string) *Error {
	e := New(KindNotFound, "context ID not found: "+contextID)
	e.Subject = contextID
	return e
}

// NotSpecified reports an update request without a context ID.
func NotSpecified() *Error {
	return New(KindBadRequest, "context ID not specified")
}

// Conflict reports an update request whose immutable fields differ from
// the stored context.
func Conflict(contextID string) *Error {
	e := New(KindConflict, "request does not match stored context")
	e.Subject = contextID
	return e
}

// ResolutionFailed reports that no reference URI matches appDId.
func ResolutionFailed(appDId *string) *Error {
	subject := "unspecified"
	if appDId != nil {
		subject = *appDId
	}
	e := New(KindResolution, "no matching reference URI for "+subject)
	e.Subject = subject
	return e
}

// CatalogUnavailable wraps the error recorded when the catalog failed to load.
func CatalogUnavailable(cause error) *Error {
	e := New(KindCatalogUnavailable, cause.Error())
	e.Cause = cause
	return e
}

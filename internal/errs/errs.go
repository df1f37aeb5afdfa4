// Package errs holds the error kinds shared by the pricing, ledger and order modules.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can map it to an actionable message.
type Kind string

const (
	KindEmptyOrder         Kind = "empty_order"
	KindInvalidPrice       Kind = "invalid_price"
	KindInsufficientPoints Kind = "insufficient_points"
	KindIllegalTransition  Kind = "illegal_transition"
	KindAlreadyCredited    Kind = "already_credited"
	KindNotFound           Kind = "not_found"
	KindInvalidInput       Kind = "invalid_input"
	KindInternal           Kind = "internal"
)

// Error is a typed failure carrying a kind and a human-readable detail.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

// Is matches any *Error of the same kind, so errors.Is(err, errs.ErrNotFound) works
// regardless of the detail text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrEmptyOrder         = &Error{Kind: KindEmptyOrder}
	ErrInvalidPrice       = &Error{Kind: KindInvalidPrice}
	ErrInsufficientPoints = &Error{Kind: KindInsufficientPoints}
	ErrIllegalTransition  = &Error{Kind: KindIllegalTransition}
	ErrAlreadyCredited    = &Error{Kind: KindAlreadyCredited}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
)

// New builds an *Error with a formatted detail.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Detail returns the detail of the first *Error in err's chain, or err.Error().
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return err.Error()
}

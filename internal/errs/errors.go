package errs

import (
	"errors"
	"fmt"
)

// Kind classifies failures so callers can decide whether a pass must abort
// or whether the failing item can simply be dropped.
type Kind string

const (
	KindConfig     Kind = "config"
	KindAuth       Kind = "auth"
	KindFetch      Kind = "fetch"
	KindParse      Kind = "parse"
	KindCrypto     Kind = "crypto"
	KindSubmission Kind = "submission"
)

// Error is a classified failure with the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err (which may be nil) as a classified error.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a classified error from a format string.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Op: fmt.Sprintf(format, args...)}
}

// Is reports whether any error in err's chain is classified as kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// Fatal reports whether err must abort a whole synchronization pass.
// Fetch, parse and submission failures are recovered per item or group.
func Fatal(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return true
	}
	switch kind {
	case KindConfig, KindAuth, KindCrypto:
		return true
	}
	return false
}

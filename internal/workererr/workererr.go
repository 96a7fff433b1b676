// Package workererr classifies the failure kinds the worker can hit so
// phase handlers and the worker loop can decide, without inspecting error
// strings, whether to skip a unit of work or let the process die.
package workererr

import (
	"errors"
	"fmt"
)

// Sentinel kinds, wrapped around the underlying cause with fmt.Errorf's
// %w so errors.Is/errors.As keep working through the call chain.
var (
	// ErrTransient marks a remote dependency (DB, hot store, AI) that
	// failed in a way a later retry could plausibly fix. The caller logs
	// and continues.
	ErrTransient = errors.New("transient_remote_error")

	// ErrMissingData marks a lookup that came back empty (session,
	// round, lobby not found; a required phase timestamp absent). The
	// affected unit is skipped, not retried.
	ErrMissingData = errors.New("missing_data")

	// ErrMalformed marks a payload that could not be decoded. Treated
	// identically to ErrMissingData by callers.
	ErrMalformed = errors.New("malformed_payload")
)

// FatalError marks a startup failure that should exit the process
// non-zero: invalid configuration or an unreachable relational store at
// boot.
type FatalError struct {
	cause error
}

func Fatal(cause error) *FatalError {
	return &FatalError{cause: cause}
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal startup error: %v", e.cause)
}

func (e *FatalError) Unwrap() error {
	return e.cause
}

func Transient(cause error) error {
	return fmt.Errorf("%w: %v", ErrTransient, cause)
}

func MissingData(cause error) error {
	return fmt.Errorf("%w: %v", ErrMissingData, cause)
}

func Malformed(cause error) error {
	return fmt.Errorf("%w: %v", ErrMalformed, cause)
}

func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsMissingData reports true for both ErrMissingData and ErrMalformed —
// §7 treats a malformed payload identically to missing data.
func IsMissingData(err error) bool {
	return errors.Is(err, ErrMissingData) || errors.Is(err, ErrMalformed)
}

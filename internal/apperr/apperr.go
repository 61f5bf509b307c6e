// Package apperr defines the error kinds shared across the bot.
// Callers classify failures with errors.Is against these sentinels.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad input (unknown category, bad field name).
	ErrValidation = errors.New("validation failed")
	// ErrAuthorization marks insufficient priority or the wrong confirmer.
	ErrAuthorization = errors.New("not authorized")
	// ErrNotFound marks an unknown mission, role, or user.
	ErrNotFound = errors.New("not found")
	// ErrChannelNotConfigured marks a missing channel mapping.
	ErrChannelNotConfigured = errors.New("channel not configured")
	// ErrInvalidTransition marks a state change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrCorruptData marks an unreadable persisted document.
	ErrCorruptData = errors.New("corrupt data")
	// ErrTimeout marks a confirmation that arrived after its window.
	ErrTimeout = errors.New("confirmation timed out")
)

// Wrap annotates kind with a human-readable message.
func Wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Kind returns the sentinel err belongs to, or nil for unclassified errors.
func Kind(err error) error {
	for _, k := range []error{
		ErrValidation,
		ErrAuthorization,
		ErrNotFound,
		ErrChannelNotConfigured,
		ErrInvalidTransition,
		ErrCorruptData,
		ErrTimeout,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

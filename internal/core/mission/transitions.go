// Package mission contains the pure business logic for mission operations.
// This is part of the Functional Core - no I/O, only pure functions.
package mission

import (
	"fmt"
	"time"

	"github.com/example/dutybot/internal/apperr"
)

// MissionStatus represents the possible states of a mission.
type MissionStatus string

const (
	StatusPending   MissionStatus = "pending"
	StatusActive    MissionStatus = "active"
	StatusEnding    MissionStatus = "ending"
	StatusCompleted MissionStatus = "completed"
	StatusAborting  MissionStatus = "aborting"
	StatusAborted   MissionStatus = "aborted"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []MissionStatus{
	StatusPending,
	StatusActive,
	StatusEnding,
	StatusCompleted,
	StatusAborting,
	StatusAborted,
}

// ParseStatus validates a persisted status string.
func ParseStatus(s string) (MissionStatus, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", apperr.Wrap(apperr.ErrValidation, "unknown mission status %q", s)
}

// IsTerminal reports whether no transition leaves the status.
func (s MissionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAborted
}

// Action is a lifecycle operation that moves a mission between states.
type Action string

const (
	ActionStart         Action = "start"
	ActionInitiateEnd   Action = "initiate_end"
	ActionConfirmEnd    Action = "confirm_end"
	ActionInitiateAbort Action = "initiate_abort"
	ActionConfirmAbort  Action = "confirm_abort"
)

type edge struct {
	from MissionStatus
	to   MissionStatus
}

// transitions is the whole state graph. Nothing else moves a mission.
var transitions = map[Action]edge{
	ActionStart:         {from: StatusPending, to: StatusActive},
	ActionInitiateEnd:   {from: StatusActive, to: StatusEnding},
	ActionConfirmEnd:    {from: StatusEnding, to: StatusCompleted},
	ActionInitiateAbort: {from: StatusActive, to: StatusAborting},
	ActionConfirmAbort:  {from: StatusAborting, to: StatusAborted},
}

// Transition returns the status reached by applying action to current.
// Any mismatch fails with apperr.ErrInvalidTransition.
func Transition(current MissionStatus, action Action) (MissionStatus, error) {
	e, ok := transitions[action]
	if !ok {
		return current, apperr.Wrap(apperr.ErrInvalidTransition, "unknown action %q", action)
	}
	if current != e.from {
		return current, apperr.Wrap(apperr.ErrInvalidTransition,
			"cannot %s a mission that is %s (must be %s)", humanAction(action), current, e.from)
	}
	return e.to, nil
}

// StatusTransitionResult contains the result of a status transition.
// This is a value object that captures both the new status and the
// timestamps the transition stamps.
type StatusTransitionResult struct {
	NewStatus MissionStatus
	EndTime   *time.Time // set when an end is initiated
	AbortTime *time.Time // set when an abort is initiated
}

// ApplyStatusTransition applies action and returns the result.
// The caller should pass the current time to enable testing.
func ApplyStatusTransition(current MissionStatus, action Action, now time.Time) (StatusTransitionResult, error) {
	next, err := Transition(current, action)
	if err != nil {
		return StatusTransitionResult{NewStatus: current}, err
	}

	result := StatusTransitionResult{NewStatus: next}
	switch action {
	case ActionInitiateEnd:
		result.EndTime = &now
	case ActionInitiateAbort:
		result.AbortTime = &now
	}
	return result, nil
}

// InitialStatus returns the initial status for a new mission.
func InitialStatus() MissionStatus {
	return StatusPending
}

func humanAction(a Action) string {
	switch a {
	case ActionStart:
		return "start"
	case ActionInitiateEnd:
		return "end"
	case ActionConfirmEnd:
		return "confirm the end of"
	case ActionInitiateAbort:
		return "abort"
	case ActionConfirmAbort:
		return "confirm the abort of"
	default:
		return fmt.Sprint(a)
	}
}

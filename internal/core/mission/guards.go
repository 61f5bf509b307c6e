// Package mission contains the pure business logic for mission operations.
// This is part of the Functional Core - no I/O, only pure functions.
package mission

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/dutybot/internal/apperr"
)

const (
	// EndConfirmWindow bounds the wait for an end confirmation.
	EndConfirmWindow = 300 * time.Second
	// AbortConfirmWindow bounds the wait for an abort confirmation.
	AbortConfirmWindow = 60 * time.Second
)

// DefaultCategories is the category allow-list used when configuration
// does not provide one.
var DefaultCategories = []string{"Rescue", "Transport", "Delivery", "Training", "Other"}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
	Kind    error  // apperr sentinel classifying the refusal
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Kind == nil {
		return fmt.Errorf("%s", r.Reason)
	}
	return apperr.Wrap(r.Kind, "%s", r.Reason)
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func deny(kind error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// CreateContext provides context for mission creation guards.
type CreateContext struct {
	Category          string
	AllowedCategories []string
}

// CanCreateMission evaluates whether a mission may be created.
// Rule: the category must be on the configured allow-list.
func CanCreateMission(ctx CreateContext) GuardResult {
	for _, c := range ctx.AllowedCategories {
		if c == ctx.Category {
			return allow()
		}
	}
	return deny(apperr.ErrValidation, "Invalid category %q. Available categories: %s",
		ctx.Category, strings.Join(ctx.AllowedCategories, ", "))
}

// StateContext provides context for state-only mission guards.
type StateContext struct {
	MissionID string
	Status    MissionStatus
}

// CanStartMission evaluates whether a mission can be started.
// Rule: only pending missions start.
func CanStartMission(ctx StateContext) GuardResult {
	return requireStatus(ctx, ActionStart)
}

// CanRequestSupport evaluates whether support can be requested.
// Rule: only active missions ask for help. The state does not change.
func CanRequestSupport(ctx StateContext) GuardResult {
	if ctx.Status != StatusActive {
		return deny(apperr.ErrInvalidTransition,
			"Mission #%s is %s; support can only be requested for active missions", ctx.MissionID, ctx.Status)
	}
	return allow()
}

// InitiateContext provides context for end/abort initiation guards.
type InitiateContext struct {
	MissionID             string
	Status                MissionStatus
	ScreenshotsConfigured bool
	// WindowExpired is true when the mission already waits in the target
	// state and its confirmation window has lapsed.
	WindowExpired bool
}

// CanInitiateEnd evaluates whether a mission end can be initiated.
// Rules: the mission must be active (or ending with a lapsed window, which
// re-arms it), and the screenshots channel must be configured.
func CanInitiateEnd(ctx InitiateContext) GuardResult {
	return canInitiate(ctx, ActionInitiateEnd, StatusEnding)
}

// CanInitiateAbort evaluates whether a mission abort can be initiated.
// Rules mirror CanInitiateEnd.
func CanInitiateAbort(ctx InitiateContext) GuardResult {
	return canInitiate(ctx, ActionInitiateAbort, StatusAborting)
}

// IsRearm reports whether an initiation re-arms an expired window instead
// of moving the mission.
func IsRearm(ctx InitiateContext, action Action) bool {
	target := StatusEnding
	if action == ActionInitiateAbort {
		target = StatusAborting
	}
	return ctx.Status == target && ctx.WindowExpired
}

func canInitiate(ctx InitiateContext, action Action, waiting MissionStatus) GuardResult {
	rearm := ctx.Status == waiting && ctx.WindowExpired
	if !rearm {
		if r := requireStatus(StateContext{MissionID: ctx.MissionID, Status: ctx.Status}, action); !r.Allowed {
			return r
		}
	}
	if !ctx.ScreenshotsConfigured {
		return deny(apperr.ErrChannelNotConfigured,
			"Screenshots channel not configured! Please ask an admin to set it up.")
	}
	return allow()
}

// ConfirmContext provides context for end/abort confirmation guards.
type ConfirmContext struct {
	MissionID   string
	Status      MissionStatus
	CallerID    string
	InitiatedBy string
	Reason      string
	Deadline    time.Time
	Now         time.Time
}

// CanConfirmEnd evaluates whether the caller may confirm a pending end.
// Rules: mission is ending, caller initiated the end, window still open,
// and a reason is given.
func CanConfirmEnd(ctx ConfirmContext) GuardResult {
	return canConfirm(ctx, ActionConfirmEnd, "end")
}

// CanConfirmAbort evaluates whether the caller may confirm a pending abort.
func CanConfirmAbort(ctx ConfirmContext) GuardResult {
	return canConfirm(ctx, ActionConfirmAbort, "abort")
}

func canConfirm(ctx ConfirmContext, action Action, noun string) GuardResult {
	if r := requireStatus(StateContext{MissionID: ctx.MissionID, Status: ctx.Status}, action); !r.Allowed {
		return r
	}
	if ctx.CallerID != ctx.InitiatedBy {
		return deny(apperr.ErrAuthorization,
			"Only the person who initiated the %s can confirm it!", noun)
	}
	if !ctx.Deadline.IsZero() && ctx.Now.After(ctx.Deadline) {
		return deny(apperr.ErrTimeout,
			"The %s confirmation window for mission #%s has closed; initiate the %s again", noun, ctx.MissionID, noun)
	}
	if strings.TrimSpace(ctx.Reason) == "" {
		return deny(apperr.ErrValidation, "A reason is required to confirm the %s of mission #%s", noun, ctx.MissionID)
	}
	return allow()
}

func requireStatus(ctx StateContext, action Action) GuardResult {
	if _, err := Transition(ctx.Status, action); err != nil {
		return deny(apperr.ErrInvalidTransition, "Mission #%s: cannot %s a mission that is %s",
			ctx.MissionID, humanAction(action), ctx.Status)
	}
	return allow()
}

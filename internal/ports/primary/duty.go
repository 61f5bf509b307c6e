package primary

import (
	"context"
	"time"
)

// DutyService defines the primary port for duty tracking.
type DutyService interface {
	// GoOnDuty opens a session. Calling it while on duty restarts the clock.
	GoOnDuty(ctx context.Context, userID string) (*OnDutyResponse, error)

	// GoOffDuty closes the session and pays for it. Without an open session
	// it reports WasOnDuty=false and changes nothing.
	GoOffDuty(ctx context.Context, userID string) (*OffDutyResponse, error)

	// Confirm answers a liveness prompt.
	Confirm(ctx context.Context, userID, code string) (*ConfirmResponse, error)

	// OnDuty lists users currently on duty.
	OnDuty(ctx context.Context) ([]string, error)

	// Status returns a user's duty state.
	Status(ctx context.Context, userID string) (*DutyStatus, error)

	// RunLivenessPass prompts every on-duty user, waits one confirmation
	// window, then forces off duty anyone who did not answer.
	RunLivenessPass(ctx context.Context) (*LivenessReport, error)
}

// OnDutyResponse contains the result of going on duty.
type OnDutyResponse struct {
	StartTime time.Time
	Restamped bool
}

// OffDutyResponse contains the result of going off duty.
type OffDutyResponse struct {
	WasOnDuty bool
	Minutes   float64
	SCEarned  int
	ExpEarned int
	Balance   int
	LevelUp   *LevelUp
	Warnings  []string
}

// LevelUp reports a promotion.
type LevelUp struct {
	FromLevel int
	ToLevel   int
}

// Confirmation outcomes.
const (
	ConfirmOutcomeConfirmed   = "confirmed"
	ConfirmOutcomeInvalidCode = "invalid code"
	ConfirmOutcomeNotNeeded   = "no confirmation needed"
	ConfirmOutcomeExpired     = "expired"
)

// ConfirmResponse contains the outcome of a liveness confirmation.
type ConfirmResponse struct {
	Outcome string
}

// DutyStatus is a user's duty state at the port boundary.
type DutyStatus struct {
	UserID    string
	OnDuty    bool
	StartTime time.Time
	Minutes   float64 // elapsed minutes of the open session
	// CheckDeadline is set while a duty check code awaits an answer.
	CheckDeadline time.Time
}

// LivenessReport summarizes one liveness pass.
type LivenessReport struct {
	Prompted      []string
	NotifyFailed  []string
	ForcedOffDuty []string
}

// Package duty contains the pure business logic for duty sessions and
// liveness confirmation.
// This is part of the Functional Core - no I/O, only pure functions.
package duty

import (
	"strings"
	"time"
)

// Status is a user's duty state. Only two states persist.
type Status string

const (
	StatusOffDuty Status = "off_duty"
	StatusOnDuty  Status = "on_duty"
)

const (
	// CheckInterval is how often on-duty users are asked to confirm.
	CheckInterval = 30 * time.Minute
	// ConfirmWindow is how long a user has to answer a liveness prompt.
	ConfirmWindow = 5 * time.Minute
	// CodeLength is the number of digits in a confirmation code.
	CodeLength = 4
)

// SessionContext is the persisted duty record as seen by the rules.
type SessionContext struct {
	HasRecord bool
	Active    bool
	StartTime time.Time
}

// Status derives the user's state from the record.
func (c SessionContext) Status() Status {
	if c.HasRecord && c.Active {
		return StatusOnDuty
	}
	return StatusOffDuty
}

// OnDutyResult is the outcome of a go-on-duty request.
type OnDutyResult struct {
	StartTime time.Time
	Restamped bool // the user was already on duty; the session clock restarts
}

// ApplyOnDuty opens a session at now. Calling it while on duty restarts the
// session clock; the last write wins.
func ApplyOnDuty(ctx SessionContext, now time.Time) OnDutyResult {
	return OnDutyResult{
		StartTime: now,
		Restamped: ctx.Status() == StatusOnDuty,
	}
}

// OffDutyPlan describes how to close a session.
type OffDutyPlan struct {
	Close   bool    // false means there is no open session: a no-op
	Minutes float64 // elapsed session time
}

// PlanOffDuty computes the elapsed minutes of an open session.
// Without an open session the plan is a no-op, not an error.
func PlanOffDuty(ctx SessionContext, now time.Time) OffDutyPlan {
	if ctx.Status() != StatusOnDuty {
		return OffDutyPlan{}
	}
	minutes := now.Sub(ctx.StartTime).Minutes()
	if minutes < 0 {
		minutes = 0
	}
	return OffDutyPlan{Close: true, Minutes: minutes}
}

// ResolveBonusPercent picks the duty bonus: the legacy per-user override when
// present, else the largest bonus among the member's roles.
func ResolveBonusPercent(override float64, hasOverride bool, roleBonuses []float64) float64 {
	if hasOverride {
		return override
	}
	best := 0.0
	for _, b := range roleBonuses {
		if b > best {
			best = b
		}
	}
	return best
}

// GenerateCode builds a numeric confirmation code. intn must return a
// value in [0, n).
func GenerateCode(intn func(n int) int) string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(byte('0' + intn(10)))
	}
	return b.String()
}

// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"
	"time"
)

// MissionService defines the primary port for mission operations.
// Every mutating call is attributed to a caller; only the initiator of an
// end or abort may confirm it.
type MissionService interface {
	// CreateMission records a pending mission led by the caller.
	CreateMission(ctx context.Context, req CreateMissionRequest) (*CreateMissionResponse, error)

	// StartMission moves a pending mission to active and announces it.
	StartMission(ctx context.Context, req MissionActionRequest) (*MissionResponse, error)

	// RequestSupport asks every on-duty user to help with an active mission.
	RequestSupport(ctx context.Context, req MissionActionRequest) (*SupportResponse, error)

	// InitiateEnd moves an active mission to ending and opens the end window.
	InitiateEnd(ctx context.Context, req MissionActionRequest) (*MissionResponse, error)

	// ConfirmEnd completes a mission the caller initiated ending.
	ConfirmEnd(ctx context.Context, req ConfirmMissionRequest) (*MissionResponse, error)

	// InitiateAbort moves an active mission to aborting and opens the abort window.
	InitiateAbort(ctx context.Context, req MissionActionRequest) (*MissionResponse, error)

	// ConfirmAbort aborts a mission the caller initiated aborting.
	ConfirmAbort(ctx context.Context, req ConfirmMissionRequest) (*MissionResponse, error)

	// GetMission retrieves a mission by ID.
	GetMission(ctx context.Context, missionID string) (*Mission, error)

	// ListMissions lists missions with optional filters.
	ListMissions(ctx context.Context, filters MissionFilters) ([]*Mission, error)

	// MissionHistory returns the recorded lifecycle events of a mission.
	MissionHistory(ctx context.Context, missionID string) ([]*MissionEvent, error)

	// SweepExpired notifies initiators whose confirmation window lapsed.
	SweepExpired(ctx context.Context) ([]ExpiredConfirmation, error)
}

// CreateMissionRequest contains parameters for creating a mission.
type CreateMissionRequest struct {
	LeaderID    string
	Category    string
	Description string
}

// CreateMissionResponse contains the result of creating a mission.
// Warnings list side effects that failed after the mission was saved.
type CreateMissionResponse struct {
	MissionID string
	Mission   *Mission
	Warnings  []string
}

// MissionActionRequest identifies a mission and the caller acting on it.
type MissionActionRequest struct {
	MissionID string
	CallerID  string
}

// ConfirmMissionRequest contains parameters for confirming an end or abort.
type ConfirmMissionRequest struct {
	MissionID  string
	CallerID   string
	Reason     string
	Screenshot string // optional attachment URL
}

// MissionResponse contains the mission after a lifecycle action.
type MissionResponse struct {
	Mission  *Mission
	Deadline time.Time // set when a confirmation window was opened
	Rearmed  bool      // the window was reopened after lapsing
	Warnings []string
}

// SupportResponse contains the result of a support request.
type SupportResponse struct {
	Mission     *Mission
	Notified    []string
	NoOneOnDuty bool
	Warnings    []string
}

// ExpiredConfirmation describes a lapsed end or abort window.
type ExpiredConfirmation struct {
	MissionID   string
	InitiatorID string
	Action      string // "end" or "abort"
}

// Mission represents a mission entity at the port boundary.
type Mission struct {
	ID               string
	LeaderID         string
	Category         string
	Description      string
	Status           string
	StartTime        time.Time
	EndTime          *time.Time
	AbortTime        *time.Time
	Members          []string
	EndReason        string
	AbortReason      string
	Screenshot       string
	EndInitiatedBy   string
	AbortInitiatedBy string
	Duration         string
}

// MissionFilters contains filter options for querying missions.
type MissionFilters struct {
	Status string
	Limit  int
}

// MissionEvent is one entry of a mission's history.
type MissionEvent struct {
	Action     string
	FromStatus string
	ToStatus   string
	ActorID    string
	Detail     string
	CreatedAt  string
}

package secondary

import "context"

// MissionEventLog defines the interface for the mission audit trail.
// Every accepted lifecycle action appends one event.
type MissionEventLog interface {
	// Append records an event. An empty ID is filled in by the log.
	Append(ctx context.Context, event *MissionEventRecord) error

	// ListByMission returns a mission's events, oldest first.
	ListByMission(ctx context.Context, missionID string) ([]*MissionEventRecord, error)
}

// MissionEventRecord represents one lifecycle event as stored in persistence.
type MissionEventRecord struct {
	ID         string
	MissionID  string
	Action     string
	FromStatus string
	ToStatus   string
	ActorID    string
	Detail     string
	CreatedAt  string
}

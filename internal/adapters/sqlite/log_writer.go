package sqlite

import (
	"context"

	"github.com/example/dutybot/internal/ctxutil"
	"github.com/example/dutybot/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.MissionEventLog on top of a
// repository, attributing events to the actor carried in the context when
// the caller did not name one.
type LogWriterAdapter struct {
	repo secondary.MissionEventLog
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(repo secondary.MissionEventLog) *LogWriterAdapter {
	return &LogWriterAdapter{repo: repo}
}

// Append records the event, filling the actor from ctx when empty.
func (w *LogWriterAdapter) Append(ctx context.Context, event *secondary.MissionEventRecord) error {
	if event.ActorID == "" {
		event.ActorID = ctxutil.ActorFromContext(ctx)
	}
	if event.ActorID == "" {
		event.ActorID = "system"
	}
	return w.repo.Append(ctx, event)
}

// ListByMission returns a mission's events, oldest first.
func (w *LogWriterAdapter) ListByMission(ctx context.Context, missionID string) ([]*secondary.MissionEventRecord, error) {
	return w.repo.ListByMission(ctx, missionID)
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.MissionEventLog = (*LogWriterAdapter)(nil)

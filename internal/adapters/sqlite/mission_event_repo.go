package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/dutybot/internal/ports/secondary"
)

// MissionEventRepository implements secondary.MissionEventLog with SQLite.
type MissionEventRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewMissionEventRepository creates a new SQLite mission event repository.
func NewMissionEventRepository(db *sql.DB) *MissionEventRepository {
	return &MissionEventRepository{db: db, now: time.Now}
}

// Append persists a lifecycle event.
func (r *MissionEventRepository) Append(ctx context.Context, event *secondary.MissionEventRecord) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	createdAt := r.now().UTC()
	event.CreatedAt = createdAt.Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mission_events (id, mission_id, action, from_status, to_status, actor_id, detail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.MissionID,
		event.Action,
		nullString(event.FromStatus),
		nullString(event.ToStatus),
		nullString(event.ActorID),
		nullString(event.Detail),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append mission event: %w", err)
	}
	return nil
}

// ListByMission returns a mission's events, oldest first.
func (r *MissionEventRepository) ListByMission(ctx context.Context, missionID string) ([]*secondary.MissionEventRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, mission_id, action, from_status, to_status, actor_id, detail, created_at FROM mission_events WHERE mission_id = ? ORDER BY created_at ASC, rowid ASC`,
		missionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list mission events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.MissionEventRecord
	for rows.Next() {
		var (
			fromStatus sql.NullString
			toStatus   sql.NullString
			actorID    sql.NullString
			detail     sql.NullString
			createdAt  time.Time
		)

		record := &secondary.MissionEventRecord{}
		err := rows.Scan(&record.ID,
			&record.MissionID,
			&record.Action,
			&fromStatus,
			&toStatus,
			&actorID,
			&detail,
			&createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission event: %w", err)
		}
		record.FromStatus = fromStatus.String
		record.ToStatus = toStatus.String
		record.ActorID = actorID.String
		record.Detail = detail.String
		record.CreatedAt = createdAt.Format(time.RFC3339)

		events = append(events, record)
	}

	return events, rows.Err()
}

var _ secondary.MissionEventLog = (*MissionEventRepository)(nil)

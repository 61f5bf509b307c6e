// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/dutybot/internal/ports/secondary"
)

// LedgerRepository implements secondary.LedgerRepository with SQLite.
type LedgerRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewLedgerRepository creates a new SQLite ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db, now: time.Now}
}

// Record appends a ledger entry, assigning an id and timestamp when unset.
func (r *LedgerRepository) Record(ctx context.Context, entry *secondary.LedgerEntryRecord) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	createdAt := r.now().UTC()
	entry.CreatedAt = createdAt.Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ledger_entries (id, user_id, kind, sc, exp, mission_id, actor_id, note, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		entry.Kind,
		entry.SC,
		entry.Exp,
		nullString(entry.MissionID),
		nullString(entry.ActorID),
		nullString(entry.Note),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return nil
}

// List retrieves entries matching the given filters, newest first.
func (r *LedgerRepository) List(ctx context.Context, filters secondary.LedgerFilters) ([]*secondary.LedgerEntryRecord, error) {
	query := `SELECT id, user_id, kind, sc, exp, mission_id, actor_id, note, created_at FROM ledger_entries WHERE 1=1`
	args := []any{}

	if filters.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filters.UserID)
	}

	if filters.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filters.Kind)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.LedgerEntryRecord
	for rows.Next() {
		var (
			missionID sql.NullString
			actorID   sql.NullString
			note      sql.NullString
			createdAt time.Time
		)

		record := &secondary.LedgerEntryRecord{}
		err := rows.Scan(&record.ID,
			&record.UserID,
			&record.Kind,
			&record.SC,
			&record.Exp,
			&missionID,
			&actorID,
			&note,
			&createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		record.MissionID = missionID.String
		record.ActorID = actorID.String
		record.Note = note.String
		record.CreatedAt = createdAt.Format(time.RFC3339)

		entries = append(entries, record)
	}

	return entries, rows.Err()
}

// Totals sums the SC and EXP recorded for a user.
func (r *LedgerRepository) Totals(ctx context.Context, userID string) (int, int, error) {
	var sc, exp int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(sc), 0), COALESCE(SUM(exp), 0) FROM ledger_entries WHERE user_id = ?`,
		userID,
	).Scan(&sc, &exp)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to total ledger for %s: %w", userID, err)
	}
	return sc, exp, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ secondary.LedgerRepository = (*LedgerRepository)(nil)

package app

import (
	"context"
	"log/slog"

	"github.com/example/dutybot/internal/ports/secondary"
)

// recordPayout appends a ledger entry. The ledger is an audit trail, so a
// failure is logged and returned as a warning instead of failing the
// operation that already saved.
func recordPayout(ctx context.Context, ledger secondary.LedgerRepository, logger *slog.Logger, entry *secondary.LedgerEntryRecord) []string {
	if ledger == nil {
		return nil
	}
	if err := ledger.Record(ctx, entry); err != nil {
		logger.WarnContext(ctx, "ledger write failed",
			"user_id", entry.UserID,
			"kind", entry.Kind,
			"sc", entry.SC,
			"exp", entry.Exp,
			"error", err)
		return []string{"payout saved but not recorded in the ledger: " + err.Error()}
	}
	return nil
}

// appendEvent records a mission lifecycle event, logging failures.
func appendEvent(ctx context.Context, events secondary.MissionEventLog, logger *slog.Logger, event *secondary.MissionEventRecord) {
	if events == nil {
		return
	}
	if err := events.Append(ctx, event); err != nil {
		logger.WarnContext(ctx, "mission event write failed",
			"mission_id", event.MissionID,
			"action", event.Action,
			"error", err)
	}
}

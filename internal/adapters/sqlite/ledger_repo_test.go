package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/dutybot/internal/adapters/sqlite"
	"github.com/example/dutybot/internal/ports/secondary"
)

func TestLedgerRepository_Record(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewLedgerRepository(db)
	ctx := context.Background()

	t.Run("assigns id and timestamp", func(t *testing.T) {
		entry := &secondary.LedgerEntryRecord{
			UserID:    "100",
			Kind:      secondary.LedgerKindMission,
			SC:        55,
			Exp:       20,
			MissionID: "3",
			ActorID:   "7",
			Note:      "great run",
		}
		if err := repo.Record(ctx, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if entry.ID == "" || entry.CreatedAt == "" {
			t.Errorf("entry not stamped: %+v", entry)
		}

		got, err := repo.List(ctx, secondary.LedgerFilters{UserID: "100"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("List returned %d entries, want 1", len(got))
		}
		if got[0].MissionID != "3" || got[0].ActorID != "7" || got[0].Note != "great run" || got[0].SC != 55 {
			t.Errorf("entry = %+v", got[0])
		}
	})

	t.Run("nullable fields read back empty", func(t *testing.T) {
		entry := &secondary.LedgerEntryRecord{UserID: "200", Kind: secondary.LedgerKindDuty, SC: 10, Exp: 5}
		if err := repo.Record(ctx, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		got, _ := repo.List(ctx, secondary.LedgerFilters{UserID: "200"})
		if len(got) != 1 || got[0].MissionID != "" || got[0].ActorID != "" {
			t.Errorf("entries = %+v", got)
		}
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		err := repo.Record(ctx, &secondary.LedgerEntryRecord{UserID: "1", Kind: "bribe"})
		if err == nil {
			t.Error("expected constraint error for unknown kind")
		}
	})
}

func TestLedgerRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewLedgerRepository(db)
	ctx := context.Background()

	for _, e := range []*secondary.LedgerEntryRecord{
		{ID: "e1", UserID: "a", Kind: secondary.LedgerKindDuty, SC: 1},
		{ID: "e2", UserID: "a", Kind: secondary.LedgerKindMission, SC: 2},
		{ID: "e3", UserID: "b", Kind: secondary.LedgerKindDuty, SC: 3},
		{ID: "e4", UserID: "a", Kind: secondary.LedgerKindDuty, SC: 4},
	} {
		if err := repo.Record(ctx, e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		filters secondary.LedgerFilters
		wantIDs []string
	}{
		{name: "all newest first", filters: secondary.LedgerFilters{}, wantIDs: []string{"e4", "e3", "e2", "e1"}},
		{name: "by user", filters: secondary.LedgerFilters{UserID: "a"}, wantIDs: []string{"e4", "e2", "e1"}},
		{name: "by kind", filters: secondary.LedgerFilters{Kind: secondary.LedgerKindDuty}, wantIDs: []string{"e4", "e3", "e1"}},
		{name: "limit", filters: secondary.LedgerFilters{UserID: "a", Limit: 2}, wantIDs: []string{"e4", "e2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("List returned %d entries, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("entry %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestLedgerRepository_Totals(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewLedgerRepository(db)
	ctx := context.Background()

	repo.Record(ctx, &secondary.LedgerEntryRecord{UserID: "a", Kind: secondary.LedgerKindDuty, SC: 20, Exp: 10})
	repo.Record(ctx, &secondary.LedgerEntryRecord{UserID: "a", Kind: secondary.LedgerKindAdjust, Exp: -4})
	repo.Record(ctx, &secondary.LedgerEntryRecord{UserID: "b", Kind: secondary.LedgerKindDuty, SC: 99})

	sc, exp, err := repo.Totals(ctx, "a")
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if sc != 20 || exp != 6 {
		t.Errorf("Totals(a) = %d, %d, want 20, 6", sc, exp)
	}

	sc, exp, _ = repo.Totals(ctx, "nobody")
	if sc != 0 || exp != 0 {
		t.Errorf("Totals(nobody) = %d, %d", sc, exp)
	}
}

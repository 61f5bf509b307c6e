package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/dutybot/internal/adapters/sqlite"
	"github.com/example/dutybot/internal/ctxutil"
	"github.com/example/dutybot/internal/ports/secondary"
)

func TestMissionEventRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewMissionEventRepository(db)
	ctx := context.Background()

	events := []*secondary.MissionEventRecord{
		{MissionID: "1", Action: "create", ToStatus: "pending", ActorID: "lead"},
		{MissionID: "2", Action: "create", ToStatus: "pending", ActorID: "other"},
		{MissionID: "1", Action: "start", FromStatus: "pending", ToStatus: "active", ActorID: "lead"},
	}
	for _, e := range events {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := repo.ListByMission(ctx, "1")
	if err != nil {
		t.Fatalf("ListByMission failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByMission returned %d events, want 2", len(got))
	}
	if got[0].Action != "create" || got[0].FromStatus != "" {
		t.Errorf("first event = %+v", got[0])
	}
	if got[1].Action != "start" || got[1].ToStatus != "active" {
		t.Errorf("second event = %+v", got[1])
	}
}

func TestLogWriterAdapter_FillsActor(t *testing.T) {
	db := setupTestDB(t)
	writer := sqlite.NewLogWriterAdapter(sqlite.NewMissionEventRepository(db))

	ctx := ctxutil.WithActorID(context.Background(), "caller-9")
	if err := writer.Append(ctx, &secondary.MissionEventRecord{MissionID: "5", Action: "start"}); err != nil {
		t.Fatal(err)
	}
	if err := writer.Append(context.Background(), &secondary.MissionEventRecord{MissionID: "5", Action: "timeout"}); err != nil {
		t.Fatal(err)
	}

	got, err := writer.ListByMission(context.Background(), "5")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ActorID != "caller-9" || got[1].ActorID != "system" {
		t.Errorf("events = %+v", got)
	}
}

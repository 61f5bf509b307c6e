package jsonstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/example/dutybot/internal/apperr"
	"github.com/example/dutybot/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "data.json"))
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Users == nil || doc.ActiveMissions == nil || doc.MemberRoles == nil {
		t.Error("Load() skeleton is missing top-level maps")
	}
	if _, err := os.Stat(s.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Error("Load() created the file")
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	s := newTestStore(t)
	garbage := []byte(`{"users": {`)
	if err := os.WriteFile(s.Path(), garbage, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Load(context.Background())
	if !errors.Is(err, apperr.ErrCorruptData) {
		t.Fatalf("Load() error = %v, want ErrCorruptData", err)
	}

	err = s.Update(context.Background(), func(doc *models.Document) error {
		t.Error("Update() ran fn on a corrupt document")
		return nil
	})
	if !errors.Is(err, apperr.ErrCorruptData) {
		t.Errorf("Update() error = %v, want ErrCorruptData", err)
	}

	after, _ := os.ReadFile(s.Path())
	if string(after) != string(garbage) {
		t.Errorf("corrupt file was modified: %q", after)
	}
}

func TestStore_LoadFillsMissingKeys(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte(`{"users": {"1": {"sc": 5, "exp": 2, "level": 1}}}`), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Users["1"].SC != 5 {
		t.Errorf("SC = %d, want 5", doc.Users["1"].SC)
	}
	if doc.Channels == nil || doc.DutyStatus == nil {
		t.Error("Normalize() did not fill missing maps")
	}
}

func TestStore_NullEntriesReadAsAbsent(t *testing.T) {
	s := newTestStore(t)
	raw := `{"users": {"42": null}, "duty_status": {"42": null}, "roles": {"r": null},
		"level_roles": {"1": null}, "active_missions": {"1": null}}`
	if err := os.WriteFile(s.Path(), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	err := s.Update(ctx, func(doc *models.Document) error {
		doc.EnsureUser("42").SC += 10
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if u, ok := doc.LookupUser("42"); !ok || u.SC != 10 {
		t.Errorf("user 42 = %+v, %v; want SC 10", u, ok)
	}
	if len(doc.DutyStatus) != 0 || len(doc.Roles) != 0 || len(doc.LevelRoles) != 0 || len(doc.ActiveMissions) != 0 {
		t.Errorf("null entries survived: %+v", doc)
	}
}

func TestStore_UpdateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Update(ctx, func(doc *models.Document) error {
		doc.EnsureUser("42").SC = 100
		doc.Channels[models.ChannelMissions] = "-100"
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Users["42"].SC != 100 {
		t.Errorf("SC = %d, want 100", doc.Users["42"].SC)
	}
	if doc.Channels[models.ChannelMissions] != "-100" {
		t.Errorf("channel = %q", doc.Channels[models.ChannelMissions])
	}

	entries, _ := os.ReadDir(filepath.Dir(s.Path()))
	if len(entries) != 1 {
		t.Errorf("data dir holds %d entries, want only the document", len(entries))
	}
}

func TestStore_UpdateErrorSkipsWrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, func(doc *models.Document) error {
		doc.EnsureUser("42").SC = 1
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}
	if _, err := os.Stat(s.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Error("Update() wrote despite fn error")
	}
}

func TestStore_ConcurrentUpdatesSerialize(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(ctx, func(doc *models.Document) error {
				doc.EnsureUser("42").SC++
				return nil
			})
		}()
	}
	wg.Wait()

	doc, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Users["42"].SC != 20 {
		t.Errorf("SC = %d, want 20 (lost update)", doc.Users["42"].SC)
	}
}

func TestStore_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestMemberRoles(t *testing.T) {
	s := newTestStore(t)
	m := NewMemberRoles(s)
	ctx := context.Background()

	if err := m.AddRole(ctx, "42", "r1"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddRole(ctx, "42", "r2"); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveRole(ctx, "42", "r1"); err != nil {
		t.Fatal(err)
	}

	roles, err := m.RolesOf(ctx, "42")
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 1 || roles[0] != "r2" {
		t.Errorf("RolesOf() = %v, want [r2]", roles)
	}
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/example/dutybot/internal/confirm"
	"github.com/example/dutybot/internal/models"
	"github.com/example/dutybot/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

var _ secondary.DocumentStore = (*mockStore)(nil)

// mockStore implements secondary.DocumentStore in memory. Update works on a
// copy so a failing fn leaves the stored document untouched.
type mockStore struct {
	mu        sync.Mutex
	doc       *models.Document
	loadErr   error
	saveErr   error
	saveCount int
}

func newMockStore() *mockStore {
	return &mockStore{doc: models.NewDocument()}
}

func (m *mockStore) Load(ctx context.Context) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return cloneDocument(m.doc), nil
}

func (m *mockStore) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return m.loadErr
	}
	working := cloneDocument(m.doc)
	if err := fn(working); err != nil {
		return err
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	m.doc = working
	m.saveCount++
	return nil
}

// snapshot returns a copy of the stored document for assertions.
func (m *mockStore) snapshot() *models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneDocument(m.doc)
}

func cloneDocument(doc *models.Document) *models.Document {
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var out models.Document
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	out.Normalize()
	return &out
}

var _ secondary.MemberDirectory = (*mockDirectory)(nil)

// mockDirectory implements secondary.MemberDirectory for testing.
type mockDirectory struct {
	roles map[string][]string
	err   error
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{roles: make(map[string][]string)}
}

func (m *mockDirectory) RolesOf(ctx context.Context, userID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.roles[userID], nil
}

type sentMessage struct {
	To      string
	Content string
}

var _ secondary.Notifier = (*mockNotifier)(nil)

// mockNotifier implements secondary.Notifier, recording what was sent.
type mockNotifier struct {
	mu        sync.Mutex
	dms       []sentMessage
	posts     []sentMessage
	failUsers map[string]error
	postErr   error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{failUsers: make(map[string]error)}
}

func (m *mockNotifier) Notify(ctx context.Context, userID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failUsers[userID]; err != nil {
		return err
	}
	m.dms = append(m.dms, sentMessage{To: userID, Content: message})
	return nil
}

func (m *mockNotifier) PostToChannel(ctx context.Context, channelID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postErr != nil {
		return m.postErr
	}
	m.posts = append(m.posts, sentMessage{To: channelID, Content: message})
	return nil
}

func (m *mockNotifier) dmsTo(userID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, dm := range m.dms {
		if dm.To == userID {
			out = append(out, dm.Content)
		}
	}
	return out
}

var _ secondary.RoleGranter = (*mockRoleGranter)(nil)

// mockRoleGranter implements secondary.RoleGranter for testing.
type mockRoleGranter struct {
	added   []string
	removed []string
	addErr  error
}

func (m *mockRoleGranter) AddRole(ctx context.Context, userID, roleID string) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, userID+":"+roleID)
	return nil
}

func (m *mockRoleGranter) RemoveRole(ctx context.Context, userID, roleID string) error {
	m.removed = append(m.removed, userID+":"+roleID)
	return nil
}

var _ secondary.LedgerRepository = (*mockLedger)(nil)

// mockLedger implements secondary.LedgerRepository for testing.
type mockLedger struct {
	entries   []*secondary.LedgerEntryRecord
	recordErr error
}

func (m *mockLedger) Record(ctx context.Context, entry *secondary.LedgerEntryRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLedger) List(ctx context.Context, filters secondary.LedgerFilters) ([]*secondary.LedgerEntryRecord, error) {
	var out []*secondary.LedgerEntryRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filters.UserID != "" && e.UserID != filters.UserID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockLedger) Totals(ctx context.Context, userID string) (int, int, error) {
	sc, exp := 0, 0
	for _, e := range m.entries {
		if e.UserID == userID {
			sc += e.SC
			exp += e.Exp
		}
	}
	return sc, exp, nil
}

var _ secondary.MissionEventLog = (*mockEventLog)(nil)

// mockEventLog implements secondary.MissionEventLog for testing.
type mockEventLog struct {
	events    []*secondary.MissionEventRecord
	appendErr error
}

func (m *mockEventLog) Append(ctx context.Context, event *secondary.MissionEventRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventLog) ListByMission(ctx context.Context, missionID string) ([]*secondary.MissionEventRecord, error) {
	var out []*secondary.MissionEventRecord
	for _, e := range m.events {
		if e.MissionID == missionID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeClock is a manually advanced clock shared by a service and its registry.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testDeps bundles the collaborators every service test needs.
type testDeps struct {
	store     *mockStore
	directory *mockDirectory
	notifier  *mockNotifier
	roles     *mockRoleGranter
	ledger    *mockLedger
	events    *mockEventLog
	clock     *fakeClock
	registry  *confirm.Registry
	executor  *DefaultEffectExecutor
}

func newTestDeps() *testDeps {
	d := &testDeps{
		store:     newMockStore(),
		directory: newMockDirectory(),
		notifier:  newMockNotifier(),
		roles:     &mockRoleGranter{},
		ledger:    &mockLedger{},
		events:    &mockEventLog{},
		clock:     newFakeClock(),
	}
	d.registry = confirm.NewRegistry(d.clock.Now)
	d.executor = NewEffectExecutor(d.notifier, d.roles, discardLogger())
	return d
}

// seed mutates the stored document directly.
func (d *testDeps) seed(fn func(doc *models.Document)) {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	fn(d.store.doc)
}

var errBoom = errors.New("boom")

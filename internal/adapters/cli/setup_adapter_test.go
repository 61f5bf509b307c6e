package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/example/dutybot/internal/ports/primary"
)

// mockSetupService implements primary.SetupService for testing
type mockSetupService struct {
	overview *primary.SetupOverview
	channels map[string]string
}

func (m *mockSetupService) SetChannel(ctx context.Context, purpose, channelID string) error {
	if m.channels == nil {
		m.channels = map[string]string{}
	}
	m.channels[purpose] = channelID
	return nil
}

func (m *mockSetupService) SetRole(ctx context.Context, req primary.SetRoleRequest) error { return nil }
func (m *mockSetupService) RemoveRole(ctx context.Context, roleID string) error           { return nil }
func (m *mockSetupService) SetLevelRole(ctx context.Context, req primary.SetLevelRoleRequest) error {
	return nil
}
func (m *mockSetupService) AssignMemberRole(ctx context.Context, userID, roleID string) error {
	return nil
}
func (m *mockSetupService) RevokeMemberRole(ctx context.Context, userID, roleID string) error {
	return nil
}
func (m *mockSetupService) RequireManager(ctx context.Context, actorID string) error { return nil }

func (m *mockSetupService) CheckRoles(ctx context.Context, userID string) (*primary.RoleReport, error) {
	return &primary.RoleReport{UserID: userID, Priority: 999}, nil
}

func (m *mockSetupService) Overview(ctx context.Context) (*primary.SetupOverview, error) {
	return m.overview, nil
}

func TestSetupAdapter_Overview(t *testing.T) {
	mock := &mockSetupService{overview: &primary.SetupOverview{
		Channels: map[string]string{"missions": "-100"},
		Roles: []primary.SetRoleRequest{
			{RoleID: "sergeant", Name: "Sergeant", Priority: 2},
			{RoleID: "captain", Name: "Captain", Priority: 1, BonusIncome: 10},
		},
		LevelRoles: []primary.SetLevelRoleRequest{{Level: 1, RoleID: "rookie", ExpRequired: 100, DutyIncome: 1.5}},
	}}
	out := &bytes.Buffer{}

	if err := NewSetupAdapter(mock, out).Overview(context.Background()); err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	output := out.String()
	for _, w := range []string{"-100", "screenshots", "(not set)", "rookie", "duty x1.50"} {
		if !strings.Contains(output, w) {
			t.Errorf("output missing %q: %s", w, output)
		}
	}
	if strings.Index(output, "captain") > strings.Index(output, "sergeant") {
		t.Errorf("roles not ordered by priority: %s", output)
	}
}

func TestSetupAdapter_SetChannelAndCheckRoles(t *testing.T) {
	mock := &mockSetupService{}
	out := &bytes.Buffer{}
	adapter := NewSetupAdapter(mock, out)

	if err := adapter.SetChannel(context.Background(), "screenshots", "-200"); err != nil {
		t.Fatal(err)
	}
	if mock.channels["screenshots"] != "-200" {
		t.Errorf("channels = %v", mock.channels)
	}
	if err := adapter.CheckRoles(context.Background(), "42"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "42 holds no ranked roles") || !strings.Contains(out.String(), "Priority: 999") {
		t.Errorf("output = %s", out.String())
	}
}

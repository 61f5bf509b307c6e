package chat

import (
	"context"
	"io"
	"log/slog"

	"github.com/example/dutybot/internal/ports/primary"
)

// mockDutyService implements primary.DutyService for testing.
type mockDutyService struct {
	goOnDutyFn  func(ctx context.Context, userID string) (*primary.OnDutyResponse, error)
	goOffDutyFn func(ctx context.Context, userID string) (*primary.OffDutyResponse, error)
	confirmFn   func(ctx context.Context, userID, code string) (*primary.ConfirmResponse, error)
	onDuty      []string
	status      *primary.DutyStatus
}

func (m *mockDutyService) GoOnDuty(ctx context.Context, userID string) (*primary.OnDutyResponse, error) {
	if m.goOnDutyFn != nil {
		return m.goOnDutyFn(ctx, userID)
	}
	return &primary.OnDutyResponse{}, nil
}

func (m *mockDutyService) GoOffDuty(ctx context.Context, userID string) (*primary.OffDutyResponse, error) {
	if m.goOffDutyFn != nil {
		return m.goOffDutyFn(ctx, userID)
	}
	return &primary.OffDutyResponse{}, nil
}

func (m *mockDutyService) Confirm(ctx context.Context, userID, code string) (*primary.ConfirmResponse, error) {
	if m.confirmFn != nil {
		return m.confirmFn(ctx, userID, code)
	}
	return &primary.ConfirmResponse{Outcome: primary.ConfirmOutcomeNotNeeded}, nil
}

func (m *mockDutyService) OnDuty(ctx context.Context) ([]string, error) {
	return m.onDuty, nil
}

func (m *mockDutyService) Status(ctx context.Context, userID string) (*primary.DutyStatus, error) {
	if m.status != nil {
		return m.status, nil
	}
	return &primary.DutyStatus{UserID: userID}, nil
}

func (m *mockDutyService) RunLivenessPass(ctx context.Context) (*primary.LivenessReport, error) {
	return &primary.LivenessReport{}, nil
}

// mockMissionService implements primary.MissionService for testing.
type mockMissionService struct {
	createFn        func(ctx context.Context, req primary.CreateMissionRequest) (*primary.CreateMissionResponse, error)
	actionFn        func(ctx context.Context, op string, req primary.MissionActionRequest) (*primary.MissionResponse, error)
	supportFn       func(ctx context.Context, req primary.MissionActionRequest) (*primary.SupportResponse, error)
	confirmFn       func(ctx context.Context, op string, req primary.ConfirmMissionRequest) (*primary.MissionResponse, error)
	listFn          func(ctx context.Context, filters primary.MissionFilters) ([]*primary.Mission, error)
	lastCreateReq   primary.CreateMissionRequest
	lastConfirmReq  primary.ConfirmMissionRequest
	lastListFilters primary.MissionFilters
}

func (m *mockMissionService) CreateMission(ctx context.Context, req primary.CreateMissionRequest) (*primary.CreateMissionResponse, error) {
	m.lastCreateReq = req
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &primary.CreateMissionResponse{MissionID: "1", Mission: &primary.Mission{ID: "1"}}, nil
}

func (m *mockMissionService) action(ctx context.Context, op string, req primary.MissionActionRequest) (*primary.MissionResponse, error) {
	if m.actionFn != nil {
		return m.actionFn(ctx, op, req)
	}
	return &primary.MissionResponse{Mission: &primary.Mission{ID: req.MissionID}}, nil
}

func (m *mockMissionService) StartMission(ctx context.Context, req primary.MissionActionRequest) (*primary.MissionResponse, error) {
	return m.action(ctx, "start", req)
}

func (m *mockMissionService) RequestSupport(ctx context.Context, req primary.MissionActionRequest) (*primary.SupportResponse, error) {
	if m.supportFn != nil {
		return m.supportFn(ctx, req)
	}
	return &primary.SupportResponse{Mission: &primary.Mission{ID: req.MissionID}, NoOneOnDuty: true}, nil
}

func (m *mockMissionService) InitiateEnd(ctx context.Context, req primary.MissionActionRequest) (*primary.MissionResponse, error) {
	return m.action(ctx, "end", req)
}

func (m *mockMissionService) InitiateAbort(ctx context.Context, req primary.MissionActionRequest) (*primary.MissionResponse, error) {
	return m.action(ctx, "abort", req)
}

func (m *mockMissionService) confirm(ctx context.Context, op string, req primary.ConfirmMissionRequest) (*primary.MissionResponse, error) {
	m.lastConfirmReq = req
	if m.confirmFn != nil {
		return m.confirmFn(ctx, op, req)
	}
	return &primary.MissionResponse{Mission: &primary.Mission{ID: req.MissionID}}, nil
}

func (m *mockMissionService) ConfirmEnd(ctx context.Context, req primary.ConfirmMissionRequest) (*primary.MissionResponse, error) {
	return m.confirm(ctx, "end", req)
}

func (m *mockMissionService) ConfirmAbort(ctx context.Context, req primary.ConfirmMissionRequest) (*primary.MissionResponse, error) {
	return m.confirm(ctx, "abort", req)
}

func (m *mockMissionService) GetMission(ctx context.Context, missionID string) (*primary.Mission, error) {
	return &primary.Mission{ID: missionID, LeaderID: "7", Status: "active", Members: []string{"7"}}, nil
}

func (m *mockMissionService) ListMissions(ctx context.Context, filters primary.MissionFilters) ([]*primary.Mission, error) {
	m.lastListFilters = filters
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockMissionService) MissionHistory(ctx context.Context, missionID string) ([]*primary.MissionEvent, error) {
	return []*primary.MissionEvent{{Action: "create", ToStatus: "pending", ActorID: "7"}}, nil
}

func (m *mockMissionService) SweepExpired(ctx context.Context) ([]primary.ExpiredConfirmation, error) {
	return nil, nil
}

// mockEconomyService implements primary.EconomyService for testing.
type mockEconomyService struct {
	approveFn      func(ctx context.Context, req primary.ApproveMissionRequest) (*primary.AwardResponse, error)
	lastApproveReq primary.ApproveMissionRequest
	lastAdjustReq  primary.AdjustExpRequest
	level          *primary.LevelInfo
}

func (m *mockEconomyService) ApproveMission(ctx context.Context, req primary.ApproveMissionRequest) (*primary.AwardResponse, error) {
	m.lastApproveReq = req
	if m.approveFn != nil {
		return m.approveFn(ctx, req)
	}
	return &primary.AwardResponse{TargetID: req.TargetID, SCAwarded: req.SC, ExpAwarded: req.Exp}, nil
}

func (m *mockEconomyService) AdjustExp(ctx context.Context, req primary.AdjustExpRequest) (*primary.AwardResponse, error) {
	m.lastAdjustReq = req
	return &primary.AwardResponse{TargetID: req.TargetID, Balance: primary.Balance{Exp: req.Amount}}, nil
}

func (m *mockEconomyService) Balance(ctx context.Context, userID string) (*primary.Balance, error) {
	return &primary.Balance{UserID: userID, SC: 42}, nil
}

func (m *mockEconomyService) Level(ctx context.Context, userID string) (*primary.LevelInfo, error) {
	if m.level != nil {
		return m.level, nil
	}
	return &primary.LevelInfo{UserID: userID}, nil
}

func (m *mockEconomyService) Ledger(ctx context.Context, filters primary.LedgerFilters) ([]*primary.LedgerEntry, error) {
	return nil, nil
}

// mockSetupService implements primary.SetupService for testing.
type mockSetupService struct {
	managerErr      error
	lastPurpose     string
	lastChannelID   string
	lastLevelReq    primary.SetLevelRoleRequest
	lastRoleReq     primary.SetRoleRequest
	managerChecks   int
	report          *primary.RoleReport
	overview        *primary.SetupOverview
	assignedMembers []string
}

func (m *mockSetupService) SetChannel(ctx context.Context, purpose, channelID string) error {
	m.lastPurpose, m.lastChannelID = purpose, channelID
	return nil
}

func (m *mockSetupService) SetRole(ctx context.Context, req primary.SetRoleRequest) error {
	m.lastRoleReq = req
	return nil
}

func (m *mockSetupService) RemoveRole(ctx context.Context, roleID string) error { return nil }

func (m *mockSetupService) SetLevelRole(ctx context.Context, req primary.SetLevelRoleRequest) error {
	m.lastLevelReq = req
	return nil
}

func (m *mockSetupService) AssignMemberRole(ctx context.Context, userID, roleID string) error {
	m.assignedMembers = append(m.assignedMembers, userID+":"+roleID)
	return nil
}

func (m *mockSetupService) RevokeMemberRole(ctx context.Context, userID, roleID string) error {
	return nil
}

func (m *mockSetupService) RequireManager(ctx context.Context, actorID string) error {
	m.managerChecks++
	return m.managerErr
}

func (m *mockSetupService) CheckRoles(ctx context.Context, userID string) (*primary.RoleReport, error) {
	if m.report != nil {
		return m.report, nil
	}
	return &primary.RoleReport{UserID: userID, Priority: 999}, nil
}

func (m *mockSetupService) Overview(ctx context.Context) (*primary.SetupOverview, error) {
	if m.overview != nil {
		return m.overview, nil
	}
	return &primary.SetupOverview{}, nil
}

type testRouter struct {
	*Router
	duty     *mockDutyService
	missions *mockMissionService
	economy  *mockEconomyService
	setup    *mockSetupService
}

func newTestRouter() *testRouter {
	tr := &testRouter{
		duty:     &mockDutyService{},
		missions: &mockMissionService{},
		economy:  &mockEconomyService{},
		setup:    &mockSetupService{},
	}
	tr.Router = NewRouter(tr.duty, tr.missions, tr.economy, tr.setup, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return tr
}

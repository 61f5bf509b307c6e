package primary

import "context"

// SetupService defines the primary port for bot configuration stored in the
// document: channels, ranked roles, the level ladder and member roles.
type SetupService interface {
	SetChannel(ctx context.Context, purpose, channelID string) error
	SetRole(ctx context.Context, req SetRoleRequest) error
	RemoveRole(ctx context.Context, roleID string) error
	SetLevelRole(ctx context.Context, req SetLevelRoleRequest) error
	AssignMemberRole(ctx context.Context, userID, roleID string) error
	RevokeMemberRole(ctx context.Context, userID, roleID string) error

	// RequireManager fails with an authorization error unless the actor
	// may manage channels and levels (priority 2 or better).
	RequireManager(ctx context.Context, actorID string) error

	// CheckRoles describes a member's roles and effective priority.
	CheckRoles(ctx context.Context, userID string) (*RoleReport, error)

	// Overview returns the current configuration.
	Overview(ctx context.Context) (*SetupOverview, error)
}

// SetRoleRequest registers or updates a ranked role.
type SetRoleRequest struct {
	RoleID      string
	Name        string
	Priority    int
	BonusIncome float64
}

// SetLevelRoleRequest registers or updates a ladder rung.
type SetLevelRoleRequest struct {
	Level        int
	RoleID       string
	ExpRequired  int
	DutyIncome   float64
	MissionBonus float64
}

// RoleReport is the result of a role check.
type RoleReport struct {
	UserID   string
	Lines    []string
	Priority int
}

// SetupOverview lists the configured channels, roles and ladder.
type SetupOverview struct {
	Channels   map[string]string
	Roles      []SetRoleRequest
	LevelRoles []SetLevelRoleRequest
}

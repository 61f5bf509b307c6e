package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/example/dutybot/internal/models"
	"github.com/example/dutybot/internal/ports/primary"
)

// SetupAdapter translates CLI operations to SetupService calls.
type SetupAdapter struct {
	service primary.SetupService
	out     io.Writer
}

// NewSetupAdapter creates a new SetupAdapter with the given service.
func NewSetupAdapter(service primary.SetupService, out io.Writer) *SetupAdapter {
	return &SetupAdapter{service: service, out: out}
}

// SetChannel maps a purpose to a channel id.
func (a *SetupAdapter) SetChannel(ctx context.Context, purpose, channelID string) error {
	if err := a.service.SetChannel(ctx, purpose, channelID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s → %s\n", purpose, channelID)
	return nil
}

// SetRole registers or updates a ranked role.
func (a *SetupAdapter) SetRole(ctx context.Context, req primary.SetRoleRequest) error {
	if err := a.service.SetRole(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Role %s set (priority %d, bonus %.0f%%)\n", req.RoleID, req.Priority, req.BonusIncome)
	return nil
}

// RemoveRole unregisters a ranked role.
func (a *SetupAdapter) RemoveRole(ctx context.Context, roleID string) error {
	if err := a.service.RemoveRole(ctx, roleID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Role %s removed\n", roleID)
	return nil
}

// SetLevel configures a ladder rung.
func (a *SetupAdapter) SetLevel(ctx context.Context, req primary.SetLevelRoleRequest) error {
	if err := a.service.SetLevelRole(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Level %d → role %s\n", req.Level, req.RoleID)
	return nil
}

// Grant gives a member a role.
func (a *SetupAdapter) Grant(ctx context.Context, userID, roleID string) error {
	if err := a.service.AssignMemberRole(ctx, userID, roleID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s now holds %s\n", userID, roleID)
	return nil
}

// Revoke takes a role from a member.
func (a *SetupAdapter) Revoke(ctx context.Context, userID, roleID string) error {
	if err := a.service.RevokeMemberRole(ctx, userID, roleID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s no longer holds %s\n", userID, roleID)
	return nil
}

// CheckRoles prints a member's roles and effective priority.
func (a *SetupAdapter) CheckRoles(ctx context.Context, userID string) error {
	report, err := a.service.CheckRoles(ctx, userID)
	if err != nil {
		return err
	}
	if len(report.Lines) == 0 {
		fmt.Fprintf(a.out, "%s holds no ranked roles\n", userID)
	}
	for _, line := range report.Lines {
		fmt.Fprintln(a.out, line)
	}
	fmt.Fprintf(a.out, "Priority: %d\n", report.Priority)
	return nil
}

// Overview prints channels, ranked roles and the level ladder. Unset
// channel purposes are flagged.
func (a *SetupAdapter) Overview(ctx context.Context) error {
	overview, err := a.service.Overview(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nChannels:")
	for _, purpose := range models.ChannelPurposes {
		if id, ok := overview.Channels[purpose]; ok && id != "" {
			fmt.Fprintf(a.out, "  %s %-18s %s\n", color.New(color.FgGreen).Sprint("✓"), purpose, id)
		} else {
			fmt.Fprintf(a.out, "  %s %-18s %s\n", color.New(color.FgRed).Sprint("✗"), purpose, color.New(color.FgYellow).Sprint("(not set)"))
		}
	}

	fmt.Fprintln(a.out, "\nRoles:")
	roles := append([]primary.SetRoleRequest(nil), overview.Roles...)
	sort.Slice(roles, func(i, j int) bool { return roles[i].Priority < roles[j].Priority })
	if len(roles) == 0 {
		fmt.Fprintln(a.out, "  (none)")
	}
	for _, r := range roles {
		fmt.Fprintf(a.out, "  %-2d %-20s %-20s +%.0f%%\n", r.Priority, r.RoleID, r.Name, r.BonusIncome)
	}

	fmt.Fprintln(a.out, "\nLevels:")
	if len(overview.LevelRoles) == 0 {
		fmt.Fprintln(a.out, "  (none)")
	}
	for _, l := range overview.LevelRoles {
		fmt.Fprintf(a.out, "  %-2d %-20s %6d EXP  duty x%.2f  mission +%.0f%%\n",
			l.Level, l.RoleID, l.ExpRequired, l.DutyIncome, l.MissionBonus)
	}
	fmt.Fprintln(a.out)
	return nil
}

package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/example/dutybot/internal/ports/primary"
)

func (r *Router) registerSetup() {
	const category = "Setup"
	r.register(Command{Name: "checkroles", Usage: "/checkroles [user]", Description: "Debug role priorities", Category: category}, r.handleCheckRoles)
	r.register(Command{Name: "setchannel", Usage: "/setchannel <purpose> [channel id]", Description: "Set a channel for a specific purpose", Category: category, Manager: true}, r.handleSetChannel)
	r.register(Command{Name: "setrole", Usage: "/setrole <role id> <priority> [bonus %] [name]", Description: "Add a role to the ranking system", Category: category, Manager: true}, r.handleSetRole)
	r.register(Command{Name: "removerole", Usage: "/removerole <role id>", Description: "Remove a role from the ranking system", Category: category, Manager: true}, r.handleRemoveRole)
	r.register(Command{Name: "grantrole", Usage: "/grantrole <user> <role id>", Description: "Give a member a role", Category: category, Manager: true}, r.handleGrantRole)
	r.register(Command{Name: "revokerole", Usage: "/revokerole <user> <role id>", Description: "Take a role from a member", Category: category, Manager: true}, r.handleRevokeRole)
	r.register(Command{Name: "setlevel", Usage: "/setlevel <level> <role id> [exp required] [duty income] [mission bonus %]", Description: "Configure a level of the ladder", Category: category, Manager: true}, r.handleSetLevel)
	r.register(Command{Name: "levels", Usage: "/levels", Description: "Show the level ladder, roles and channels", Category: category, Manager: true}, r.handleLevels)
}

func (r *Router) handleCheckRoles(ctx context.Context, req Request) (Response, error) {
	userID := optionalUser(req, 0, req.CallerID)
	report, err := r.setup.CheckRoles(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	info := "No roles"
	if len(report.Lines) > 0 {
		info = strings.Join(report.Lines, "\n")
	}
	return Response{
		Text:      fmt.Sprintf("Your role information:\n%s\n\nYour priority level: %d", info, report.Priority),
		Ephemeral: true,
	}, nil
}

func (r *Router) handleSetChannel(ctx context.Context, req Request) (Response, error) {
	if len(req.Args) < 1 || len(req.Args) > 2 {
		return Response{}, usageError("/setchannel <purpose> [channel id]")
	}
	channelID := req.ChatID
	if len(req.Args) == 2 {
		channelID = req.Args[1]
	}
	purpose := strings.ToLower(req.Args[0])
	if err := r.setup.SetChannel(ctx, purpose, channelID); err != nil {
		return Response{}, err
	}
	return Response{Text: fmt.Sprintf("Channel for %s set to %s", purpose, channelID), Ephemeral: true}, nil
}

func (r *Router) handleSetRole(ctx context.Context, req Request) (Response, error) {
	const usage = usageError("/setrole <role id> <priority> [bonus %] [name]")
	if len(req.Args) < 2 {
		return Response{}, usage
	}
	priority, ok := parseInt(req.Args[1])
	if !ok {
		return Response{}, usage
	}
	set := primary.SetRoleRequest{RoleID: req.Args[0], Priority: priority}
	if len(req.Args) > 2 {
		bonus, ok := parseFloat(req.Args[2])
		if !ok {
			return Response{}, usage
		}
		set.BonusIncome = bonus
	}
	if len(req.Args) > 3 {
		set.Name = strings.Join(req.Args[3:], " ")
	}
	if err := r.setup.SetRole(ctx, set); err != nil {
		return Response{}, err
	}
	return Response{Text: fmt.Sprintf("Role %s added with priority %d", set.RoleID, set.Priority), Ephemeral: true}, nil
}

func (r *Router) handleRemoveRole(ctx context.Context, req Request) (Response, error) {
	if len(req.Args) != 1 {
		return Response{}, usageError("/removerole <role id>")
	}
	if err := r.setup.RemoveRole(ctx, req.Args[0]); err != nil {
		return Response{}, err
	}
	return Response{Text: fmt.Sprintf("Role %s removed", req.Args[0]), Ephemeral: true}, nil
}

func (r *Router) memberRoleArgs(req Request, usage string) (string, string, error) {
	if len(req.Args) != 2 {
		return "", "", usageError(usage)
	}
	userID, ok := userArg(req, 0)
	if !ok {
		return "", "", usageError(usage)
	}
	return userID, req.Args[1], nil
}

func (r *Router) handleGrantRole(ctx context.Context, req Request) (Response, error) {
	userID, roleID, err := r.memberRoleArgs(req, "/grantrole <user> <role id>")
	if err != nil {
		return Response{}, err
	}
	if err := r.setup.AssignMemberRole(ctx, userID, roleID); err != nil {
		return Response{}, err
	}
	return Response{Text: fmt.Sprintf("Gave <@%s> role %s", userID, roleID), Ephemeral: true}, nil
}

func (r *Router) handleRevokeRole(ctx context.Context, req Request) (Response, error) {
	userID, roleID, err := r.memberRoleArgs(req, "/revokerole <user> <role id>")
	if err != nil {
		return Response{}, err
	}
	if err := r.setup.RevokeMemberRole(ctx, userID, roleID); err != nil {
		return Response{}, err
	}
	return Response{Text: fmt.Sprintf("Took role %s from <@%s>", roleID, userID), Ephemeral: true}, nil
}

func (r *Router) handleSetLevel(ctx context.Context, req Request) (Response, error) {
	const usage = usageError("/setlevel <level> <role id> [exp required] [duty income] [mission bonus %]")
	if len(req.Args) < 2 || len(req.Args) > 5 {
		return Response{}, usage
	}
	level, ok := parseInt(req.Args[0])
	if !ok {
		return Response{}, usage
	}
	set := primary.SetLevelRoleRequest{Level: level, RoleID: req.Args[1]}
	if len(req.Args) > 2 {
		if set.ExpRequired, ok = parseInt(req.Args[2]); !ok {
			return Response{}, usage
		}
	}
	if len(req.Args) > 3 {
		if set.DutyIncome, ok = parseFloat(req.Args[3]); !ok {
			return Response{}, usage
		}
	}
	if len(req.Args) > 4 {
		if set.MissionBonus, ok = parseFloat(req.Args[4]); !ok {
			return Response{}, usage
		}
	}
	if err := r.setup.SetLevelRole(ctx, set); err != nil {
		return Response{}, err
	}
	return Response{Text: fmt.Sprintf("Level %d now grants role %s", set.Level, set.RoleID), Ephemeral: true}, nil
}

func (r *Router) handleLevels(ctx context.Context, req Request) (Response, error) {
	overview, err := r.setup.Overview(ctx)
	if err != nil {
		return Response{}, err
	}

	var b strings.Builder
	b.WriteString("Current level roles:\n")
	if len(overview.LevelRoles) == 0 {
		b.WriteString("  none\n")
	}
	for _, l := range overview.LevelRoles {
		role := l.RoleID
		if role == "" {
			role = "no role"
		}
		fmt.Fprintf(&b, "  Level %d: %s, %d EXP", l.Level, role, l.ExpRequired)
		if l.DutyIncome > 0 {
			fmt.Fprintf(&b, ", duty x%.2f", l.DutyIncome)
		}
		if l.MissionBonus > 0 {
			fmt.Fprintf(&b, ", mission +%.0f%%", l.MissionBonus)
		}
		b.WriteString("\n")
	}

	b.WriteString("Ranked roles:\n")
	if len(overview.Roles) == 0 {
		b.WriteString("  none\n")
	}
	for _, role := range overview.Roles {
		fmt.Fprintf(&b, "  %s (%s): priority %d, bonus %.0f%%\n", role.Name, role.RoleID, role.Priority, role.BonusIncome)
	}

	b.WriteString("Channels:\n")
	purposes := make([]string, 0, len(overview.Channels))
	for p := range overview.Channels {
		purposes = append(purposes, p)
	}
	sort.Strings(purposes)
	if len(purposes) == 0 {
		b.WriteString("  none\n")
	}
	for _, p := range purposes {
		fmt.Fprintf(&b, "  %s: %s\n", p, overview.Channels[p])
	}
	return Response{Text: strings.TrimRight(b.String(), "\n"), Ephemeral: true}, nil
}

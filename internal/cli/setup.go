package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/dutybot/internal/ports/primary"
	"github.com/example/dutybot/internal/wire"
)

// ChannelCmd returns the channel command
func ChannelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Configure announcement channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SetupAdapter().Overview(cmd.Context())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set [purpose] [channel-id]",
		Short: "Map a purpose (missions, pending_missions, mission_logs, screenshots, announcements) to a chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SetupAdapter().SetChannel(cmd.Context(), args[0], args[1])
		},
	})
	return cmd
}

// RoleCmd returns the role command
func RoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage ranked roles and member roles",
	}

	var name string
	var bonus float64
	set := &cobra.Command{
		Use:   "set [role-id] [priority]",
		Short: "Add or update a ranked role (0 is the top rank)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid priority %q", args[1])
			}
			return wire.SetupAdapter().SetRole(cmd.Context(), primary.SetRoleRequest{
				RoleID:      args[0],
				Name:        name,
				Priority:    priority,
				BonusIncome: bonus,
			})
		},
	}
	set.Flags().StringVar(&name, "name", "", "Display name")
	set.Flags().Float64Var(&bonus, "bonus", 0, "Duty income bonus in percent")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove [role-id]",
		Short: "Remove a ranked role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SetupAdapter().RemoveRole(cmd.Context(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "grant [user-id] [role-id]",
		Short: "Give a member a role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SetupAdapter().Grant(cmd.Context(), args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "revoke [user-id] [role-id]",
		Short: "Take a role from a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SetupAdapter().Revoke(cmd.Context(), args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check [user-id]",
		Short: "Show a member's roles and effective priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SetupAdapter().CheckRoles(cmd.Context(), args[0])
		},
	})
	return cmd
}

// LevelCmd returns the level command
func LevelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "level",
		Short: "Configure the level ladder",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SetupAdapter().Overview(cmd.Context())
		},
	}

	var req primary.SetLevelRoleRequest
	set := &cobra.Command{
		Use:   "set [level] [role-id]",
		Short: "Configure one level of the ladder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid level %q", args[0])
			}
			req.Level = level
			req.RoleID = args[1]
			return wire.SetupAdapter().SetLevel(cmd.Context(), req)
		},
	}
	set.Flags().IntVar(&req.ExpRequired, "exp", 0, "EXP required to reach the level (0 keeps the configured value)")
	set.Flags().Float64Var(&req.DutyIncome, "income", 0, "Duty income multiplier")
	set.Flags().Float64Var(&req.MissionBonus, "bonus", 0, "Mission payout bonus in percent")
	cmd.AddCommand(set)
	return cmd
}

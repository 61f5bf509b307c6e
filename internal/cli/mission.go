package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/dutybot/internal/wire"
)

// MissionCmd returns the mission command
func MissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Inspect and manage missions",
		Long:  "Create, list, and inspect missions stored in the bot's data file",
	}
	cmd.AddCommand(missionCreateCmd())
	cmd.AddCommand(missionStartCmd())
	cmd.AddCommand(missionListCmd())
	cmd.AddCommand(missionShowCmd())
	cmd.AddCommand(missionHistoryCmd())
	cmd.AddCommand(missionSweepCmd())
	return cmd
}

func missionCreateCmd() *cobra.Command {
	var leader string
	cmd := &cobra.Command{
		Use:   "create [category] [description...]",
		Short: "Create a pending mission",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MissionAdapter().Create(cmd.Context(), leader, args[0], strings.Join(args[1:], " "))
		},
	}
	cmd.Flags().StringVar(&leader, "leader", "", "User id of the mission leader (required)")
	_ = cmd.MarkFlagRequired("leader")
	return cmd
}

func missionStartCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "start [mission-id]",
		Short: "Move a pending mission to active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MissionAdapter().Start(cmd.Context(), args[0], as)
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "User id performing the action")
	return cmd
}

func missionListCmd() *cobra.Command {
	var status string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List missions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MissionAdapter().List(cmd.Context(), status, limit)
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (pending, active, ending, completed, aborting, aborted)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n missions")
	return cmd
}

func missionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [mission-id]",
		Short: "Show mission details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.MissionAdapter().Show(cmd.Context(), args[0])
			return err
		},
	}
}

func missionHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [mission-id]",
		Short: "Show a mission's lifecycle events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MissionAdapter().History(cmd.Context(), args[0])
		},
	}
}

func missionSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Report lapsed end/abort confirmations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MissionAdapter().Sweep(cmd.Context())
		},
	}
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/dutybot/internal/ports/primary"
	"github.com/example/dutybot/internal/wire"
)

// EconomyCmd returns the economy command
func EconomyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "economy",
		Short: "Balances, mission payouts and EXP adjustments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show [user-id]",
		Short: "Show a user's SC, EXP and level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.EconomyAdapter().Show(cmd.Context(), args[0])
		},
	})

	var approver string
	approve := &cobra.Command{
		Use:   "approve [user-id] [mission-id] [sc] [exp]",
		Short: "Pay a user for a mission",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid sc %q", args[2])
			}
			exp, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid exp %q", args[3])
			}
			return wire.EconomyAdapter().Approve(cmd.Context(), primary.ApproveMissionRequest{
				ApproverID: approver,
				TargetID:   args[0],
				MissionID:  args[1],
				SC:         sc,
				Exp:        exp,
			})
		},
	}
	approve.Flags().StringVar(&approver, "as", "", "User id of the approver (required)")
	_ = approve.MarkFlagRequired("as")
	cmd.AddCommand(approve)

	var actor string
	addExp := &cobra.Command{
		Use:   "addexp [user-id] [amount]",
		Short: "Add or remove EXP",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}
			return wire.EconomyAdapter().AdjustExp(cmd.Context(), primary.AdjustExpRequest{
				ActorID:  actor,
				TargetID: args[0],
				Amount:   amount,
			})
		},
	}
	addExp.Flags().StringVar(&actor, "as", "", "User id making the adjustment (required)")
	_ = addExp.MarkFlagRequired("as")
	cmd.AddCommand(addExp)

	return cmd
}

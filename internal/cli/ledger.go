package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/dutybot/internal/ports/primary"
	"github.com/example/dutybot/internal/wire"
)

// LedgerCmd returns the ledger command
func LedgerCmd() *cobra.Command {
	var filters primary.LedgerFilters
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "List recorded payouts",
		Long: `List duty, mission and adjustment payouts, newest first.

Examples:
  dutybot ledger --user 123456 --limit 20
  dutybot ledger --kind mission
  dutybot ledger totals 123456`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.EconomyAdapter().Ledger(cmd.Context(), filters)
		},
	}
	cmd.Flags().StringVarP(&filters.UserID, "user", "u", "", "Only entries for this user id")
	cmd.Flags().StringVarP(&filters.Kind, "kind", "k", "", "Only entries of this kind (duty, mission, adjust)")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 50, "Show at most n entries")

	cmd.AddCommand(&cobra.Command{
		Use:   "totals [user-id]",
		Short: "Sum the SC and EXP recorded for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, exp, err := wire.Ledger().Totals(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d SC, %d EXP recorded\n", args[0], sc, exp)
			return nil
		},
	})
	return cmd
}

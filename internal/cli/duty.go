package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/dutybot/internal/wire"
)

// DutyCmd returns the duty command
func DutyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duty",
		Short: "Inspect and manage duty sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DutyAdapter().Roster(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "on [user-id]",
		Short: "Put a user on duty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DutyAdapter().On(cmd.Context(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "off [user-id]",
		Short: "Take a user off duty and pay the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DutyAdapter().Off(cmd.Context(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Run one liveness check now",
		Long:  "Prompt every on-duty user, wait one confirmation window, then take anyone who did not answer off duty.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DutyAdapter().Check(cmd.Context())
		},
	})
	return cmd
}

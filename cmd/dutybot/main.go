package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/dutybot/internal/cli"
	"github.com/example/dutybot/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "dutybot",
		Short:   "dutybot - duty, mission and reward tracking for community chats",
		Version: version.String(),
		Long: `dutybot tracks members going on and off duty, runs missions through
their lifecycle, and pays SC/EXP rewards along a configurable level ladder.
Run 'dutybot serve' to connect the bot; the other commands inspect and
manage the same data from a terminal.`,
		SilenceUsage: true,
	}

	// Bot
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	// Operator console
	rootCmd.AddCommand(cli.DutyCmd())
	rootCmd.AddCommand(cli.MissionCmd())
	rootCmd.AddCommand(cli.EconomyCmd())
	rootCmd.AddCommand(cli.LedgerCmd())
	rootCmd.AddCommand(cli.ChannelCmd())
	rootCmd.AddCommand(cli.RoleCmd())
	rootCmd.AddCommand(cli.LevelCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

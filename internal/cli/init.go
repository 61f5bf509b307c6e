package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/dutybot/internal/config"
	"github.com/example/dutybot/internal/models"
	"github.com/example/dutybot/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration, data file and ledger",
		Long: `Create configuration.json, the data file and the ledger database at the
paths named by DUTYBOT_CONFIG_PATH, DUTYBOT_DATA_PATH and DUTYBOT_LEDGER_PATH.
Existing files are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := wire.Env()
			ctx := cmd.Context()

			created, err := createIfMissing(env.ConfigPath, func() error {
				return config.SaveSettings(env.ConfigPath, config.DefaultSettings())
			})
			if err != nil {
				return err
			}
			report(env.ConfigPath, created)

			created, err = createIfMissing(env.DataPath, func() error {
				return wire.Store().Save(ctx, models.NewDocument())
			})
			if err != nil {
				return err
			}
			report(env.DataPath, created)

			// Opening the ledger creates and migrates it.
			wire.Database()
			defer wire.Close()
			fmt.Printf("✓ Ledger ready at %s\n", env.LedgerPath)

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  edit configuration.json (owner_id, experience_levels, mission_categories)")
			fmt.Println("  dutybot channel set missions <chat-id>")
			fmt.Println("  DUTYBOT_BOT_TOKEN=... dutybot serve")
			return nil
		},
	}
}

func createIfMissing(path string, create func() error) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := create(); err != nil {
		return false, err
	}
	return true, nil
}

func report(path string, created bool) {
	if created {
		fmt.Printf("✓ Created %s\n", path)
	} else {
		fmt.Printf("  %s already exists\n", path)
	}
}

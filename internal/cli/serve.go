package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/dutybot/internal/adapters/telegram"
	"github.com/example/dutybot/internal/wire"
)

// ServeCmd returns the serve command, which runs the bot.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to Telegram and run the bot",
		Long: `Run the bot until interrupted.

Three loops run side by side:
- the Telegram update loop, dispatching chat commands
- the duty liveness check (DUTYBOT_DUTY_CHECK_INTERVAL)
- the mission confirmation sweeper (DUTYBOT_SWEEP_INTERVAL)

The bot token comes from DUTYBOT_BOT_TOKEN or DUTYBOT_BOT_TOKEN_FILE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, logger := wire.Env(), wire.Logger()

			token, err := env.ResolveToken()
			if err != nil {
				return err
			}
			transport, err := telegram.New(token, env.SendRate, logger)
			if err != nil {
				return err
			}
			wire.UseNotifier(transport)
			defer wire.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			missions := wire.MissionService()
			restored, err := missions.Restore(ctx)
			if err != nil {
				return fmt.Errorf("failed to restore confirmation windows: %w", err)
			}
			if restored > 0 {
				logger.Info("restored confirmation windows", "count", restored)
			}

			router := wire.Router()
			if err := transport.RegisterCommands(router.Commands()); err != nil {
				logger.Warn("command menu not updated", "error", err)
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				defer stop()
				return transport.Run(gctx, router)
			})
			g.Go(func() error {
				return wire.DutyService().Run(gctx, env.DutyCheckInterval)
			})
			g.Go(func() error {
				return missions.RunSweeper(gctx, env.SweepInterval)
			})

			logger.Info("dutybot running",
				"duty_check_interval", env.DutyCheckInterval,
				"sweep_interval", env.SweepInterval)
			err = g.Wait()
			logger.Info("dutybot stopped")
			return err
		},
	}
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/dutybot/internal/ports/primary"
)

// EconomyAdapter translates CLI operations to EconomyService calls.
type EconomyAdapter struct {
	service primary.EconomyService
	out     io.Writer
}

// NewEconomyAdapter creates a new EconomyAdapter with the given service.
func NewEconomyAdapter(service primary.EconomyService, out io.Writer) *EconomyAdapter {
	return &EconomyAdapter{service: service, out: out}
}

// Approve pays targetID for a mission on behalf of approverID.
func (a *EconomyAdapter) Approve(ctx context.Context, req primary.ApproveMissionRequest) error {
	resp, err := a.service.ApproveMission(ctx, req)
	if err != nil {
		return err
	}
	a.printAward(resp)
	return nil
}

// AdjustExp changes targetID's EXP on behalf of actorID.
func (a *EconomyAdapter) AdjustExp(ctx context.Context, req primary.AdjustExpRequest) error {
	resp, err := a.service.AdjustExp(ctx, req)
	if err != nil {
		return err
	}
	a.printAward(resp)
	return nil
}

func (a *EconomyAdapter) printAward(resp *primary.AwardResponse) {
	fmt.Fprintf(a.out, "✓ %s: %+d SC, %+d EXP → %d SC, %d EXP, level %d\n",
		resp.TargetID, resp.SCAwarded, resp.ExpAwarded, resp.Balance.SC, resp.Balance.Exp, resp.Balance.Level)
	if resp.LevelUp != nil {
		fmt.Fprintf(a.out, "  %s level %d → %d\n", color.New(color.FgHiMagenta).Sprint("LEVEL UP"), resp.LevelUp.FromLevel, resp.LevelUp.ToLevel)
	}
	printWarnings(a.out, resp.Warnings)
}

// Show prints a user's balance and progress toward the next level.
func (a *EconomyAdapter) Show(ctx context.Context, userID string) error {
	info, err := a.service.Level(ctx, userID)
	if err != nil {
		return err
	}
	bal, err := a.service.Balance(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nUser:  %s\n", userID)
	fmt.Fprintf(a.out, "SC:    %d\n", bal.SC)
	fmt.Fprintf(a.out, "Level: %d\n", info.Level)
	if info.HasNext {
		fmt.Fprintf(a.out, "EXP:   %d / %d (level %d)\n", info.Exp, info.NextRequired, info.NextLevel)
	} else {
		fmt.Fprintf(a.out, "EXP:   %d (%s)\n", info.Exp, color.New(color.FgGreen).Sprint("max level"))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Ledger prints recorded payouts, newest first.
func (a *EconomyAdapter) Ledger(ctx context.Context, filters primary.LedgerFilters) error {
	entries, err := a.service.Ledger(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No ledger entries")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-8s %-14s %6s %6s %-6s %s\n", "WHEN", "KIND", "USER", "SC", "EXP", "MISSION", "NOTE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-20s %-8s %-14s %6d %6d %-6s %s\n",
			e.CreatedAt, e.Kind, e.UserID, e.SC, e.Exp, e.MissionID, e.Note)
	}
	fmt.Fprintln(a.out)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/dutybot/internal/ports/primary"
)

// DutyAdapter translates CLI operations to DutyService calls.
type DutyAdapter struct {
	service primary.DutyService
	out     io.Writer
}

// NewDutyAdapter creates a new DutyAdapter with the given service.
func NewDutyAdapter(service primary.DutyService, out io.Writer) *DutyAdapter {
	return &DutyAdapter{service: service, out: out}
}

// Roster lists users currently on duty.
func (a *DutyAdapter) Roster(ctx context.Context) error {
	users, err := a.service.OnDuty(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "Nobody is on duty")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %s\n", "USER", "MINUTES")
	for _, id := range users {
		st, err := a.service.Status(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%-20s %.0f\n", id, st.Minutes)
	}
	fmt.Fprintln(a.out)
	return nil
}

// On puts userID on duty.
func (a *DutyAdapter) On(ctx context.Context, userID string) error {
	resp, err := a.service.GoOnDuty(ctx, userID)
	if err != nil {
		return err
	}
	if resp.Restamped {
		fmt.Fprintf(a.out, "✓ %s was already on duty; clock restarted at %s\n", userID, resp.StartTime.Format("15:04:05"))
		return nil
	}
	fmt.Fprintf(a.out, "✓ %s is on duty since %s\n", userID, resp.StartTime.Format("15:04:05"))
	return nil
}

// Off takes userID off duty and prints the payout.
func (a *DutyAdapter) Off(ctx context.Context, userID string) error {
	resp, err := a.service.GoOffDuty(ctx, userID)
	if err != nil {
		return err
	}
	if !resp.WasOnDuty {
		fmt.Fprintf(a.out, "%s is not on duty\n", userID)
		return nil
	}

	fmt.Fprintf(a.out, "✓ %s off duty after %.0f minutes: +%d SC, +%d EXP (balance %d SC)\n",
		userID, resp.Minutes, resp.SCEarned, resp.ExpEarned, resp.Balance)
	if resp.LevelUp != nil {
		fmt.Fprintf(a.out, "  %s level %d → %d\n", color.New(color.FgHiMagenta).Sprint("LEVEL UP"), resp.LevelUp.FromLevel, resp.LevelUp.ToLevel)
	}
	printWarnings(a.out, resp.Warnings)
	return nil
}

// Check runs one liveness pass and prints who was prompted and who was
// forced off duty.
func (a *DutyAdapter) Check(ctx context.Context) error {
	report, err := a.service.RunLivenessPass(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Prompted: %d\n", len(report.Prompted))
	for _, id := range report.NotifyFailed {
		fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgYellow).Sprint("UNREACHABLE"), id)
	}
	for _, id := range report.ForcedOffDuty {
		fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgRed).Sprint("OFF DUTY"), id)
	}
	return nil
}

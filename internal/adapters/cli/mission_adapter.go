// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/dutybot/internal/ports/primary"
)

// MissionAdapter is a thin adapter that translates CLI operations to MissionService calls.
// It depends only on the MissionService interface, enabling easy testing with mocks.
type MissionAdapter struct {
	service primary.MissionService
	out     io.Writer
}

// NewMissionAdapter creates a new MissionAdapter with the given service.
func NewMissionAdapter(service primary.MissionService, out io.Writer) *MissionAdapter {
	return &MissionAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a pending mission on behalf of leaderID.
func (a *MissionAdapter) Create(ctx context.Context, leaderID, category, description string) error {
	resp, err := a.service.CreateMission(ctx, primary.CreateMissionRequest{
		LeaderID:    leaderID,
		Category:    category,
		Description: description,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created mission %s (%s)\n", resp.MissionID, category)
	printWarnings(a.out, resp.Warnings)
	return nil
}

// Start moves a pending mission to active.
func (a *MissionAdapter) Start(ctx context.Context, missionID, callerID string) error {
	resp, err := a.service.StartMission(ctx, primary.MissionActionRequest{MissionID: missionID, CallerID: callerID})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Mission %s is %s\n", resp.Mission.ID, statusLabel(resp.Mission.Status))
	printWarnings(a.out, resp.Warnings)
	return nil
}

// List lists missions with optional status filter.
func (a *MissionAdapter) List(ctx context.Context, status string, limit int) error {
	missions, err := a.service.ListMissions(ctx, primary.MissionFilters{
		Status: status,
		Limit:  limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list missions: %w", err)
	}

	if len(missions) == 0 {
		fmt.Fprintln(a.out, "No missions found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-6s %-10s %-12s %-10s %s\n", "ID", "STATUS", "CATEGORY", "LEADER", "DESCRIPTION")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, m := range missions {
		fmt.Fprintf(a.out, "%-6s %s %-12s %-10s %s\n", m.ID, statusLabel(m.Status), m.Category, m.LeaderID, m.Description)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays details for a single mission.
func (a *MissionAdapter) Show(ctx context.Context, missionID string) (*primary.Mission, error) {
	mission, err := a.service.GetMission(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mission: %w", err)
	}

	fmt.Fprintf(a.out, "\nMission:  %s\n", mission.ID)
	fmt.Fprintf(a.out, "Status:   %s\n", statusLabel(mission.Status))
	fmt.Fprintf(a.out, "Leader:   %s\n", mission.LeaderID)
	fmt.Fprintf(a.out, "Category: %s\n", mission.Category)
	if mission.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", mission.Description)
	}
	fmt.Fprintf(a.out, "Members:  %v\n", mission.Members)
	fmt.Fprintf(a.out, "Started:  %s\n", mission.StartTime.Format("2006-01-02 15:04:05"))
	if mission.Duration != "" {
		fmt.Fprintf(a.out, "Duration: %s\n", mission.Duration)
	}
	if mission.EndReason != "" {
		fmt.Fprintf(a.out, "End reason: %s\n", mission.EndReason)
	}
	if mission.AbortReason != "" {
		fmt.Fprintf(a.out, "Abort reason: %s\n", mission.AbortReason)
	}
	if mission.Screenshot != "" {
		fmt.Fprintf(a.out, "Screenshot: %s\n", mission.Screenshot)
	}
	fmt.Fprintln(a.out)

	return mission, nil
}

// History prints the recorded lifecycle events of a mission.
func (a *MissionAdapter) History(ctx context.Context, missionID string) error {
	events, err := a.service.MissionHistory(ctx, missionID)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintln(a.out, "No recorded events")
		return nil
	}

	for _, e := range events {
		transition := e.ToStatus
		if e.FromStatus != "" && e.FromStatus != e.ToStatus {
			transition = e.FromStatus + " → " + e.ToStatus
		}
		fmt.Fprintf(a.out, "%s  %-16s %-22s %s", e.CreatedAt, e.Action, transition, e.ActorID)
		if e.Detail != "" {
			fmt.Fprintf(a.out, "  %s", e.Detail)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

// Sweep reports lapsed confirmation windows and notifies their initiators.
func (a *MissionAdapter) Sweep(ctx context.Context) error {
	expired, err := a.service.SweepExpired(ctx)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		fmt.Fprintln(a.out, "No expired confirmations")
		return nil
	}
	for _, e := range expired {
		fmt.Fprintf(a.out, "%s mission %s %s confirmation by %s\n",
			color.New(color.FgYellow).Sprint("EXPIRED"), e.MissionID, e.Action, e.InitiatorID)
	}
	return nil
}

// statusLabel renders a padded, colored mission status.
func statusLabel(status string) string {
	padded := fmt.Sprintf("%-10s", status)
	switch status {
	case "pending":
		return color.New(color.FgCyan).Sprint(padded)
	case "active":
		return color.New(color.FgGreen).Sprint(padded)
	case "ending", "aborting":
		return color.New(color.FgYellow).Sprint(padded)
	case "aborted":
		return color.New(color.FgRed).Sprint(padded)
	default:
		return padded
	}
}

func printWarnings(out io.Writer, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(out, "%s %s\n", color.New(color.FgYellow).Sprint("!"), w)
	}
}

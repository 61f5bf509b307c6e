// Package mission contains the pure business logic for mission operations.
// This file contains pure planner functions that generate effects.
package mission

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/dutybot/internal/core/effects"
)

// Channel purposes the planners post to.
const (
	purposeMissions        = "missions"
	purposePendingMissions = "pending_missions"
	purposeMissionLogs     = "mission_logs"
	purposeScreenshots     = "screenshots"
)

// Summary is the mission data shown in announcements.
type Summary struct {
	MissionID   string
	LeaderID    string
	Category    string
	Description string
}

// CreatedPlanInput contains the inputs for announcing a new mission.
type CreatedPlanInput struct {
	Mission          Summary
	PendingChannelID string // empty when not configured
}

// GenerateCreatedPlan announces a new mission in the pending missions channel.
// Without a configured channel the plan is empty.
func GenerateCreatedPlan(input CreatedPlanInput) []effects.Effect {
	if input.PendingChannelID == "" {
		return nil
	}
	m := input.Mission
	content := fmt.Sprintf("New Mission #%s\nLeader: %s\nCategory: %s\nDescription: %s\n\nStart it with /mstart %s or ask for help with /msupport %s",
		m.MissionID, effects.Mention(m.LeaderID), m.Category, m.Description, m.MissionID, m.MissionID)
	return []effects.Effect{effects.PostEffect{
		Purpose:   purposePendingMissions,
		ChannelID: input.PendingChannelID,
		Content:   content,
	}}
}

// StartedPlanInput contains the inputs for announcing a started mission.
type StartedPlanInput struct {
	Mission           Summary
	MissionsChannelID string
}

// GenerateStartedPlan announces the mission in progress, naming the leader.
func GenerateStartedPlan(input StartedPlanInput) []effects.Effect {
	if input.MissionsChannelID == "" {
		return []effects.Effect{missingChannelLog(input.Mission.MissionID, purposeMissions)}
	}
	m := input.Mission
	content := fmt.Sprintf("Mission #%s In Progress\nLeader: %s\nCategory: %s\nDescription: %s\n\nEnd it with /mend %s or abort with /mabort %s",
		m.MissionID, effects.Mention(m.LeaderID), m.Category, m.Description, m.MissionID, m.MissionID)
	return []effects.Effect{effects.PostEffect{
		Purpose:   purposeMissions,
		ChannelID: input.MissionsChannelID,
		Content:   content,
	}}
}

// GenerateSupportPlan notifies every on-duty user that a mission needs help.
func GenerateSupportPlan(mission Summary, requesterID string, onDuty []string) []effects.Effect {
	plan := make([]effects.Effect, 0, len(onDuty))
	for _, userID := range onDuty {
		if userID == requesterID {
			continue
		}
		plan = append(plan, effects.NotifyEffect{
			UserID: userID,
			Message: fmt.Sprintf("Support requested! Mission #%s (%s) needs assistance: %s\nRequested by %s",
				mission.MissionID, mission.Category, mission.Description, effects.Mention(requesterID)),
		})
	}
	return plan
}

// InitiatedPlanInput contains the inputs for an end/abort prompt.
type InitiatedPlanInput struct {
	MissionID            string
	InitiatorID          string
	ScreenshotsChannelID string
	Window               time.Duration
}

// GenerateEndInitiatedPlan posts the end confirmation prompt to the
// screenshots channel.
func GenerateEndInitiatedPlan(input InitiatedPlanInput) []effects.Effect {
	return initiatedPlan(input, "ending", "/confend")
}

// GenerateAbortInitiatedPlan posts the abort confirmation prompt to the
// screenshots channel.
func GenerateAbortInitiatedPlan(input InitiatedPlanInput) []effects.Effect {
	return initiatedPlan(input, "aborting", "/confabort")
}

func initiatedPlan(input InitiatedPlanInput, verb, command string) []effects.Effect {
	content := fmt.Sprintf("Mission #%s %s.\n%s, please use %s %s <reason> [screenshot url] within %s.",
		input.MissionID, verb, effects.Mention(input.InitiatorID), command, input.MissionID, formatWindow(input.Window))
	return []effects.Effect{effects.PostEffect{
		Purpose:   purposeScreenshots,
		ChannelID: input.ScreenshotsChannelID,
		Content:   content,
	}}
}

// OutcomePlanInput contains the inputs for a completion or abort summary.
type OutcomePlanInput struct {
	Mission    Summary
	Duration   time.Duration
	Reason     string
	Screenshot string
	ChannelID  string
}

// GenerateCompletedPlan posts the completion summary to the missions channel.
func GenerateCompletedPlan(input OutcomePlanInput) []effects.Effect {
	if input.ChannelID == "" {
		return []effects.Effect{missingChannelLog(input.Mission.MissionID, purposeMissions)}
	}
	lines := []string{
		fmt.Sprintf("Mission %s Completed", input.Mission.MissionID),
		"Duration: " + FormatDuration(input.Duration),
		"Category: " + input.Mission.Category,
		"Description: " + input.Mission.Description,
		"Reason: " + input.Reason,
	}
	if input.Screenshot != "" {
		lines = append(lines, "Screenshot: "+input.Screenshot)
	}
	return []effects.Effect{effects.PostEffect{
		Purpose:   purposeMissions,
		ChannelID: input.ChannelID,
		Content:   strings.Join(lines, "\n"),
	}}
}

// GenerateAbortedPlan posts the abort summary to the mission logs channel.
func GenerateAbortedPlan(input OutcomePlanInput) []effects.Effect {
	if input.ChannelID == "" {
		return []effects.Effect{missingChannelLog(input.Mission.MissionID, purposeMissionLogs)}
	}
	lines := []string{
		fmt.Sprintf("Mission %s Aborted", input.Mission.MissionID),
		"Category: " + input.Mission.Category,
		"Description: " + input.Mission.Description,
		"Reason: " + input.Reason,
	}
	if input.Screenshot != "" {
		lines = append(lines, "Screenshot: "+input.Screenshot)
	}
	return []effects.Effect{effects.PostEffect{
		Purpose:   purposeMissionLogs,
		ChannelID: input.ChannelID,
		Content:   strings.Join(lines, "\n"),
	}}
}

// GenerateTimeoutPlan tells the initiator their confirmation window closed.
func GenerateTimeoutPlan(missionID, initiatorID string, action Action) []effects.Effect {
	noun, command := "end", "/mend"
	if action == ActionInitiateAbort {
		noun, command = "abort", "/mabort"
	}
	return []effects.Effect{effects.NotifyEffect{
		UserID: initiatorID,
		Message: fmt.Sprintf("The %s confirmation for mission #%s timed out. The mission was left as it is; run %s %s to try again.",
			noun, missionID, command, missionID),
	}}
}

// FormatDuration renders a mission duration as H:MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func formatWindow(d time.Duration) string {
	switch {
	case d == time.Minute:
		return "1 minute"
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return fmt.Sprintf("%d seconds", int(d/time.Second))
	}
}

func missingChannelLog(missionID, purpose string) effects.LogEffect {
	return effects.LogEffect{
		Level:   "warn",
		Message: "mission channel not configured",
		Fields:  map[string]any{"mission_id": missionID, "purpose": purpose},
	}
}

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/dutybot/internal/ports/primary"
)

func (r *Router) registerMissions() {
	const category = "Missions"
	r.register(Command{Name: "startmission", Usage: "/startmission <category> <description>", Description: "Start a new mission", Category: category}, r.handleCreateMission)
	r.register(Command{Name: "mstart", Usage: "/mstart <mission>", Description: "Move a pending mission to active", Category: category}, r.handleStartMission)
	r.register(Command{Name: "msupport", Usage: "/msupport <mission>", Description: "Ask on-duty members for help", Category: category}, r.handleSupport)
	r.register(Command{Name: "mend", Usage: "/mend <mission>", Description: "Begin ending a mission", Category: category}, r.handleInitiateEnd)
	r.register(Command{Name: "mabort", Usage: "/mabort <mission>", Description: "Begin aborting a mission", Category: category}, r.handleInitiateAbort)
	r.register(Command{Name: "confend", Usage: "/confend <mission> <reason> [screenshot url]", Description: "Confirm mission end with reason and optional screenshot", Category: category}, r.handleConfirmEnd)
	r.register(Command{Name: "confabort", Usage: "/confabort <mission> <reason> [screenshot url]", Description: "Confirm mission abort with reason and optional screenshot", Category: category}, r.handleConfirmAbort)
	r.register(Command{Name: "mission", Usage: "/mission <mission>", Description: "Show a mission", Category: category}, r.handleShowMission)
	r.register(Command{Name: "missions", Usage: "/missions [status]", Description: "List missions", Category: category}, r.handleListMissions)
	r.register(Command{Name: "mhistory", Usage: "/mhistory <mission>", Description: "Show a mission's lifecycle events", Category: category}, r.handleMissionHistory)
}

func (r *Router) handleCreateMission(ctx context.Context, req Request) (Response, error) {
	if len(req.Args) < 1 {
		return Response{}, usageError("/startmission <category> <description>")
	}
	resp, err := r.missions.CreateMission(ctx, primary.CreateMissionRequest{
		LeaderID:    req.CallerID,
		Category:    req.Args[0],
		Description: strings.Join(req.Args[1:], " "),
	})
	if err != nil {
		return Response{}, err
	}
	text := fmt.Sprintf("Mission %s created! Check pending missions channel.", resp.MissionID)
	return Response{Text: withWarnings(text, resp.Warnings), Ephemeral: true}, nil
}

func (r *Router) missionAction(req Request, usage string) (primary.MissionActionRequest, error) {
	if len(req.Args) != 1 {
		return primary.MissionActionRequest{}, usageError(usage)
	}
	return primary.MissionActionRequest{MissionID: req.Args[0], CallerID: req.CallerID}, nil
}

func (r *Router) handleStartMission(ctx context.Context, req Request) (Response, error) {
	action, err := r.missionAction(req, "/mstart <mission>")
	if err != nil {
		return Response{}, err
	}
	resp, err := r.missions.StartMission(ctx, action)
	if err != nil {
		return Response{}, err
	}
	return Response{Text: withWarnings("Mission started successfully!", resp.Warnings), Ephemeral: true}, nil
}

func (r *Router) handleSupport(ctx context.Context, req Request) (Response, error) {
	action, err := r.missionAction(req, "/msupport <mission>")
	if err != nil {
		return Response{}, err
	}
	resp, err := r.missions.RequestSupport(ctx, action)
	if err != nil {
		return Response{}, err
	}
	if resp.NoOneOnDuty {
		return Response{Text: "No users currently on duty!", Ephemeral: true}, nil
	}
	text := fmt.Sprintf("Support requested! Pinging on-duty users:\n%s\nMission #%s needs assistance!",
		mentions(resp.Notified), resp.Mission.ID)
	return Response{Text: withWarnings(text, resp.Warnings)}, nil
}

func (r *Router) handleInitiateEnd(ctx context.Context, req Request) (Response, error) {
	action, err := r.missionAction(req, "/mend <mission>")
	if err != nil {
		return Response{}, err
	}
	resp, err := r.missions.InitiateEnd(ctx, action)
	if err != nil {
		return Response{}, err
	}
	return Response{Text: withWarnings(initiatedText(resp, "end", "/confend"), resp.Warnings), Ephemeral: true}, nil
}

func (r *Router) handleInitiateAbort(ctx context.Context, req Request) (Response, error) {
	action, err := r.missionAction(req, "/mabort <mission>")
	if err != nil {
		return Response{}, err
	}
	resp, err := r.missions.InitiateAbort(ctx, action)
	if err != nil {
		return Response{}, err
	}
	return Response{Text: withWarnings(initiatedText(resp, "abort", "/confabort"), resp.Warnings), Ephemeral: true}, nil
}

func initiatedText(resp *primary.MissionResponse, noun, command string) string {
	verb := "started"
	if resp.Rearmed {
		verb = "restarted"
	}
	return fmt.Sprintf("Mission #%s %s confirmation %s. Use %s %s <reason> [screenshot url] before %s.",
		resp.Mission.ID, noun, verb, command, resp.Mission.ID, resp.Deadline.Format("15:04:05"))
}

func (r *Router) confirmRequest(req Request, usage string) (primary.ConfirmMissionRequest, error) {
	if len(req.Args) < 2 {
		return primary.ConfirmMissionRequest{}, usageError(usage)
	}
	reason, screenshot := splitReason(req.Args[1:])
	if reason == "" {
		return primary.ConfirmMissionRequest{}, usageError(usage)
	}
	if screenshot == "" {
		screenshot = req.Attachment
	}
	return primary.ConfirmMissionRequest{
		MissionID:  req.Args[0],
		CallerID:   req.CallerID,
		Reason:     reason,
		Screenshot: screenshot,
	}, nil
}

func (r *Router) handleConfirmEnd(ctx context.Context, req Request) (Response, error) {
	confirm, err := r.confirmRequest(req, "/confend <mission> <reason> [screenshot url]")
	if err != nil {
		return Response{}, err
	}
	resp, err := r.missions.ConfirmEnd(ctx, confirm)
	if err != nil {
		return Response{}, err
	}
	return Response{Text: withWarnings("Mission end confirmed!", resp.Warnings), Ephemeral: true}, nil
}

func (r *Router) handleConfirmAbort(ctx context.Context, req Request) (Response, error) {
	confirm, err := r.confirmRequest(req, "/confabort <mission> <reason> [screenshot url]")
	if err != nil {
		return Response{}, err
	}
	resp, err := r.missions.ConfirmAbort(ctx, confirm)
	if err != nil {
		return Response{}, err
	}
	return Response{Text: withWarnings("Mission abort confirmed!", resp.Warnings), Ephemeral: true}, nil
}

func (r *Router) handleShowMission(ctx context.Context, req Request) (Response, error) {
	if len(req.Args) != 1 {
		return Response{}, usageError("/mission <mission>")
	}
	m, err := r.missions.GetMission(ctx, req.Args[0])
	if err != nil {
		return Response{}, err
	}

	lines := []string{
		fmt.Sprintf("Mission #%s (%s)", m.ID, m.Status),
		"Leader: <@" + m.LeaderID + ">",
		"Category: " + m.Category,
		"Description: " + m.Description,
		"Members: " + mentions(m.Members),
	}
	if m.Duration != "" {
		lines = append(lines, "Duration: "+m.Duration)
	}
	if m.EndReason != "" {
		lines = append(lines, "End reason: "+m.EndReason)
	}
	if m.AbortReason != "" {
		lines = append(lines, "Abort reason: "+m.AbortReason)
	}
	return Response{Text: strings.Join(lines, "\n"), Ephemeral: true}, nil
}

func (r *Router) handleListMissions(ctx context.Context, req Request) (Response, error) {
	filters := primary.MissionFilters{Limit: 20}
	if len(req.Args) > 0 {
		filters.Status = strings.ToLower(req.Args[0])
	}
	missions, err := r.missions.ListMissions(ctx, filters)
	if err != nil {
		return Response{}, err
	}
	if len(missions) == 0 {
		return Response{Text: "No missions found", Ephemeral: true}, nil
	}

	var b strings.Builder
	for _, m := range missions {
		fmt.Fprintf(&b, "#%s [%s] %s: %s\n", m.ID, m.Status, m.Category, m.Description)
	}
	return Response{Text: strings.TrimRight(b.String(), "\n"), Ephemeral: true}, nil
}

func (r *Router) handleMissionHistory(ctx context.Context, req Request) (Response, error) {
	if len(req.Args) != 1 {
		return Response{}, usageError("/mhistory <mission>")
	}
	events, err := r.missions.MissionHistory(ctx, req.Args[0])
	if err != nil {
		return Response{}, err
	}
	if len(events) == 0 {
		return Response{Text: "No recorded events", Ephemeral: true}, nil
	}

	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "%s %s", e.CreatedAt, e.Action)
		if e.FromStatus != e.ToStatus {
			fmt.Fprintf(&b, " %s -> %s", e.FromStatus, e.ToStatus)
		}
		if e.ActorID != "" {
			fmt.Fprintf(&b, " by <@%s>", e.ActorID)
		}
		if e.Detail != "" {
			fmt.Fprintf(&b, " (%s)", e.Detail)
		}
		b.WriteString("\n")
	}
	return Response{Text: strings.TrimRight(b.String(), "\n"), Ephemeral: true}, nil
}

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/dutybot/internal/ports/primary"
)

func (r *Router) registerDuty() {
	const category = "Duty"
	r.register(Command{Name: "onduty", Usage: "/onduty", Description: "Set yourself as on duty", Category: category}, r.handleOnDuty)
	r.register(Command{Name: "offduty", Usage: "/offduty", Description: "Set yourself as off duty", Category: category}, r.handleOffDuty)
	r.register(Command{Name: "confirm", Usage: "/confirm <code>", Description: "Confirm you're still on duty", Category: category}, r.handleConfirm)
	r.register(Command{Name: "dutystatus", Usage: "/dutystatus [user]", Description: "Show whether a user is on duty", Category: category}, r.handleDutyStatus)
}

func (r *Router) handleOnDuty(ctx context.Context, req Request) (Response, error) {
	resp, err := r.duty.GoOnDuty(ctx, req.CallerID)
	if err != nil {
		return Response{}, err
	}
	if resp.Restamped {
		return Response{Text: "You were already on duty; your duty clock has restarted.", Ephemeral: true}, nil
	}
	return Response{Text: "You are now on duty!", Ephemeral: true}, nil
}

func (r *Router) handleOffDuty(ctx context.Context, req Request) (Response, error) {
	resp, err := r.duty.GoOffDuty(ctx, req.CallerID)
	if err != nil {
		return Response{}, err
	}
	if !resp.WasOnDuty {
		return Response{Text: "You are not on duty.", Ephemeral: true}, nil
	}

	text := fmt.Sprintf("You are now off duty! You earned %d SC and %d EXP for %.0f minutes.",
		resp.SCEarned, resp.ExpEarned, resp.Minutes)
	if resp.LevelUp != nil {
		text += fmt.Sprintf("\nLevel up! You are now level %d.", resp.LevelUp.ToLevel)
	}
	return Response{Text: withWarnings(text, resp.Warnings), Ephemeral: true}, nil
}

func (r *Router) handleConfirm(ctx context.Context, req Request) (Response, error) {
	if len(req.Args) != 1 {
		return Response{}, usageError("/confirm <code>")
	}
	resp, err := r.duty.Confirm(ctx, req.CallerID, req.Args[0])
	if err != nil {
		return Response{}, err
	}

	var text string
	switch resp.Outcome {
	case primary.ConfirmOutcomeConfirmed:
		text = "Duty status confirmed!"
	case primary.ConfirmOutcomeInvalidCode:
		text = "Invalid code!"
	case primary.ConfirmOutcomeExpired:
		text = "That code has expired."
	default:
		text = "No confirmation needed at this time."
	}
	return Response{Text: text, Ephemeral: true}, nil
}

func (r *Router) handleDutyStatus(ctx context.Context, req Request) (Response, error) {
	userID := optionalUser(req, 0, req.CallerID)
	status, err := r.duty.Status(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	if !status.OnDuty {
		return Response{Text: fmt.Sprintf("<@%s> is off duty.", userID), Ephemeral: true}, nil
	}

	onDuty, err := r.duty.OnDuty(ctx)
	if err != nil {
		return Response{}, err
	}
	text := fmt.Sprintf("<@%s> has been on duty for %.0f minutes. On duty now: %s",
		userID, status.Minutes, mentions(onDuty))
	if !status.CheckDeadline.IsZero() {
		text += fmt.Sprintf("\nDuty check pending until %s.", status.CheckDeadline.Format("15:04:05"))
	}
	return Response{Text: text, Ephemeral: true}, nil
}

func mentions(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = "<@" + id + ">"
	}
	return strings.Join(out, " ")
}

package chat

import (
	"context"
	"fmt"

	"github.com/example/dutybot/internal/ports/primary"
)

func (r *Router) registerEconomy() {
	const category = "Economy"
	r.register(Command{Name: "approve", Usage: "/approve <user> <mission> <sc> <exp>", Description: "Approve a mission and award SC/EXP", Category: category}, r.handleApprove)
	r.register(Command{Name: "addexp", Usage: "/addexp <user> <amount>", Description: "Add or remove EXP from a user", Category: category}, r.handleAddExp)
	r.register(Command{Name: "level", Usage: "/level [user]", Description: "Check your or another user's level", Category: category}, r.handleLevel)
	r.register(Command{Name: "balance", Usage: "/balance [user]", Description: "Show an SC balance", Category: category}, r.handleBalance)
}

func (r *Router) handleApprove(ctx context.Context, req Request) (Response, error) {
	const usage = usageError("/approve <user> <mission> <sc> <exp>")
	if len(req.Args) != 4 {
		return Response{}, usage
	}
	target, ok := userArg(req, 0)
	if !ok {
		return Response{}, usage
	}
	sc, okSC := parseInt(req.Args[2])
	exp, okExp := parseInt(req.Args[3])
	if !okSC || !okExp {
		return Response{}, usage
	}

	resp, err := r.economy.ApproveMission(ctx, primary.ApproveMissionRequest{
		ApproverID: req.CallerID,
		TargetID:   target,
		MissionID:  req.Args[1],
		SC:         sc,
		Exp:        exp,
	})
	if err != nil {
		return Response{}, err
	}

	text := fmt.Sprintf("Mission %s approved!\n<@%s> received %d SC and %d EXP\nCurrent level: %d",
		req.Args[1], target, resp.SCAwarded, resp.ExpAwarded, resp.Balance.Level)
	if resp.LevelUp != nil {
		text += fmt.Sprintf("\nLevel up! %d -> %d", resp.LevelUp.FromLevel, resp.LevelUp.ToLevel)
	}
	return Response{Text: withWarnings(text, resp.Warnings)}, nil
}

func (r *Router) handleAddExp(ctx context.Context, req Request) (Response, error) {
	const usage = usageError("/addexp <user> <amount>")
	if len(req.Args) != 2 {
		return Response{}, usage
	}
	target, ok := userArg(req, 0)
	amount, okAmount := parseInt(req.Args[1])
	if !ok || !okAmount {
		return Response{}, usage
	}

	resp, err := r.economy.AdjustExp(ctx, primary.AdjustExpRequest{
		ActorID:  req.CallerID,
		TargetID: target,
		Amount:   amount,
	})
	if err != nil {
		return Response{}, err
	}
	text := fmt.Sprintf("Updated <@%s>'s EXP by %+d. New total: %d", target, amount, resp.Balance.Exp)
	if resp.LevelUp != nil {
		text += fmt.Sprintf("\nLevel up! %d -> %d", resp.LevelUp.FromLevel, resp.LevelUp.ToLevel)
	}
	return Response{Text: withWarnings(text, resp.Warnings), Ephemeral: true}, nil
}

func (r *Router) handleLevel(ctx context.Context, req Request) (Response, error) {
	userID := optionalUser(req, 0, req.CallerID)
	info, err := r.economy.Level(ctx, userID)
	if err != nil {
		return Response{}, err
	}

	owner := "Your"
	if userID != req.CallerID {
		owner = "<@" + userID + ">'s"
	}
	text := fmt.Sprintf("%s Stats:\nLevel: %d\nEXP: %d", owner, info.Level, info.Exp)
	if info.HasNext {
		text += fmt.Sprintf("\nNext level in: %d EXP", max(info.NextRequired-info.Exp, 0))
	} else {
		text += "\nHighest level reached"
	}
	return Response{Text: text}, nil
}

func (r *Router) handleBalance(ctx context.Context, req Request) (Response, error) {
	userID := optionalUser(req, 0, req.CallerID)
	b, err := r.economy.Balance(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	if userID == req.CallerID {
		return Response{Text: fmt.Sprintf("Your balance: %d SC", b.SC), Ephemeral: true}, nil
	}
	return Response{Text: fmt.Sprintf("<@%s>'s balance: %d SC", userID, b.SC), Ephemeral: true}, nil
}

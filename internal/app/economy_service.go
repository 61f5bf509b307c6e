package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/dutybot/internal/apperr"
	"github.com/example/dutybot/internal/core/authz"
	"github.com/example/dutybot/internal/core/reward"
	"github.com/example/dutybot/internal/models"
	"github.com/example/dutybot/internal/ports/primary"
	"github.com/example/dutybot/internal/ports/secondary"
)

// EconomyServiceImpl implements the EconomyService interface.
type EconomyServiceImpl struct {
	store     secondary.DocumentStore
	directory secondary.MemberDirectory
	ledger    secondary.LedgerRepository
	executor  EffectExecutor
	rules     Rules
	logger    *slog.Logger
}

// NewEconomyService creates a new EconomyService with injected dependencies.
func NewEconomyService(
	store secondary.DocumentStore,
	directory secondary.MemberDirectory,
	ledger secondary.LedgerRepository,
	executor EffectExecutor,
	rules Rules,
	logger *slog.Logger,
) *EconomyServiceImpl {
	return &EconomyServiceImpl{
		store:     store,
		directory: directory,
		ledger:    ledger,
		executor:  executor,
		rules:     rules,
		logger:    logger,
	}
}

// ApproveMission pays the target for a mission after checking that the
// approver outranks them.
func (s *EconomyServiceImpl) ApproveMission(ctx context.Context, req primary.ApproveMissionRequest) (*primary.AwardResponse, error) {
	if req.SC < 0 || req.Exp < 0 {
		return nil, apperr.Wrap(apperr.ErrValidation, "SC and EXP must not be negative")
	}

	// 1. Resolve both priorities
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	approverP, _, err := priorityOf(ctx, s.directory, doc, s.rules, req.ApproverID)
	if err != nil {
		return nil, err
	}
	targetP, _, err := priorityOf(ctx, s.directory, doc, s.rules, req.TargetID)
	if err != nil {
		return nil, err
	}

	// 2. Authorization check
	if !authz.CanApprove(approverP, targetP) {
		return nil, apperr.Wrap(apperr.ErrAuthorization,
			"You don't have permission to approve this user's missions! You need a higher rank to approve their missions.")
	}

	// 3. Credit with the level's mission bonus and check for a level-up
	resp := &primary.AwardResponse{TargetID: req.TargetID}
	var levelUp reward.LevelUpResult
	_, err = update(ctx, s.store, func(doc *models.Document) error {
		if _, err := findMission(doc, req.MissionID); err != nil {
			return err
		}
		user := doc.EnsureUser(req.TargetID)
		ladder := buildLadder(doc, s.rules)

		sc := req.SC
		if r, ok := ladder.Rung(user.Level); ok {
			sc = reward.ApplyMissionBonus(sc, r.MissionBonus)
		}
		user.SC += sc
		user.Exp += req.Exp

		levelUp = reward.ApplyLevelUp(reward.LevelState{Level: user.Level, Exp: user.Exp}, ladder)
		user.Level = levelUp.State.Level
		user.Exp = levelUp.State.Exp

		resp.SCAwarded = sc
		resp.ExpAwarded = req.Exp
		resp.Balance = balanceOf(req.TargetID, user)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to approve mission: %w", err)
	}

	// 4. Role swap and ledger after the save
	resp.Warnings = append(resp.Warnings, s.afterAward(ctx, req.TargetID, levelUp, resp)...)
	resp.Warnings = append(resp.Warnings, recordPayout(ctx, s.ledger, s.logger, &secondary.LedgerEntryRecord{
		UserID:    req.TargetID,
		Kind:      secondary.LedgerKindMission,
		SC:        resp.SCAwarded,
		Exp:       resp.ExpAwarded,
		MissionID: normalizeMissionID(req.MissionID),
		ActorID:   req.ApproverID,
	})...)

	s.logger.InfoContext(ctx, "mission approved",
		"mission_id", req.MissionID,
		"approver", req.ApproverID,
		"target", req.TargetID,
		"sc", resp.SCAwarded,
		"exp", resp.ExpAwarded)
	return resp, nil
}

// AdjustExp changes a user's EXP. Only the top rank may do this; the
// total never drops below zero.
func (s *EconomyServiceImpl) AdjustExp(ctx context.Context, req primary.AdjustExpRequest) (*primary.AwardResponse, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	actorP, _, err := priorityOf(ctx, s.directory, doc, s.rules, req.ActorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAdjustExp(actorP) {
		return nil, apperr.Wrap(apperr.ErrAuthorization, "Only highest rank can modify EXP!")
	}

	resp := &primary.AwardResponse{TargetID: req.TargetID}
	var levelUp reward.LevelUpResult
	_, err = update(ctx, s.store, func(doc *models.Document) error {
		user := doc.EnsureUser(req.TargetID)
		before := user.Exp
		user.Exp = reward.ClampExp(user.Exp + req.Amount)
		resp.ExpAwarded = user.Exp - before

		if req.Amount > 0 {
			levelUp = reward.ApplyLevelUp(reward.LevelState{Level: user.Level, Exp: user.Exp}, buildLadder(doc, s.rules))
			user.Level = levelUp.State.Level
			user.Exp = levelUp.State.Exp
		}
		resp.Balance = balanceOf(req.TargetID, user)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to adjust exp: %w", err)
	}

	resp.Warnings = append(resp.Warnings, s.afterAward(ctx, req.TargetID, levelUp, resp)...)
	resp.Warnings = append(resp.Warnings, recordPayout(ctx, s.ledger, s.logger, &secondary.LedgerEntryRecord{
		UserID:  req.TargetID,
		Kind:    secondary.LedgerKindAdjust,
		Exp:     resp.ExpAwarded,
		ActorID: req.ActorID,
		Note:    fmt.Sprintf("requested %+d", req.Amount),
	})...)
	return resp, nil
}

func (s *EconomyServiceImpl) afterAward(ctx context.Context, userID string, levelUp reward.LevelUpResult, resp *primary.AwardResponse) []string {
	if !levelUp.Leveled {
		return nil
	}
	resp.LevelUp = &primary.LevelUp{FromLevel: levelUp.FromLevel, ToLevel: levelUp.ToLevel}
	if err := s.executor.Execute(ctx, reward.GenerateLevelUpPlan(userID, levelUp)); err != nil {
		s.logger.WarnContext(ctx, "level-up side effects failed", "user_id", userID, "level", levelUp.ToLevel, "error", err)
		return []string{fmt.Sprintf("reached level %d but the role update failed: %v", levelUp.ToLevel, err)}
	}
	return nil
}

// Balance returns a user's SC, EXP and level. Unknown users read as zero.
func (s *EconomyServiceImpl) Balance(ctx context.Context, userID string) (*primary.Balance, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := doc.LookupUser(userID)
	if !ok {
		user = &models.User{}
	}
	b := balanceOf(userID, user)
	return &b, nil
}

// Level returns the user's level and what the next rung requires.
func (s *EconomyServiceImpl) Level(ctx context.Context, userID string) (*primary.LevelInfo, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := doc.LookupUser(userID)
	if !ok {
		user = &models.User{}
	}

	info := &primary.LevelInfo{UserID: userID, Level: user.Level, Exp: user.Exp}
	if next, ok := reward.NextRung(user.Level, buildLadder(doc, s.rules)); ok {
		info.HasNext = true
		info.NextLevel = next.Level
		info.NextRequired = next.ExpRequired
	}
	return info, nil
}

// Ledger lists recorded payouts, newest first.
func (s *EconomyServiceImpl) Ledger(ctx context.Context, filters primary.LedgerFilters) ([]*primary.LedgerEntry, error) {
	if s.ledger == nil {
		return nil, nil
	}
	records, err := s.ledger.List(ctx, secondary.LedgerFilters{
		UserID: filters.UserID,
		Kind:   filters.Kind,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	out := make([]*primary.LedgerEntry, len(records))
	for i, r := range records {
		out[i] = &primary.LedgerEntry{
			ID:        r.ID,
			UserID:    r.UserID,
			Kind:      r.Kind,
			SC:        r.SC,
			Exp:       r.Exp,
			MissionID: r.MissionID,
			ActorID:   r.ActorID,
			Note:      r.Note,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

func balanceOf(userID string, u *models.User) primary.Balance {
	return primary.Balance{UserID: userID, SC: u.SC, Exp: u.Exp, Level: u.Level}
}

var _ primary.EconomyService = (*EconomyServiceImpl)(nil)

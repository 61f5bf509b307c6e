package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/example/dutybot/internal/confirm"
	coreduty "github.com/example/dutybot/internal/core/duty"
	"github.com/example/dutybot/internal/core/reward"
	"github.com/example/dutybot/internal/models"
	"github.com/example/dutybot/internal/ports/primary"
	"github.com/example/dutybot/internal/ports/secondary"
)

// DutyServiceImpl implements the DutyService interface.
type DutyServiceImpl struct {
	store     secondary.DocumentStore
	directory secondary.MemberDirectory
	notifier  secondary.Notifier
	ledger    secondary.LedgerRepository
	registry  *confirm.Registry
	executor  EffectExecutor
	rules     Rules
	logger    *slog.Logger

	now  func() time.Time
	intn func(n int) int
	wait func(ctx context.Context, d time.Duration) error
}

// NewDutyService creates a new DutyService with injected dependencies.
func NewDutyService(
	store secondary.DocumentStore,
	directory secondary.MemberDirectory,
	notifier secondary.Notifier,
	ledger secondary.LedgerRepository,
	registry *confirm.Registry,
	executor EffectExecutor,
	rules Rules,
	logger *slog.Logger,
) *DutyServiceImpl {
	if rules.DutyConfirmWindow <= 0 {
		rules.DutyConfirmWindow = coreduty.ConfirmWindow
	}
	return &DutyServiceImpl{
		store:     store,
		directory: directory,
		notifier:  notifier,
		ledger:    ledger,
		registry:  registry,
		executor:  executor,
		rules:     rules,
		logger:    logger,
		now:       time.Now,
		intn:      rand.IntN,
		wait:      sleepContext,
	}
}

// GoOnDuty opens a duty session.
func (s *DutyServiceImpl) GoOnDuty(ctx context.Context, userID string) (*primary.OnDutyResponse, error) {
	var result coreduty.OnDutyResult
	_, err := update(ctx, s.store, func(doc *models.Document) error {
		doc.EnsureUser(userID)
		result = coreduty.ApplyOnDuty(sessionOf(doc, userID), s.now())
		doc.DutyStatus[userID] = &models.DutyStatus{Active: true, StartTime: result.StartTime}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to go on duty: %w", err)
	}

	s.logger.InfoContext(ctx, "on duty", "user_id", userID, "restamped", result.Restamped)
	return &primary.OnDutyResponse{StartTime: result.StartTime, Restamped: result.Restamped}, nil
}

// GoOffDuty closes the open session, pays for it and checks for a level-up.
func (s *DutyServiceImpl) GoOffDuty(ctx context.Context, userID string) (*primary.OffDutyResponse, error) {
	// 1. Member roles feed the duty bonus
	memberRoles, err := s.directory.RolesOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up roles: %w", err)
	}

	// 2. Close the session and credit the reward in one cycle
	resp := &primary.OffDutyResponse{}
	var levelUp reward.LevelUpResult
	changed, err := update(ctx, s.store, func(doc *models.Document) error {
		plan := coreduty.PlanOffDuty(sessionOf(doc, userID), s.now())
		if !plan.Close {
			return errNoChange
		}

		user := doc.EnsureUser(userID)
		override, hasOverride := doc.BonusIncome[userID]
		bonus := coreduty.ResolveBonusPercent(override, hasOverride, roleBonuses(doc, memberRoles))
		ladder := buildLadder(doc, s.rules)

		sc, exp := reward.ComputeDutyRewardWith(reward.LevelMultiplier(user.Level, ladder), bonus, plan.Minutes)
		user.SC += sc
		user.Exp += exp

		levelUp = reward.ApplyLevelUp(reward.LevelState{Level: user.Level, Exp: user.Exp}, ladder)
		user.Level = levelUp.State.Level
		user.Exp = levelUp.State.Exp

		doc.DutyStatus[userID].Active = false

		resp.Minutes = plan.Minutes
		resp.SCEarned = sc
		resp.ExpEarned = exp
		resp.Balance = user.SC
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to go off duty: %w", err)
	}
	if !changed {
		return resp, nil
	}
	resp.WasOnDuty = true

	// 3. A session that is closed no longer needs a liveness answer
	s.registry.Withdraw(userID, confirm.PurposeDuty)

	// 4. Role swap and ledger happen after the save
	if levelUp.Leveled {
		resp.LevelUp = &primary.LevelUp{FromLevel: levelUp.FromLevel, ToLevel: levelUp.ToLevel}
		resp.Warnings = append(resp.Warnings, s.applyLevelUp(ctx, userID, levelUp)...)
	}
	resp.Warnings = append(resp.Warnings, recordPayout(ctx, s.ledger, s.logger, &secondary.LedgerEntryRecord{
		UserID:  userID,
		Kind:    secondary.LedgerKindDuty,
		SC:      resp.SCEarned,
		Exp:     resp.ExpEarned,
		ActorID: userID,
		Note:    fmt.Sprintf("duty session %.1f min", resp.Minutes),
	})...)

	s.logger.InfoContext(ctx, "off duty",
		"user_id", userID,
		"minutes", resp.Minutes,
		"sc", resp.SCEarned,
		"exp", resp.ExpEarned)
	return resp, nil
}

func (s *DutyServiceImpl) applyLevelUp(ctx context.Context, userID string, result reward.LevelUpResult) []string {
	if err := s.executor.Execute(ctx, reward.GenerateLevelUpPlan(userID, result)); err != nil {
		s.logger.WarnContext(ctx, "level-up side effects failed",
			"user_id", userID,
			"level", result.ToLevel,
			"error", err)
		return []string{fmt.Sprintf("reached level %d but the role update failed: %v", result.ToLevel, err)}
	}
	return nil
}

// Confirm answers the user's outstanding liveness prompt.
func (s *DutyServiceImpl) Confirm(ctx context.Context, userID, code string) (*primary.ConfirmResponse, error) {
	outcome := s.registry.Confirm(userID, confirm.PurposeDuty, code)
	s.logger.DebugContext(ctx, "duty confirmation", "user_id", userID, "outcome", outcome.String())

	switch outcome {
	case confirm.OutcomeConfirmed:
		return &primary.ConfirmResponse{Outcome: primary.ConfirmOutcomeConfirmed}, nil
	case confirm.OutcomeInvalidCode:
		return &primary.ConfirmResponse{Outcome: primary.ConfirmOutcomeInvalidCode}, nil
	case confirm.OutcomeExpired:
		return &primary.ConfirmResponse{Outcome: primary.ConfirmOutcomeExpired}, nil
	default:
		return &primary.ConfirmResponse{Outcome: primary.ConfirmOutcomeNotNeeded}, nil
	}
}

// OnDuty lists users currently on duty.
func (s *DutyServiceImpl) OnDuty(ctx context.Context) ([]string, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.OnDutyUsers(), nil
}

// Status returns a user's duty state.
func (s *DutyServiceImpl) Status(ctx context.Context, userID string) (*primary.DutyStatus, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	session := sessionOf(doc, userID)
	status := &primary.DutyStatus{UserID: userID}
	if session.Status() == coreduty.StatusOnDuty {
		status.OnDuty = true
		status.StartTime = session.StartTime
		status.Minutes = coreduty.PlanOffDuty(session, s.now()).Minutes
		if p, ok := s.registry.Lookup(userID, confirm.PurposeDuty); ok {
			status.CheckDeadline = p.Deadline
		}
	}
	return status, nil
}

// RunLivenessPass prompts every on-duty user with a code, waits one
// confirmation window, then forces off duty everyone who did not answer.
// A failed prompt is logged and the user is skipped.
func (s *DutyServiceImpl) RunLivenessPass(ctx context.Context) (*primary.LivenessReport, error) {
	users, err := s.OnDuty(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list on-duty users: %w", err)
	}

	report := &primary.LivenessReport{}
	window := s.rules.DutyConfirmWindow

	// 1. Prompt
	for _, userID := range users {
		code := coreduty.GenerateCode(s.intn)
		s.registry.Issue(userID, confirm.PurposeDuty, code, window)

		msg := fmt.Sprintf("Duty check: reply /confirm %s within %d minutes to stay on duty.", code, int(window.Minutes()))
		if err := s.notifier.Notify(ctx, userID, msg); err != nil {
			s.registry.Withdraw(userID, confirm.PurposeDuty)
			s.logger.WarnContext(ctx, "duty check prompt failed", "user_id", userID, "error", err)
			report.NotifyFailed = append(report.NotifyFailed, userID)
			continue
		}
		report.Prompted = append(report.Prompted, userID)
	}
	if len(report.Prompted) == 0 {
		return report, nil
	}

	// 2. Wait out the window
	if err := s.wait(ctx, window); err != nil {
		return report, err
	}

	// 3. Force off everyone still outstanding
	for _, p := range s.registry.Expire(confirm.PurposeDuty) {
		off, err := s.GoOffDuty(ctx, p.Subject)
		if err != nil {
			s.logger.ErrorContext(ctx, "forced off duty failed", "user_id", p.Subject, "error", err)
			continue
		}
		if !off.WasOnDuty {
			continue
		}
		report.ForcedOffDuty = append(report.ForcedOffDuty, p.Subject)

		msg := fmt.Sprintf("You did not confirm your duty check, so you were taken off duty. You earned %d SC and %d EXP.", off.SCEarned, off.ExpEarned)
		if err := s.notifier.Notify(ctx, p.Subject, msg); err != nil {
			s.logger.WarnContext(ctx, "forced off duty notice failed", "user_id", p.Subject, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "duty check finished",
		"prompted", len(report.Prompted),
		"notify_failed", len(report.NotifyFailed),
		"forced_off", len(report.ForcedOffDuty))
	return report, nil
}

// Run performs a liveness pass every interval until ctx is cancelled.
func (s *DutyServiceImpl) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.RunLivenessPass(ctx); err != nil && ctx.Err() == nil {
				s.logger.ErrorContext(ctx, "duty check failed", "error", err)
			}
		}
	}
}

func sessionOf(doc *models.Document, userID string) coreduty.SessionContext {
	st, ok := doc.DutyStatus[userID]
	if !ok || st == nil {
		return coreduty.SessionContext{}
	}
	return coreduty.SessionContext{HasRecord: true, Active: st.Active, StartTime: st.StartTime}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ primary.DutyService = (*DutyServiceImpl)(nil)

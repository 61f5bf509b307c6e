package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/dutybot/internal/apperr"
	"github.com/example/dutybot/internal/confirm"
	"github.com/example/dutybot/internal/core/effects"
	coremission "github.com/example/dutybot/internal/core/mission"
	"github.com/example/dutybot/internal/models"
	"github.com/example/dutybot/internal/ports/primary"
	"github.com/example/dutybot/internal/ports/secondary"
)

// MissionServiceImpl implements the MissionService interface.
type MissionServiceImpl struct {
	store    secondary.DocumentStore
	events   secondary.MissionEventLog
	registry *confirm.Registry
	executor EffectExecutor
	rules    Rules
	logger   *slog.Logger
	now      func() time.Time
}

// NewMissionService creates a new MissionService with injected dependencies.
func NewMissionService(
	store secondary.DocumentStore,
	events secondary.MissionEventLog,
	registry *confirm.Registry,
	executor EffectExecutor,
	rules Rules,
	logger *slog.Logger,
) *MissionServiceImpl {
	if len(rules.Categories) == 0 {
		rules.Categories = coremission.DefaultCategories
	}
	if rules.EndConfirmWindow <= 0 {
		rules.EndConfirmWindow = coremission.EndConfirmWindow
	}
	if rules.AbortConfirmWindow <= 0 {
		rules.AbortConfirmWindow = coremission.AbortConfirmWindow
	}
	return &MissionServiceImpl{
		store:    store,
		events:   events,
		registry: registry,
		executor: executor,
		rules:    rules,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateMission records a pending mission and announces it.
func (s *MissionServiceImpl) CreateMission(ctx context.Context, req primary.CreateMissionRequest) (*primary.CreateMissionResponse, error) {
	// 1. Guard check
	guardCtx := coremission.CreateContext{
		Category:          req.Category,
		AllowedCategories: s.rules.Categories,
	}
	if result := coremission.CanCreateMission(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	// 2. Allocate the id and persist with a channel snapshot
	var record models.Mission
	_, err := update(ctx, s.store, func(doc *models.Document) error {
		id := coremission.GenerateMissionID(len(doc.ActiveMissions), func(id string) bool {
			_, taken := doc.ActiveMissions[id]
			return taken
		})
		m := &models.Mission{
			ID:          id,
			Leader:      req.LeaderID,
			Category:    req.Category,
			Description: req.Description,
			Status:      string(coremission.InitialStatus()),
			StartTime:   s.now(),
			Members:     []string{req.LeaderID},
			Channels:    doc.ChannelSnapshot(),
		}
		doc.ActiveMissions[id] = m
		record = *m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}
	s.recordEvent(ctx, record.ID, "create", "", record.Status, req.LeaderID, record.Category)

	// 3. Announce; the mission stays saved if this fails
	resp := &primary.CreateMissionResponse{MissionID: record.ID, Mission: toPortMission(&record)}
	pendingID, ok := record.Channel(models.ChannelPendingMissions)
	if !ok {
		resp.Warnings = append(resp.Warnings,
			apperr.Wrap(apperr.ErrChannelNotConfigured, "pending missions channel; mission #%s was saved but not announced", record.ID).Error())
	}
	plan := coremission.GenerateCreatedPlan(coremission.CreatedPlanInput{
		Mission:          summaryOf(&record),
		PendingChannelID: pendingID,
	})
	resp.Warnings = append(resp.Warnings, s.execute(ctx, record.ID, plan)...)

	s.logger.InfoContext(ctx, "mission created", "mission_id", record.ID, "leader", req.LeaderID, "category", req.Category)
	return resp, nil
}

// StartMission moves a pending mission to active.
func (s *MissionServiceImpl) StartMission(ctx context.Context, req primary.MissionActionRequest) (*primary.MissionResponse, error) {
	record, from, err := s.mutate(ctx, req.MissionID, func(m *models.Mission) error {
		guardCtx := coremission.StateContext{MissionID: m.ID, Status: coremission.MissionStatus(m.Status)}
		if result := coremission.CanStartMission(guardCtx); !result.Allowed {
			return result.Error()
		}
		next, err := coremission.Transition(coremission.MissionStatus(m.Status), coremission.ActionStart)
		if err != nil {
			return err
		}
		m.Status = string(next)
		if req.CallerID != "" && !containsString(m.Members, req.CallerID) {
			m.Members = append(m.Members, req.CallerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordEvent(ctx, record.ID, string(coremission.ActionStart), from, record.Status, req.CallerID, "")

	missionsID, _ := record.Channel(models.ChannelMissions)
	plan := coremission.GenerateStartedPlan(coremission.StartedPlanInput{
		Mission:           summaryOf(record),
		MissionsChannelID: missionsID,
	})
	resp := &primary.MissionResponse{Mission: toPortMission(record)}
	resp.Warnings = s.execute(ctx, record.ID, plan)
	return resp, nil
}

// RequestSupport notifies every on-duty user except the requester.
func (s *MissionServiceImpl) RequestSupport(ctx context.Context, req primary.MissionActionRequest) (*primary.SupportResponse, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	m, err := findMission(doc, req.MissionID)
	if err != nil {
		return nil, err
	}

	guardCtx := coremission.StateContext{MissionID: m.ID, Status: coremission.MissionStatus(m.Status)}
	if result := coremission.CanRequestSupport(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	resp := &primary.SupportResponse{Mission: toPortMission(m)}
	plan := coremission.GenerateSupportPlan(summaryOf(m), req.CallerID, doc.OnDutyUsers())
	if len(plan) == 0 {
		resp.NoOneOnDuty = true
		return resp, nil
	}
	for _, eff := range plan {
		if n, ok := eff.(effects.NotifyEffect); ok {
			resp.Notified = append(resp.Notified, n.UserID)
		}
	}
	resp.Warnings = s.execute(ctx, m.ID, plan)
	return resp, nil
}

// InitiateEnd moves an active mission to ending.
func (s *MissionServiceImpl) InitiateEnd(ctx context.Context, req primary.MissionActionRequest) (*primary.MissionResponse, error) {
	return s.initiate(ctx, req, coremission.ActionInitiateEnd)
}

// InitiateAbort moves an active mission to aborting.
func (s *MissionServiceImpl) InitiateAbort(ctx context.Context, req primary.MissionActionRequest) (*primary.MissionResponse, error) {
	return s.initiate(ctx, req, coremission.ActionInitiateAbort)
}

func (s *MissionServiceImpl) initiate(ctx context.Context, req primary.MissionActionRequest, action coremission.Action) (*primary.MissionResponse, error) {
	isEnd := action == coremission.ActionInitiateEnd
	window := s.windowFor(action)
	now := s.now()

	var rearm bool
	record, from, err := s.mutate(ctx, req.MissionID, func(m *models.Mission) error {
		// 1. Guard check
		_, screenshots := m.Channel(models.ChannelScreenshots)
		guardCtx := coremission.InitiateContext{
			MissionID:             m.ID,
			Status:                coremission.MissionStatus(m.Status),
			ScreenshotsConfigured: screenshots,
			WindowExpired:         windowExpired(m, action, window, now),
		}
		var result coremission.GuardResult
		if isEnd {
			result = coremission.CanInitiateEnd(guardCtx)
		} else {
			result = coremission.CanInitiateAbort(guardCtx)
		}
		if !result.Allowed {
			return result.Error()
		}

		// 2. Move the mission, or re-arm a lapsed window in place
		rearm = coremission.IsRearm(guardCtx, action)
		if !rearm {
			res, err := coremission.ApplyStatusTransition(guardCtx.Status, action, now)
			if err != nil {
				return err
			}
			m.Status = string(res.NewStatus)
		}
		stamp := now
		if isEnd {
			m.EndTime = &stamp
			m.EndInitiatedBy = req.CallerID
		} else {
			m.AbortTime = &stamp
			m.AbortInitiatedBy = req.CallerID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. Open the confirmation window
	purpose := confirm.PurposeAbort
	if isEnd {
		purpose = confirm.PurposeEnd
	}
	deadline := now.Add(window)
	s.registry.IssueUntil(record.ID, purpose, "", deadline)

	detail := ""
	if rearm {
		detail = "window re-armed"
	}
	s.recordEvent(ctx, record.ID, string(action), from, record.Status, req.CallerID, detail)

	// 4. Post the instructions
	screenshotsID, _ := record.Channel(models.ChannelScreenshots)
	input := coremission.InitiatedPlanInput{
		MissionID:            record.ID,
		InitiatorID:          req.CallerID,
		ScreenshotsChannelID: screenshotsID,
		Window:               window,
	}
	var plan []effects.Effect
	if isEnd {
		plan = coremission.GenerateEndInitiatedPlan(input)
	} else {
		plan = coremission.GenerateAbortInitiatedPlan(input)
	}

	resp := &primary.MissionResponse{Mission: toPortMission(record), Deadline: deadline, Rearmed: rearm}
	resp.Warnings = s.execute(ctx, record.ID, plan)
	return resp, nil
}

// ConfirmEnd completes a mission whose end the caller initiated.
func (s *MissionServiceImpl) ConfirmEnd(ctx context.Context, req primary.ConfirmMissionRequest) (*primary.MissionResponse, error) {
	now := s.now()
	var duration time.Duration

	record, from, err := s.mutate(ctx, req.MissionID, func(m *models.Mission) error {
		// 1. Guard check: status, initiator, window
		guardCtx := coremission.ConfirmContext{
			MissionID:   m.ID,
			Status:      coremission.MissionStatus(m.Status),
			CallerID:    req.CallerID,
			InitiatedBy: m.EndInitiatedBy,
			Reason:      req.Reason,
			Deadline:    deadlineOf(m.EndTime, s.rules.EndConfirmWindow),
			Now:         now,
		}
		if result := coremission.CanConfirmEnd(guardCtx); !result.Allowed {
			return result.Error()
		}

		// 2. Complete; duration runs from creation to the end request
		next, err := coremission.Transition(guardCtx.Status, coremission.ActionConfirmEnd)
		if err != nil {
			return err
		}
		if m.EndTime != nil {
			duration = m.EndTime.Sub(m.StartTime)
		}
		m.Status = string(next)
		m.EndReason = req.Reason
		m.Screenshot = req.Screenshot
		m.Duration = duration.Round(time.Second).String()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.registry.Withdraw(record.ID, confirm.PurposeEnd)
	s.recordEvent(ctx, record.ID, string(coremission.ActionConfirmEnd), from, record.Status, req.CallerID, req.Reason)

	missionsID, _ := record.Channel(models.ChannelMissions)
	plan := coremission.GenerateCompletedPlan(coremission.OutcomePlanInput{
		Mission:    summaryOf(record),
		Duration:   duration,
		Reason:     req.Reason,
		Screenshot: req.Screenshot,
		ChannelID:  missionsID,
	})
	resp := &primary.MissionResponse{Mission: toPortMission(record)}
	resp.Warnings = s.execute(ctx, record.ID, plan)
	return resp, nil
}

// ConfirmAbort aborts a mission whose abort the caller initiated.
func (s *MissionServiceImpl) ConfirmAbort(ctx context.Context, req primary.ConfirmMissionRequest) (*primary.MissionResponse, error) {
	now := s.now()

	record, from, err := s.mutate(ctx, req.MissionID, func(m *models.Mission) error {
		guardCtx := coremission.ConfirmContext{
			MissionID:   m.ID,
			Status:      coremission.MissionStatus(m.Status),
			CallerID:    req.CallerID,
			InitiatedBy: m.AbortInitiatedBy,
			Reason:      req.Reason,
			Deadline:    deadlineOf(m.AbortTime, s.rules.AbortConfirmWindow),
			Now:         now,
		}
		if result := coremission.CanConfirmAbort(guardCtx); !result.Allowed {
			return result.Error()
		}
		next, err := coremission.Transition(guardCtx.Status, coremission.ActionConfirmAbort)
		if err != nil {
			return err
		}
		m.Status = string(next)
		m.AbortReason = req.Reason
		m.Screenshot = req.Screenshot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.registry.Withdraw(record.ID, confirm.PurposeAbort)
	s.recordEvent(ctx, record.ID, string(coremission.ActionConfirmAbort), from, record.Status, req.CallerID, req.Reason)

	logsID, _ := record.Channel(models.ChannelMissionLogs)
	plan := coremission.GenerateAbortedPlan(coremission.OutcomePlanInput{
		Mission:    summaryOf(record),
		Reason:     req.Reason,
		Screenshot: req.Screenshot,
		ChannelID:  logsID,
	})
	resp := &primary.MissionResponse{Mission: toPortMission(record)}
	resp.Warnings = s.execute(ctx, record.ID, plan)
	return resp, nil
}

// GetMission retrieves a mission by ID.
func (s *MissionServiceImpl) GetMission(ctx context.Context, missionID string) (*primary.Mission, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	m, err := findMission(doc, missionID)
	if err != nil {
		return nil, err
	}
	return toPortMission(m), nil
}

// ListMissions lists missions ordered by id, optionally filtered by status.
func (s *MissionServiceImpl) ListMissions(ctx context.Context, filters primary.MissionFilters) ([]*primary.Mission, error) {
	if filters.Status != "" {
		if _, err := coremission.ParseStatus(filters.Status); err != nil {
			return nil, err
		}
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var out []*primary.Mission
	for _, m := range doc.ActiveMissions {
		if m == nil || (filters.Status != "" && m.Status != filters.Status) {
			continue
		}
		out = append(out, toPortMission(m))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := coremission.ParseMissionNumber(out[i].ID), coremission.ParseMissionNumber(out[j].ID)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

// MissionHistory returns the recorded lifecycle events of a mission.
func (s *MissionServiceImpl) MissionHistory(ctx context.Context, missionID string) ([]*primary.MissionEvent, error) {
	if s.events == nil {
		return nil, nil
	}
	records, err := s.events.ListByMission(ctx, normalizeMissionID(missionID))
	if err != nil {
		return nil, fmt.Errorf("failed to read mission history: %w", err)
	}
	out := make([]*primary.MissionEvent, len(records))
	for i, r := range records {
		out[i] = &primary.MissionEvent{
			Action:     r.Action,
			FromStatus: r.FromStatus,
			ToStatus:   r.ToStatus,
			ActorID:    r.ActorID,
			Detail:     r.Detail,
			CreatedAt:  r.CreatedAt,
		}
	}
	return out, nil
}

// SweepExpired notifies initiators whose end or abort window lapsed. The
// missions keep their waiting status.
func (s *MissionServiceImpl) SweepExpired(ctx context.Context) ([]primary.ExpiredConfirmation, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var out []primary.ExpiredConfirmation
	sweep := func(purpose confirm.Purpose, action coremission.Action, waiting coremission.MissionStatus, initiator func(*models.Mission) string) {
		for _, p := range s.registry.Expire(purpose) {
			m, ok := doc.Mission(p.Subject)
			if !ok || coremission.MissionStatus(m.Status) != waiting {
				continue
			}
			exp := primary.ExpiredConfirmation{MissionID: m.ID, InitiatorID: initiator(m), Action: string(purpose)}
			out = append(out, exp)

			s.logger.InfoContext(ctx, "mission confirmation timed out", "mission_id", m.ID, "action", exp.Action)
			s.recordEvent(ctx, m.ID, "timeout", m.Status, m.Status, exp.InitiatorID, exp.Action+" window lapsed")
			s.execute(ctx, m.ID, coremission.GenerateTimeoutPlan(m.ID, exp.InitiatorID, action))
		}
	}
	sweep(confirm.PurposeEnd, coremission.ActionInitiateEnd, coremission.StatusEnding,
		func(m *models.Mission) string { return m.EndInitiatedBy })
	sweep(confirm.PurposeAbort, coremission.ActionInitiateAbort, coremission.StatusAborting,
		func(m *models.Mission) string { return m.AbortInitiatedBy })
	return out, nil
}

// Restore re-registers the open confirmation windows of missions waiting
// in ending or aborting, so timeouts are still announced after a restart.
func (s *MissionServiceImpl) Restore(ctx context.Context) (int, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	restored := 0
	for _, m := range doc.ActiveMissions {
		if m == nil {
			continue
		}
		switch coremission.MissionStatus(m.Status) {
		case coremission.StatusEnding:
			if d := deadlineOf(m.EndTime, s.rules.EndConfirmWindow); !d.IsZero() && d.After(now) {
				s.registry.IssueUntil(m.ID, confirm.PurposeEnd, "", d)
				restored++
			}
		case coremission.StatusAborting:
			if d := deadlineOf(m.AbortTime, s.rules.AbortConfirmWindow); !d.IsZero() && d.After(now) {
				s.registry.IssueUntil(m.ID, confirm.PurposeAbort, "", d)
				restored++
			}
		}
	}
	return restored, nil
}

// RunSweeper calls SweepExpired every interval until ctx is cancelled.
func (s *MissionServiceImpl) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil && ctx.Err() == nil {
				s.logger.ErrorContext(ctx, "mission sweep failed", "error", err)
			}
		}
	}
}

// mutate runs fn against one mission inside a store update and returns a
// copy of the mission after the change plus its status before it.
func (s *MissionServiceImpl) mutate(ctx context.Context, missionID string, fn func(m *models.Mission) error) (*models.Mission, string, error) {
	var after models.Mission
	var from string
	err := s.store.Update(ctx, func(doc *models.Document) error {
		m, err := findMission(doc, missionID)
		if err != nil {
			return err
		}
		from = m.Status
		if err := fn(m); err != nil {
			return err
		}
		after = *m
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return &after, from, nil
}

// execute runs a plan and turns failures into warnings.
func (s *MissionServiceImpl) execute(ctx context.Context, missionID string, plan []effects.Effect) []string {
	if len(plan) == 0 {
		return nil
	}
	var warnings []string
	for _, eff := range plan {
		if l, ok := eff.(effects.LogEffect); ok && l.Message == "mission channel not configured" {
			warnings = append(warnings, apperr.Wrap(apperr.ErrChannelNotConfigured, "%v channel for mission #%s", l.Fields["purpose"], missionID).Error())
		}
	}
	if err := s.executor.Execute(ctx, plan); err != nil {
		s.logger.WarnContext(ctx, "mission announcement failed", "mission_id", missionID, "error", err)
		warnings = append(warnings, "announcement failed: "+err.Error())
	}
	return warnings
}

func (s *MissionServiceImpl) recordEvent(ctx context.Context, missionID, action, from, to, actor, detail string) {
	appendEvent(ctx, s.events, s.logger, &secondary.MissionEventRecord{
		MissionID:  missionID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor,
		Detail:     detail,
	})
}

func (s *MissionServiceImpl) windowFor(action coremission.Action) time.Duration {
	if action == coremission.ActionInitiateAbort {
		return s.rules.AbortConfirmWindow
	}
	return s.rules.EndConfirmWindow
}

// windowExpired reports whether the mission already waits for the
// confirmation action starts and its window has lapsed.
func windowExpired(m *models.Mission, action coremission.Action, window time.Duration, now time.Time) bool {
	stamp := m.EndTime
	if action == coremission.ActionInitiateAbort {
		stamp = m.AbortTime
	}
	d := deadlineOf(stamp, window)
	return !d.IsZero() && now.After(d)
}

func deadlineOf(stamp *time.Time, window time.Duration) time.Time {
	if stamp == nil {
		return time.Time{}
	}
	return stamp.Add(window)
}

func findMission(doc *models.Document, missionID string) (*models.Mission, error) {
	id := normalizeMissionID(missionID)
	m, ok := doc.Mission(id)
	if !ok || m == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "mission #%s", id)
	}
	if m.Channels == nil {
		m.Channels = map[string]string{}
	}
	return m, nil
}

func normalizeMissionID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "#")
}

func summaryOf(m *models.Mission) coremission.Summary {
	return coremission.Summary{
		MissionID:   m.ID,
		LeaderID:    m.Leader,
		Category:    m.Category,
		Description: m.Description,
	}
}

func toPortMission(m *models.Mission) *primary.Mission {
	return &primary.Mission{
		ID:               m.ID,
		LeaderID:         m.Leader,
		Category:         m.Category,
		Description:      m.Description,
		Status:           m.Status,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		AbortTime:        m.AbortTime,
		Members:          append([]string(nil), m.Members...),
		EndReason:        m.EndReason,
		AbortReason:      m.AbortReason,
		Screenshot:       m.Screenshot,
		EndInitiatedBy:   m.EndInitiatedBy,
		AbortInitiatedBy: m.AbortInitiatedBy,
		Duration:         m.Duration,
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var _ primary.MissionService = (*MissionServiceImpl)(nil)

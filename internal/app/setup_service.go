package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/example/dutybot/internal/apperr"
	"github.com/example/dutybot/internal/core/authz"
	"github.com/example/dutybot/internal/models"
	"github.com/example/dutybot/internal/ports/primary"
	"github.com/example/dutybot/internal/ports/secondary"
)

// SetupServiceImpl implements the SetupService interface.
type SetupServiceImpl struct {
	store     secondary.DocumentStore
	directory secondary.MemberDirectory
	roles     secondary.RoleGranter
	rules     Rules
	logger    *slog.Logger
}

// NewSetupService creates a new SetupService with injected dependencies.
func NewSetupService(
	store secondary.DocumentStore,
	directory secondary.MemberDirectory,
	roles secondary.RoleGranter,
	rules Rules,
	logger *slog.Logger,
) *SetupServiceImpl {
	return &SetupServiceImpl{
		store:     store,
		directory: directory,
		roles:     roles,
		rules:     rules,
		logger:    logger,
	}
}

// SetChannel maps a channel purpose to a platform channel id.
func (s *SetupServiceImpl) SetChannel(ctx context.Context, purpose, channelID string) error {
	if !models.IsChannelPurpose(purpose) {
		return apperr.Wrap(apperr.ErrValidation, "unknown channel purpose %q (valid: %s)",
			purpose, strings.Join(models.ChannelPurposes, ", "))
	}
	if strings.TrimSpace(channelID) == "" {
		return apperr.Wrap(apperr.ErrValidation, "channel id is required")
	}

	_, err := update(ctx, s.store, func(doc *models.Document) error {
		doc.Channels[purpose] = channelID
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set channel: %w", err)
	}
	s.logger.InfoContext(ctx, "channel set", "purpose", purpose, "channel_id", channelID)
	return nil
}

// SetRole registers or updates a ranked role.
func (s *SetupServiceImpl) SetRole(ctx context.Context, req primary.SetRoleRequest) error {
	if req.RoleID == "" {
		return apperr.Wrap(apperr.ErrValidation, "role id is required")
	}
	if req.Priority < 0 || req.Priority >= authz.Unranked {
		return apperr.Wrap(apperr.ErrValidation, "priority must be between 0 and %d", authz.Unranked-1)
	}

	_, err := update(ctx, s.store, func(doc *models.Document) error {
		name := req.Name
		if name == "" {
			if existing, ok := doc.Roles[req.RoleID]; ok && existing != nil {
				name = existing.Name
			}
		}
		doc.Roles[req.RoleID] = &models.Role{
			ID:          req.RoleID,
			Name:        name,
			Priority:    req.Priority,
			BonusIncome: req.BonusIncome,
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}

// RemoveRole drops a ranked role.
func (s *SetupServiceImpl) RemoveRole(ctx context.Context, roleID string) error {
	_, err := update(ctx, s.store, func(doc *models.Document) error {
		if _, ok := doc.Roles[roleID]; !ok {
			return apperr.Wrap(apperr.ErrNotFound, "role %s", roleID)
		}
		delete(doc.Roles, roleID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}
	return nil
}

// SetLevelRole registers or updates a rung of the level ladder.
func (s *SetupServiceImpl) SetLevelRole(ctx context.Context, req primary.SetLevelRoleRequest) error {
	if req.Level < 0 {
		return apperr.Wrap(apperr.ErrValidation, "level must be 0 or greater")
	}
	if req.ExpRequired < 0 || req.DutyIncome < 0 || req.MissionBonus < 0 {
		return apperr.Wrap(apperr.ErrValidation, "level values must not be negative")
	}

	_, err := update(ctx, s.store, func(doc *models.Document) error {
		doc.LevelRoles[strconv.Itoa(req.Level)] = &models.LevelRole{
			RoleID:       req.RoleID,
			ExpRequired:  req.ExpRequired,
			DutyIncome:   req.DutyIncome,
			MissionBonus: req.MissionBonus,
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set level role: %w", err)
	}
	return nil
}

// AssignMemberRole grants a platform role to a member.
func (s *SetupServiceImpl) AssignMemberRole(ctx context.Context, userID, roleID string) error {
	if userID == "" || roleID == "" {
		return apperr.Wrap(apperr.ErrValidation, "user id and role id are required")
	}
	if err := s.roles.AddRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// RevokeMemberRole removes a platform role from a member.
func (s *SetupServiceImpl) RevokeMemberRole(ctx context.Context, userID, roleID string) error {
	if err := s.roles.RemoveRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	return nil
}

// RequireManager checks that the actor may change bot configuration.
func (s *SetupServiceImpl) RequireManager(ctx context.Context, actorID string) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	priority, _, err := priorityOf(ctx, s.directory, doc, s.rules, actorID)
	if err != nil {
		return err
	}
	if !authz.CanManageLevels(priority) {
		return apperr.Wrap(apperr.ErrAuthorization, "You don't have permission to manage levels! Only ranks 0-2 can manage levels.")
	}
	return nil
}

// CheckRoles describes the member's roles and their effective priority.
func (s *SetupServiceImpl) CheckRoles(ctx context.Context, userID string) (*primary.RoleReport, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	priority, memberRoles, err := priorityOf(ctx, s.directory, doc, s.rules, userID)
	if err != nil {
		return nil, err
	}
	return &primary.RoleReport{
		UserID:   userID,
		Lines:    authz.DescribeRoles(memberRoles, roleInfos(doc)),
		Priority: priority,
	}, nil
}

// Overview returns the configured channels, roles and ladder.
func (s *SetupServiceImpl) Overview(ctx context.Context) (*primary.SetupOverview, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := &primary.SetupOverview{Channels: doc.ChannelSnapshot()}
	for _, id := range sortedKeys(doc.Roles) {
		r := doc.Roles[id]
		if r == nil {
			continue
		}
		out.Roles = append(out.Roles, primary.SetRoleRequest{
			RoleID:      id,
			Name:        r.Name,
			Priority:    r.Priority,
			BonusIncome: r.BonusIncome,
		})
	}
	sort.SliceStable(out.Roles, func(i, j int) bool { return out.Roles[i].Priority < out.Roles[j].Priority })

	for _, rung := range buildLadder(doc, s.rules) {
		out.LevelRoles = append(out.LevelRoles, primary.SetLevelRoleRequest{
			Level:        rung.Level,
			RoleID:       rung.RoleID,
			ExpRequired:  rung.ExpRequired,
			DutyIncome:   rung.DutyIncome,
			MissionBonus: rung.MissionBonus,
		})
	}
	return out, nil
}

var _ primary.SetupService = (*SetupServiceImpl)(nil)

// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/example/dutybot/internal/core/authz"
	"github.com/example/dutybot/internal/core/reward"
	"github.com/example/dutybot/internal/models"
	"github.com/example/dutybot/internal/ports/secondary"
)

// Rules are the bot settings the services apply.
type Rules struct {
	OwnerID            string
	Categories         []string
	ExperienceLevels   map[int]int // level -> exp required
	DutyConfirmWindow  time.Duration
	EndConfirmWindow   time.Duration
	AbortConfirmWindow time.Duration
}

// errNoChange aborts a store update that turned out to change nothing.
var errNoChange = errors.New("no change")

// update runs fn through the store, treating errNoChange as success.
func update(ctx context.Context, store secondary.DocumentStore, fn func(doc *models.Document) error) (changed bool, err error) {
	err = store.Update(ctx, fn)
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	return err == nil, err
}

// buildLadder merges the configured experience levels with the level roles
// stored in the document. A document rung with a non-zero requirement wins.
func buildLadder(doc *models.Document, rules Rules) reward.Ladder {
	rungs := map[int]reward.Rung{}
	for level, required := range rules.ExperienceLevels {
		rungs[level] = reward.Rung{Level: level, ExpRequired: required}
	}
	for key, lr := range doc.LevelRoles {
		level, err := strconv.Atoi(key)
		if err != nil || lr == nil {
			continue
		}
		r := rungs[level]
		r.Level = level
		r.RoleID = lr.RoleID
		r.DutyIncome = lr.DutyIncome
		r.MissionBonus = lr.MissionBonus
		if lr.ExpRequired > 0 {
			r.ExpRequired = lr.ExpRequired
		}
		rungs[level] = r
	}

	out := make([]reward.Rung, 0, len(rungs))
	for _, r := range rungs {
		out = append(out, r)
	}
	return reward.NewLadder(out)
}

// roleInfos converts the document's ranked roles for the priority model.
func roleInfos(doc *models.Document) map[string]authz.RoleInfo {
	out := make(map[string]authz.RoleInfo, len(doc.Roles))
	for id, r := range doc.Roles {
		if r == nil {
			continue
		}
		out[id] = authz.RoleInfo{ID: id, Name: r.Name, Priority: r.Priority}
	}
	return out
}

// priorityOf resolves a member's effective priority. The configured owner
// always holds the top rank.
func priorityOf(ctx context.Context, directory secondary.MemberDirectory, doc *models.Document, rules Rules, userID string) (int, []string, error) {
	memberRoles, err := directory.RolesOf(ctx, userID)
	if err != nil {
		return authz.Unranked, nil, fmt.Errorf("failed to look up roles of %s: %w", userID, err)
	}
	if rules.OwnerID != "" && userID == rules.OwnerID {
		return authz.TopRank, memberRoles, nil
	}
	return authz.PriorityOf(memberRoles, roleInfos(doc)), memberRoles, nil
}

// roleBonuses returns the duty bonus of each ranked role the member holds.
func roleBonuses(doc *models.Document, memberRoles []string) []float64 {
	var out []float64
	for _, id := range memberRoles {
		if r, ok := doc.Roles[id]; ok && r != nil {
			out = append(out, r.BonusIncome)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

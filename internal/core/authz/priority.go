// Package authz contains the pure business logic for role priorities and
// approval eligibility.
// This is part of the Functional Core - no I/O, only pure functions.
package authz

import (
	"fmt"
	"sort"
)

// Unranked is the priority of a member holding no configured role. It is
// strictly greater than any configured priority.
const Unranked = 999

// TopRank is the highest authority.
const TopRank = 0

// RoleInfo is a configured role as seen by the priority model.
type RoleInfo struct {
	ID       string
	Name     string
	Priority int
}

// PriorityOf returns the minimum priority across the member's configured
// roles, or Unranked when none match.
func PriorityOf(memberRoleIDs []string, roles map[string]RoleInfo) int {
	priority := Unranked
	for _, id := range memberRoleIDs {
		r, ok := roles[id]
		if !ok {
			continue
		}
		if r.Priority < priority {
			priority = r.Priority
		}
	}
	return priority
}

// CanApprove reports whether an approver may approve the target's missions.
//   - priority 0 approves anyone, including itself
//   - priorities 1 and 2 approve strictly lower ranks only
//   - everyone else cannot approve
func CanApprove(approverPriority, targetPriority int) bool {
	switch approverPriority {
	case TopRank:
		return true
	case 1, 2:
		return targetPriority > approverPriority
	default:
		return false
	}
}

// CanManageLevels reports whether a member may edit the level ladder.
func CanManageLevels(priority int) bool {
	return priority <= 2
}

// CanAdjustExp reports whether a member may add or remove EXP by hand.
func CanAdjustExp(priority int) bool {
	return priority == TopRank
}

// DescribeRoles renders one line per member role for the role diagnostic.
func DescribeRoles(memberRoleIDs []string, roles map[string]RoleInfo) []string {
	ids := append([]string(nil), memberRoleIDs...)
	sort.Strings(ids)

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		if r, ok := roles[id]; ok {
			lines = append(lines, fmt.Sprintf("Role %s: Priority %d", r.Name, r.Priority))
		} else {
			lines = append(lines, fmt.Sprintf("Role %s: Not in system", id))
		}
	}
	return lines
}

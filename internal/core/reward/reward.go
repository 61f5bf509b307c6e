// Package reward contains the pure business logic for duty pay, mission
// approval pay, and the level ladder.
// This is part of the Functional Core - no I/O, only pure functions.
package reward

import (
	"math"
	"sort"
)

const (
	// BasePerPeriod is the SC paid for one full period at multiplier 1.0.
	BasePerPeriod = 10
	// PeriodMinutes is the duty period the base rate is quoted for.
	PeriodMinutes = 30
	// ExpRatio is the share of the base amount paid as EXP. Role bonuses do
	// not apply to EXP.
	ExpRatio = 0.5

	// floorEpsilon absorbs float rounding before truncation (15*1.2 must be 18).
	floorEpsilon = 1e-9
)

// defaultMultipliers is the built-in level multiplier table.
var defaultMultipliers = map[int]float64{
	0: 1.0,
	1: 1.5,
}

// Rung is one level of the ladder.
type Rung struct {
	Level        int
	RoleID       string
	ExpRequired  int
	DutyIncome   float64 // overrides the built-in multiplier when > 0
	MissionBonus float64 // percent bonus on approved mission SC
}

// Ladder is a level ladder sorted by level.
type Ladder []Rung

// NewLadder sorts rungs by level.
func NewLadder(rungs []Rung) Ladder {
	l := append(Ladder(nil), rungs...)
	sort.Slice(l, func(i, j int) bool { return l[i].Level < l[j].Level })
	return l
}

// Rung returns the rung for level.
func (l Ladder) Rung(level int) (Rung, bool) {
	for _, r := range l {
		if r.Level == level {
			return r, true
		}
	}
	return Rung{}, false
}

// LevelMultiplier returns the duty multiplier for level: the ladder's
// DutyIncome when set, else the built-in table, else 1.0.
func LevelMultiplier(level int, ladder Ladder) float64 {
	if r, ok := ladder.Rung(level); ok && r.DutyIncome > 0 {
		return r.DutyIncome
	}
	if m, ok := defaultMultipliers[level]; ok {
		return m
	}
	return 1.0
}

// ComputeDutyReward returns the SC and EXP earned for a duty session using
// the built-in multiplier table.
func ComputeDutyReward(level int, bonusPercent, durationMinutes float64) (sc, exp int) {
	return ComputeDutyRewardWith(LevelMultiplier(level, nil), bonusPercent, durationMinutes)
}

// ComputeDutyRewardWith returns the SC and EXP for an explicit multiplier.
// Negative durations pay nothing.
func ComputeDutyRewardWith(multiplier, bonusPercent, durationMinutes float64) (sc, exp int) {
	if durationMinutes <= 0 {
		return 0, 0
	}
	base := BasePerPeriod * multiplier * durationMinutes / PeriodMinutes
	bonus := base * bonusPercent / 100
	return floor(base + bonus), floor(base * ExpRatio)
}

// ApplyMissionBonus adds a percent bonus to an approved SC amount.
func ApplyMissionBonus(sc int, bonusPercent float64) int {
	if bonusPercent == 0 {
		return sc
	}
	return floor(float64(sc) * (1 + bonusPercent/100))
}

// ClampExp keeps experience non-negative.
func ClampExp(exp int) int {
	if exp < 0 {
		return 0
	}
	return exp
}

// ComputeLevel returns the highest level whose requirement is met by exp.
// The floor is level 0.
func ComputeLevel(exp int, ladder Ladder) int {
	level := 0
	for _, r := range ladder {
		if exp >= r.ExpRequired && r.Level > level {
			level = r.Level
		}
	}
	return level
}

// NextRung returns the lowest configured rung above level, if any. Levels
// in the ladder need not be contiguous.
func NextRung(level int, ladder Ladder) (Rung, bool) {
	var next Rung
	found := false
	for _, r := range ladder {
		if r.Level > level && (!found || r.Level < next.Level) {
			next, found = r, true
		}
	}
	return next, found
}

// LevelState is a user's progress toward the next rung.
type LevelState struct {
	Level int
	Exp   int
}

// LevelUpResult describes the outcome of a level-up check.
type LevelUpResult struct {
	Leveled      bool
	State        LevelState
	FromLevel    int
	ToLevel      int
	RemoveRoleID string // role of the level being left (may be empty)
	AddRoleID    string // role of the level reached (may be empty)
}

// ApplyLevelUp promotes a user to the next configured rung when their exp
// meets that rung's requirement. Promotion resets exp to 0 and plans the role swap.
func ApplyLevelUp(state LevelState, ladder Ladder) LevelUpResult {
	result := LevelUpResult{State: state, FromLevel: state.Level, ToLevel: state.Level}

	next, ok := NextRung(state.Level, ladder)
	if !ok || state.Exp < next.ExpRequired {
		return result
	}

	result.Leveled = true
	result.ToLevel = next.Level
	result.State = LevelState{Level: next.Level, Exp: 0}
	result.AddRoleID = next.RoleID
	if current, ok := ladder.Rung(state.Level); ok {
		result.RemoveRoleID = current.RoleID
	}
	return result
}

func floor(v float64) int {
	return int(math.Floor(v + floorEpsilon))
}

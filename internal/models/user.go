package models

import "time"

// User is a member's economy record, keyed by platform user id.
type User struct {
	SC    int `json:"sc"`
	Exp   int `json:"exp"`
	Level int `json:"level"`
}

// DutyStatus is the last known duty session of a user. It is kept after the
// user goes off duty.
type DutyStatus struct {
	Active    bool      `json:"active"`
	StartTime time.Time `json:"start_time"`
}

// Role is a platform role registered in the ranking system.
// Priority 0 is the highest authority.
type Role struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Priority    int     `json:"priority"`
	BonusIncome float64 `json:"bonus_income"`
}

// LevelRole is one rung of the level ladder, keyed by level number.
type LevelRole struct {
	RoleID       string  `json:"role_id"`
	ExpRequired  int     `json:"exp_required"`
	DutyIncome   float64 `json:"duty_income"`
	MissionBonus float64 `json:"mission_bonus"`
}

// Package models holds the typed view of the shared JSON document.
// Absent entries are a first-class case: accessors report presence
// instead of handing back silent empty values.
package models

import "sort"

// Channel purposes understood by the mission lifecycle.
const (
	ChannelMissions        = "missions"
	ChannelPendingMissions = "pending_missions"
	ChannelMissionLogs     = "mission_logs"
	ChannelScreenshots     = "screenshots"
	ChannelAnnouncements   = "announcements"
)

// ChannelPurposes lists every configurable channel purpose.
var ChannelPurposes = []string{
	ChannelMissions,
	ChannelPendingMissions,
	ChannelMissionLogs,
	ChannelScreenshots,
	ChannelAnnouncements,
}

// IsChannelPurpose reports whether purpose is a known channel purpose.
func IsChannelPurpose(purpose string) bool {
	for _, p := range ChannelPurposes {
		if p == purpose {
			return true
		}
	}
	return false
}

// Document is the whole persisted state. It is read and rewritten wholesale.
type Document struct {
	Users          map[string]*User       `json:"users"`
	DutyStatus     map[string]*DutyStatus `json:"duty_status"`
	Roles          map[string]*Role       `json:"roles"`
	LevelRoles     map[string]*LevelRole  `json:"level_roles"`
	Channels       map[string]string      `json:"channels"`
	ActiveMissions map[string]*Mission    `json:"active_missions"`
	BonusIncome    map[string]float64     `json:"bonus_income"`
	MemberRoles    map[string][]string    `json:"member_roles"`
}

// NewDocument returns an empty skeleton with every top-level key present.
func NewDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize fills in top-level maps missing from an older document and
// drops null entries.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = map[string]*User{}
	}
	if d.DutyStatus == nil {
		d.DutyStatus = map[string]*DutyStatus{}
	}
	if d.Roles == nil {
		d.Roles = map[string]*Role{}
	}
	if d.LevelRoles == nil {
		d.LevelRoles = map[string]*LevelRole{}
	}
	if d.Channels == nil {
		d.Channels = map[string]string{}
	}
	if d.ActiveMissions == nil {
		d.ActiveMissions = map[string]*Mission{}
	}
	if d.BonusIncome == nil {
		d.BonusIncome = map[string]float64{}
	}
	if d.MemberRoles == nil {
		d.MemberRoles = map[string][]string{}
	}
	dropNil(d.Users)
	dropNil(d.DutyStatus)
	dropNil(d.Roles)
	dropNil(d.LevelRoles)
	dropNil(d.ActiveMissions)
}

// dropNil removes entries written as JSON null so they read as absent.
func dropNil[V any](m map[string]*V) {
	for k, v := range m {
		if v == nil {
			delete(m, k)
		}
	}
}

// LookupUser returns the user record without creating it.
func (d *Document) LookupUser(userID string) (*User, bool) {
	u, ok := d.Users[userID]
	return u, ok && u != nil
}

// EnsureUser returns the user record, creating it with zero balances first.
func (d *Document) EnsureUser(userID string) *User {
	if u, ok := d.Users[userID]; ok && u != nil {
		return u
	}
	u := &User{}
	d.Users[userID] = u
	return u
}

// Mission returns the mission with the given id.
func (d *Document) Mission(id string) (*Mission, bool) {
	m, ok := d.ActiveMissions[id]
	return m, ok
}

// ChannelSnapshot copies the current channel map so a mission keeps the
// channels it was created with.
func (d *Document) ChannelSnapshot() map[string]string {
	snap := make(map[string]string, len(d.Channels))
	for k, v := range d.Channels {
		snap[k] = v
	}
	return snap
}

// OnDutyUsers returns the ids of users currently on duty, sorted.
func (d *Document) OnDutyUsers() []string {
	var ids []string
	for id, st := range d.DutyStatus {
		if st != nil && st.Active {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// RolesOf returns the platform role ids recorded for a member.
func (d *Document) RolesOf(userID string) []string {
	return append([]string(nil), d.MemberRoles[userID]...)
}

// GrantRole records roleID on the member; granting twice is a no-op.
func (d *Document) GrantRole(userID, roleID string) {
	for _, r := range d.MemberRoles[userID] {
		if r == roleID {
			return
		}
	}
	d.MemberRoles[userID] = append(d.MemberRoles[userID], roleID)
}

// RevokeRole removes roleID from the member.
func (d *Document) RevokeRole(userID, roleID string) {
	roles := d.MemberRoles[userID]
	out := roles[:0]
	for _, r := range roles {
		if r != roleID {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		delete(d.MemberRoles, userID)
		return
	}
	d.MemberRoles[userID] = out
}

package models

import "time"

// Mission is a cooperative task record stored under active_missions.
// Terminal missions stay in the map with their final status.
type Mission struct {
	ID               string            `json:"id"`
	Leader           string            `json:"leader"`
	Category         string            `json:"category"`
	Description      string            `json:"description"`
	Status           string            `json:"status"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          *time.Time        `json:"end_time,omitempty"`
	AbortTime        *time.Time        `json:"abort_time,omitempty"`
	Members          []string          `json:"members"`
	HelpersNeeded    int               `json:"helpers_needed"`
	EndReason        string            `json:"end_reason,omitempty"`
	AbortReason      string            `json:"abort_reason,omitempty"`
	Screenshot       string            `json:"screenshot,omitempty"`
	EndInitiatedBy   string            `json:"end_initiated_by,omitempty"`
	AbortInitiatedBy string            `json:"abort_initiated_by,omitempty"`
	Duration         string            `json:"duration,omitempty"`
	Channels         map[string]string `json:"channels"`
}

// Channel returns the mission's frozen channel id for purpose.
func (m *Mission) Channel(purpose string) (string, bool) {
	id, ok := m.Channels[purpose]
	return id, ok && id != ""
}

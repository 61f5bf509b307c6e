// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string // "debug", "info", "warn", "error"
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// NotifyEffect represents a direct message to one user.
type NotifyEffect struct {
	UserID  string
	Message string
}

func (e NotifyEffect) EffectType() string { return "notify" }

// PostEffect represents a message posted to a configured channel.
type PostEffect struct {
	Purpose   string // channel purpose, e.g. "missions"
	ChannelID string
	Content   string
}

func (e PostEffect) EffectType() string { return "post" }

// RoleEffect represents a platform role grant or revoke.
type RoleEffect struct {
	Operation string // "add" or "remove"
	UserID    string
	RoleID    string
}

func (e RoleEffect) EffectType() string { return "role" }

// Mention renders a user reference inside message content. Transports
// rewrite it into their own mention syntax.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

package secondary

import "context"

// Notifier delivers messages through the chat platform.
type Notifier interface {
	// Notify sends a direct message to a user.
	Notify(ctx context.Context, userID, message string) error

	// PostToChannel posts a message to a channel.
	PostToChannel(ctx context.Context, channelID, message string) error
}

// RoleGranter changes a member's platform roles.
type RoleGranter interface {
	AddRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
}

// MemberDirectory answers which platform roles a member holds.
type MemberDirectory interface {
	RolesOf(ctx context.Context, userID string) ([]string, error)
}

package jsonstore

import (
	"context"

	"github.com/example/dutybot/internal/models"
)

// MemberRoles keeps platform role membership in the document's
// member_roles map. It serves platforms without native roles.
type MemberRoles struct {
	store *Store
}

// NewMemberRoles creates a document-backed role directory and granter.
func NewMemberRoles(store *Store) *MemberRoles {
	return &MemberRoles{store: store}
}

// RolesOf returns the role ids held by userID.
func (m *MemberRoles) RolesOf(ctx context.Context, userID string) ([]string, error) {
	doc, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.RolesOf(userID), nil
}

// AddRole grants roleID to userID.
func (m *MemberRoles) AddRole(ctx context.Context, userID, roleID string) error {
	return m.store.Update(ctx, func(doc *models.Document) error {
		doc.GrantRole(userID, roleID)
		return nil
	})
}

// RemoveRole revokes roleID from userID.
func (m *MemberRoles) RemoveRole(ctx context.Context, userID, roleID string) error {
	return m.store.Update(ctx, func(doc *models.Document) error {
		doc.RevokeRole(userID, roleID)
		return nil
	})
}

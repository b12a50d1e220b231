package entity

import "github.com/google/uuid"

// Identity is the authenticated caller attached to a request. It never carries the password hash.
type Identity struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Role     Role
	UserType UserType
}

// Authorize reports whether the identity's role is in the allow-list.
// A nil identity or an empty allow-list is never authorized.
func Authorize(identity *Identity, allowed ...Role) bool {
	if identity == nil {
		return false
	}

	return Roles(allowed).Contains(identity.Role)
}

// CanSell reports whether the identity may manage catalog entries: sellers and admins.
func (i *Identity) CanSell() bool {
	return i != nil && (i.UserType == UserTypeSeller || i.Role == RoleAdmin)
}

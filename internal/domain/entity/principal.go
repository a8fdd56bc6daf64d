package entity

import "github.com/google/uuid"

// Principal is the authenticated caller identity supplied by the auth
// middleware. A zero-value Principal marks an anonymous caller on public
// operations.
type Principal struct {
	ID      uuid.UUID // The user ID extracted from the access token.
	Role    Role      // The single role the user registered with.
	IsAdmin bool      // Set for staff accounts; grants the admin overrides.
}

// Anonymous returns the principal used for unauthenticated requests.
func Anonymous() Principal {
	return Principal{}
}

// IsAnonymous reports whether this principal carries no authenticated identity.
func (p Principal) IsAnonymous() bool {
	return p.ID == uuid.Nil
}

// Is reports whether the principal refers to the given user.
func (p Principal) Is(userID uuid.UUID) bool {
	return !p.IsAnonymous() && p.ID == userID
}

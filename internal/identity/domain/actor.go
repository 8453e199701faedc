// Package domain defines the portal identity model consumed by the download
// core: actors, roles, and authenticated sessions. Login and logout flows are
// owned by the surrounding portal; this module only reads session rows.
package domain

import "time"

// Role is the portal role an actor holds. The role decides which
// authorization rule branch applies to a download request.
type Role string

const (
	// RoleAdmin passes every authorization rule.
	RoleAdmin Role = "admin"

	// RoleClient owns tasks and plan documents.
	RoleClient Role = "client"

	// RoleEmployee accesses resources through assignments.
	RoleEmployee Role = "employee"
)

// IsValid reports whether the role is one of the three portal roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleEmployee:
		return true
	default:
		return false
	}
}

// Actor is the authenticated party making a request. It is produced once per
// request by the session middleware and threaded through explicitly; the
// authorizer never reads ambient state.
type Actor struct {
	ID   int64
	Role Role
}

// Session is a portal session row. Only the fields the download core needs
// are modeled; creation and revocation belong to the portal.
type Session struct {
	TokenHash string
	ActorID   int64
	ActorRole Role
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

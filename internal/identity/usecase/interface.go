// Package usecase defines business logic interfaces for the identity module.
package usecase

import (
	"context"

	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

// SessionRepository reads portal session rows. Sessions are created and
// revoked by the surrounding portal; this module only looks them up.
type SessionRepository interface {
	// Get retrieves a session by its token hash. Returns ErrSessionNotFound
	// if no row matches.
	Get(ctx context.Context, tokenHash string) (*identityDomain.Session, error)
}

// SessionUseCase authenticates presented session tokens into actors.
type SessionUseCase interface {
	// Authenticate resolves a plain session token to its actor. Returns
	// ErrSessionNotFound for unknown tokens and ErrSessionExpired for
	// known but expired ones.
	Authenticate(ctx context.Context, plainToken string) (*identityDomain.Actor, error)
}

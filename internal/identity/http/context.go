// Package http provides session middleware and context utilities for the
// identity module.
package http

import (
	"context"

	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

// actorKey is a context key type for storing authenticated actors.
type actorKey struct{}

// WithActor stores an authenticated actor in the context.
// This is typically called by the session middleware after successful authentication.
func WithActor(ctx context.Context, actor *identityDomain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor retrieves an authenticated actor from the context.
// Returns (actor, true) if an actor is present, or (nil, false) for
// anonymous requests.
func GetActor(ctx context.Context) (*identityDomain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(*identityDomain.Actor)
	return actor, ok
}

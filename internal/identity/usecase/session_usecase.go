package usecase

import (
	"context"
	"time"

	apperrors "github.com/opsdeck/filegate/internal/errors"
	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
	identityService "github.com/opsdeck/filegate/internal/identity/service"
)

// sessionUseCase implements SessionUseCase against the portal sessions table.
type sessionUseCase struct {
	sessionRepo SessionRepository
	hasher      identityService.SessionHasher

	// now is swappable in tests.
	now func() time.Time
}

// NewSessionUseCase creates a new SessionUseCase with the provided dependencies.
func NewSessionUseCase(
	sessionRepo SessionRepository,
	hasher identityService.SessionHasher,
) SessionUseCase {
	return &sessionUseCase{
		sessionRepo: sessionRepo,
		hasher:      hasher,
		now:         time.Now,
	}
}

// Authenticate hashes the presented token, looks up its session, and checks
// expiry. Only the hash ever reaches the repository or logs.
func (s *sessionUseCase) Authenticate(
	ctx context.Context,
	plainToken string,
) (*identityDomain.Actor, error) {
	if plainToken == "" {
		return nil, identityDomain.ErrSessionNotFound
	}

	session, err := s.sessionRepo.Get(ctx, s.hasher.HashToken(plainToken))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, identityDomain.ErrSessionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get session")
	}

	if session.Expired(s.now()) {
		return nil, identityDomain.ErrSessionExpired
	}

	if !session.ActorRole.IsValid() {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "session carries an unknown role")
	}

	return &identityDomain.Actor{
		ID:   session.ActorID,
		Role: session.ActorRole,
	}, nil
}

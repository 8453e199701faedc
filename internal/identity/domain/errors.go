package domain

import (
	"github.com/opsdeck/filegate/internal/errors"
)

// Identity errors.
var (
	// ErrSessionNotFound indicates no session row matches the presented token hash.
	ErrSessionNotFound = errors.Wrap(errors.ErrNotFound, "session not found")

	// ErrSessionExpired indicates the session exists but is past its expiry.
	ErrSessionExpired = errors.Wrap(errors.ErrUnauthorized, "session expired")
)

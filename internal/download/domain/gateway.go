package domain

import (
	"io"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

// DownloadInput carries one download request into the gateway. ResourceType
// is the raw request value: the gateway validates it itself so malformed
// requests can still be audited with the unknown-type sentinel.
type DownloadInput struct {
	RequestID    uuid.UUID
	ResourceType string
	ResourceID   int64
	Token        string
	// Actor is the authenticated session actor, nil for anonymous requests.
	Actor    *identityDomain.Actor
	SourceIP string
}

// DownloadOutput is a resolved, authorized download ready to stream. The
// caller owns File and must close it.
type DownloadOutput struct {
	File        io.ReadCloser
	DisplayName string
	ContentType string
	Size        int64
}

// IssueLinkInput carries a request to mint a shareable download token.
// TTL of zero means the configured default.
type IssueLinkInput struct {
	Actor        *identityDomain.Actor
	ResourceType string
	ResourceID   int64
	TTL          time.Duration
}

// IssueLinkOutput is a minted download token and its expiry.
type IssueLinkOutput struct {
	Token     string
	ExpiresAt time.Time
}

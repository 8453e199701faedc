package domain

import (
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

// AuditEntry records one access decision. Entries are append-only: they are
// written once when a download request reaches a terminal state and never
// updated or deleted by this service.
//
// ActorID is nil for anonymous token-granted requests and for requests that
// failed before a credential was established. Signature is an HMAC-SHA256
// over the canonical encoding of the entry, letting tampering be detected
// after the fact.
type AuditEntry struct {
	ID           uuid.UUID
	RequestID    uuid.UUID
	ActorID      *int64
	ActorRole    identityDomain.Role
	ResourceType ResourceType
	ResourceID   int64
	Outcome      Outcome
	Reason       string
	SourceIP     string
	Signature    []byte
	CreatedAt    time.Time
}

// AnonymousRole is recorded in audit entries when no authenticated actor was
// involved in the decision (token-granted or failed-before-credential requests).
const AnonymousRole identityDomain.Role = "anonymous"

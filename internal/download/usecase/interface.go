// Package usecase defines business logic interfaces for the download core:
// resource authorization, the download gateway, and audit logging.
package usecase

import (
	"context"
	"io"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

// ResourceRepository fetches read-only resource metadata, including the
// ownership fields each authorization rule needs.
type ResourceRepository interface {
	// Fetch retrieves the record for (resourceType, resourceID).
	// Returns ErrResourceNotFound if no row matches.
	Fetch(
		ctx context.Context,
		resourceType downloadDomain.ResourceType,
		resourceID int64,
	) (*downloadDomain.ResourceRecord, error)
}

// AuditLogRepository persists audit entries. Create is append-only; entries
// are never updated or deleted by this service.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *downloadDomain.AuditEntry) error

	// List retrieves entries ordered by creation time ascending, for the
	// verify-audit-logs command. Not exposed over HTTP.
	List(ctx context.Context, offset, limit int) ([]*downloadDomain.AuditEntry, error)
}

// Authorizer decides whether an actor may read a resource. Pure function of
// its inputs: no lookups, no ambient state.
type Authorizer interface {
	Authorize(actor *identityDomain.Actor, record *downloadDomain.ResourceRecord) downloadDomain.Decision
}

// FileSystem opens resolved resource files for streaming.
type FileSystem interface {
	// Open returns a reader over the file at path and its size in bytes.
	Open(path string) (io.ReadCloser, int64, error)
}

// AuditLogUseCase records and verifies access-decision audit entries.
type AuditLogUseCase interface {
	// Record signs and persists one entry. Callers on the response path
	// must treat a returned error as log-and-continue: a failed audit
	// write never aborts a decision already made.
	Record(ctx context.Context, entry *downloadDomain.AuditEntry) error

	// VerifyBatch walks stored entries and reports signature mismatches.
	VerifyBatch(ctx context.Context, offset, limit int) (*VerificationReport, error)
}

// VerificationReport summarizes an audit trail verification pass.
type VerificationReport struct {
	Checked int
	Invalid []string // entry IDs whose signatures failed
}

// DownloadUseCase is the gateway orchestrating credential checks,
// authorization, path resolution, and audit logging for one request.
type DownloadUseCase interface {
	// Download runs the request through the gateway state machine. Exactly
	// one audit entry is written per invocation, whatever the outcome.
	Download(ctx context.Context, input *downloadDomain.DownloadInput) (*downloadDomain.DownloadOutput, error)

	// IssueLink mints a capability token for a resource the actor is
	// authorized to read. A token never widens access beyond what its
	// minter could download directly.
	IssueLink(ctx context.Context, input *downloadDomain.IssueLinkInput) (*downloadDomain.IssueLinkOutput, error)
}

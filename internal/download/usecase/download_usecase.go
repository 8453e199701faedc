package usecase

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	downloadService "github.com/opsdeck/filegate/internal/download/service"
	apperrors "github.com/opsdeck/filegate/internal/errors"
)

// osFileSystem implements FileSystem over the local filesystem.
type osFileSystem struct{}

// NewOSFileSystem creates a FileSystem backed by the local disk.
func NewOSFileSystem() FileSystem {
	return &osFileSystem{}
}

// Open opens the file and returns its size from a fresh stat.
func (osFileSystem) Open(path string) (io.ReadCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// downloadUseCase implements DownloadUseCase: the request-handling state
// machine Received → CredentialChecked → Authorized → Resolved → Streaming,
// with failure exits InvalidRequest, Denied, NotFound, PathViolation, and
// ServerError.
type downloadUseCase struct {
	tokenTTL     time.Duration
	tokenService downloadService.TokenService
	resolver     downloadService.PathResolver
	authorizer   Authorizer
	resourceRepo ResourceRepository
	auditLog     AuditLogUseCase
	fs           FileSystem
	logger       *slog.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewDownloadUseCase creates the download gateway with all its dependencies.
func NewDownloadUseCase(
	tokenTTL time.Duration,
	tokenService downloadService.TokenService,
	resolver downloadService.PathResolver,
	authorizer Authorizer,
	resourceRepo ResourceRepository,
	auditLog AuditLogUseCase,
	fs FileSystem,
	logger *slog.Logger,
) DownloadUseCase {
	if tokenTTL <= 0 {
		tokenTTL = downloadDomain.DefaultDownloadTokenTTL
	}
	return &downloadUseCase{
		tokenTTL:     tokenTTL,
		tokenService: tokenService,
		resolver:     resolver,
		authorizer:   authorizer,
		resourceRepo: resourceRepo,
		auditLog:     auditLog,
		fs:           fs,
		logger:       logger,
		now:          time.Now,
	}
}

// auditRecorder enforces the one-entry-per-request invariant: record writes
// at most once, and the deferred finish() backstop writes a server_error
// entry if a code path returned (or panicked) without reaching a terminal
// state. Audit failures are logged and swallowed; a decision already made
// is never aborted because its record could not be written.
type auditRecorder struct {
	useCase *downloadUseCase
	entry   downloadDomain.AuditEntry
	written bool
}

func (d *downloadUseCase) newAuditRecorder(input *downloadDomain.DownloadInput) *auditRecorder {
	entry := downloadDomain.AuditEntry{
		RequestID:    input.RequestID,
		ActorRole:    downloadDomain.AnonymousRole,
		ResourceType: downloadDomain.ResourceTypeUnknown,
		ResourceID:   input.ResourceID,
		SourceIP:     input.SourceIP,
	}
	if input.Actor != nil {
		actorID := input.Actor.ID
		entry.ActorID = &actorID
		entry.ActorRole = input.Actor.Role
	}
	return &auditRecorder{useCase: d, entry: entry}
}

// record writes the single audit entry for this request. The write runs
// detached from request cancellation: a client that disconnects mid-request
// still made the gateway reach a decision, and that decision must land in
// the trail, not just the log fallback.
func (r *auditRecorder) record(ctx context.Context, outcome downloadDomain.Outcome, reason string) {
	if r.written {
		return
	}
	r.written = true
	ctx = context.WithoutCancel(ctx)

	r.entry.Outcome = outcome
	r.entry.Reason = reason

	if err := r.useCase.auditLog.Record(ctx, &r.entry); err != nil {
		// Fallback channel: the denial or grant already happened; losing
		// its audit row is logged loudly but never resurfaces to the caller.
		r.useCase.logger.Error("audit entry write failed",
			slog.String("request_id", r.entry.RequestID.String()),
			slog.String("outcome", string(outcome)),
			slog.String("reason", reason),
			slog.Any("error", err),
		)
	}
}

// finish is the deferred backstop for paths that never reached a terminal state.
func (r *auditRecorder) finish(ctx context.Context) {
	if !r.written {
		r.record(ctx, downloadDomain.OutcomeServerError, "request aborted before terminal state")
	}
}

// Download runs one request through the gateway.
//
// Credential rule: an authenticated session satisfies the credential check
// on its own; the token is consulted only when no session is present. A
// request with neither is invalid, and a token-only request with a bad
// token is denied. Session-carrying requests always pass through the
// authorizer, so a valid token never shortcuts the rule table for a known
// actor (a client asking for a backup is denied regardless of its token).
func (d *downloadUseCase) Download(
	ctx context.Context,
	input *downloadDomain.DownloadInput,
) (*downloadDomain.DownloadOutput, error) {
	audit := d.newAuditRecorder(input)
	defer audit.finish(ctx)

	// Received → parameter validation.
	resourceType := downloadDomain.ResourceType(input.ResourceType)
	if !resourceType.IsValid() || input.ResourceID <= 0 {
		audit.record(ctx, downloadDomain.OutcomeInvalidRequest, "malformed resource parameters")
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid resource_type or resource_id")
	}
	audit.entry.ResourceType = resourceType

	// Received → CredentialChecked.
	tokenGranted := false
	switch {
	case input.Actor != nil:
		// Authenticated session: credential satisfied.
	case input.Token != "":
		if !d.tokenService.Verify(ctx, input.Token, input.ResourceID, resourceType, d.tokenTTL) {
			audit.record(ctx, downloadDomain.OutcomeDenied, downloadDomain.ReasonInvalidToken)
			return nil, downloadDomain.ErrInvalidToken
		}
		tokenGranted = true
	default:
		audit.record(ctx, downloadDomain.OutcomeInvalidRequest, downloadDomain.ReasonMissingCredential)
		return nil, downloadDomain.ErrMissingCredential
	}

	// CredentialChecked → Authorized.
	record, err := d.resourceRepo.Fetch(ctx, resourceType, input.ResourceID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			audit.record(ctx, downloadDomain.OutcomeNotFound, "resource record not found")
			return nil, downloadDomain.ErrResourceNotFound
		}
		audit.record(ctx, downloadDomain.OutcomeServerError, "metadata fetch failed")
		return nil, apperrors.Wrap(err, "failed to fetch resource record")
	}

	var decision downloadDomain.Decision
	if tokenGranted {
		// The capability token is itself the authorization: it was minted
		// by a caller who passed the rule table for this exact resource.
		decision = downloadDomain.Allow(downloadDomain.ReasonTokenGrant)
	} else {
		decision = d.authorizer.Authorize(input.Actor, record)
	}
	if !decision.Allowed {
		audit.record(ctx, downloadDomain.OutcomeDenied, decision.Reason)
		return nil, downloadDomain.ErrAccessDenied
	}

	// Authorized → Resolved.
	path, err := d.resolver.Resolve(record)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrPathViolation):
			audit.record(ctx, downloadDomain.OutcomePathViolation, downloadDomain.ErrPathEscapesRoot.Error())
		case apperrors.Is(err, apperrors.ErrNotFound):
			audit.record(ctx, downloadDomain.OutcomeNotFound, "resource file not found")
		default:
			audit.record(ctx, downloadDomain.OutcomeServerError, "path resolution failed")
		}
		return nil, err
	}

	// Resolved → Streaming.
	file, size, err := d.fs.Open(path)
	if err != nil {
		audit.record(ctx, downloadDomain.OutcomeServerError, "failed to open resource file")
		return nil, apperrors.Wrap(err, "failed to open resource file")
	}

	// The decision is final here: a client disconnect mid-stream does not
	// change the recorded outcome.
	audit.record(ctx, downloadDomain.OutcomeCompleted, decision.Reason)

	return &downloadDomain.DownloadOutput{
		File:        file,
		DisplayName: record.DisplayName,
		ContentType: downloadService.ContentTypeFor(record.DisplayName),
		Size:        size,
	}, nil
}

// IssueLink mints a download token for the requested resource after running
// the same authorization the download itself would. Issuance is not audited;
// the token's use is, at download time.
func (d *downloadUseCase) IssueLink(
	ctx context.Context,
	input *downloadDomain.IssueLinkInput,
) (*downloadDomain.IssueLinkOutput, error) {
	if input.Actor == nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "link issuance requires an authenticated actor")
	}

	resourceType := downloadDomain.ResourceType(input.ResourceType)
	if !resourceType.IsValid() || input.ResourceID <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid resource_type or resource_id")
	}

	record, err := d.resourceRepo.Fetch(ctx, resourceType, input.ResourceID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, downloadDomain.ErrResourceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to fetch resource record")
	}

	if decision := d.authorizer.Authorize(input.Actor, record); !decision.Allowed {
		return nil, downloadDomain.ErrAccessDenied
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = d.tokenTTL
	}

	token, err := d.tokenService.Issue(ctx, input.ResourceID, resourceType, ttl)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue download token")
	}

	return &downloadDomain.IssueLinkOutput{
		Token:     token,
		ExpiresAt: d.now().UTC().Add(ttl),
	}, nil
}

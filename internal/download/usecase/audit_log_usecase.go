package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	downloadService "github.com/opsdeck/filegate/internal/download/service"
	apperrors "github.com/opsdeck/filegate/internal/errors"
)

// auditLogUseCase implements AuditLogUseCase. Entries are signed with a key
// derived from the token signing secret before persistence, so the stored
// trail is tamper-evident.
type auditLogUseCase struct {
	auditLogRepo   AuditLogRepository
	auditSigner    downloadService.AuditSigner
	secretProvider downloadService.SecretProvider
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
func NewAuditLogUseCase(
	auditLogRepo AuditLogRepository,
	auditSigner downloadService.AuditSigner,
	secretProvider downloadService.SecretProvider,
) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo:   auditLogRepo,
		auditSigner:    auditSigner,
		secretProvider: secretProvider,
	}
}

// Record assigns the entry a UUIDv7 id and timestamp, signs it, and persists
// it. Callers on the response path must not fail the request on error.
func (a *auditLogUseCase) Record(ctx context.Context, entry *downloadDomain.AuditEntry) error {
	entry.ID = uuid.Must(uuid.NewV7())
	// Truncated to the precision the audit tables keep, so the stored
	// timestamp is exactly the signed one.
	entry.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	secret, err := a.secretProvider.GetOrCreate(ctx)
	if err != nil {
		return apperrors.Wrap(err, "failed to load audit signing secret")
	}

	signature, err := a.auditSigner.Sign(secret, entry)
	if err != nil {
		return apperrors.Wrap(err, "failed to sign audit entry")
	}
	entry.Signature = signature

	if err := a.auditLogRepo.Create(ctx, entry); err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}

	return nil
}

// VerifyBatch re-computes signatures over a page of stored entries and
// reports the ids of any that fail.
func (a *auditLogUseCase) VerifyBatch(ctx context.Context, offset, limit int) (*VerificationReport, error) {
	secret, err := a.secretProvider.GetOrCreate(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load audit signing secret")
	}

	entries, err := a.auditLogRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}

	report := &VerificationReport{}
	for _, entry := range entries {
		report.Checked++
		if err := a.auditSigner.Verify(secret, entry); err != nil {
			report.Invalid = append(report.Invalid, entry.ID.String())
		}
	}

	return report, nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/opsdeck/filegate/internal/database"
	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	apperrors "github.com/opsdeck/filegate/internal/errors"
	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

// PostgreSQLAuditLogRepository implements audit entry persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAuditLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditLogRepository creates a new PostgreSQL audit log repository.
func NewPostgreSQLAuditLogRepository(db *sql.DB) *PostgreSQLAuditLogRepository {
	return &PostgreSQLAuditLogRepository{db: db}
}

// Create inserts a new audit entry. The table is append-only: no update or
// delete statements exist in this repository.
func (p *PostgreSQLAuditLogRepository) Create(ctx context.Context, entry *downloadDomain.AuditEntry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO download_audit_logs
			  (id, request_id, actor_id, actor_role, resource_type, resource_id, outcome, reason, source_ip, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.RequestID,
		entry.ActorID,
		string(entry.ActorRole),
		string(entry.ResourceType),
		entry.ResourceID,
		string(entry.Outcome),
		entry.Reason,
		entry.SourceIP,
		entry.Signature,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}

	return nil
}

// List retrieves audit entries ordered by creation time ascending with
// pagination, for signature verification passes.
func (p *PostgreSQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*downloadDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, request_id, actor_id, actor_role, resource_type, resource_id, outcome, reason, source_ip, signature, created_at
			  FROM download_audit_logs
			  ORDER BY created_at ASC, id ASC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*downloadDomain.AuditEntry, 0)
	for rows.Next() {
		var entry downloadDomain.AuditEntry
		var actorID sql.NullInt64
		var actorRole, resourceType, outcome string

		err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&actorID,
			&actorRole,
			&resourceType,
			&entry.ResourceID,
			&outcome,
			&entry.Reason,
			&entry.SourceIP,
			&entry.Signature,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}

		if actorID.Valid {
			entry.ActorID = &actorID.Int64
		}
		entry.ActorRole = identityDomain.Role(actorRole)
		entry.ResourceType = downloadDomain.ResourceType(resourceType)
		entry.Outcome = downloadDomain.Outcome(outcome)

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}

	return entries, nil
}

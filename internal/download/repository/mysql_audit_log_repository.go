package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/opsdeck/filegate/internal/database"
	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	apperrors "github.com/opsdeck/filegate/internal/errors"
	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

// MySQLAuditLogRepository implements audit entry persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// NewMySQLAuditLogRepository creates a new MySQL audit log repository.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}

// Create inserts a new audit entry using BINARY(16) for UUIDs. The table is
// append-only: no update or delete statements exist in this repository.
func (m *MySQLAuditLogRepository) Create(ctx context.Context, entry *downloadDomain.AuditEntry) error {
	querier := database.GetTx(ctx, m.db)

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry id")
	}

	requestID, err := entry.RequestID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry request_id")
	}

	query := `INSERT INTO download_audit_logs
			  (id, request_id, actor_id, actor_role, resource_type, resource_id, outcome, reason, source_ip, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		requestID,
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
func (m *MySQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*downloadDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, request_id, actor_id, actor_role, resource_type, resource_id, outcome, reason, source_ip, signature, created_at
			  FROM download_audit_logs
			  ORDER BY created_at ASC, id ASC
			  LIMIT ? OFFSET ?`

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
		var idBytes, requestIDBytes []byte
		var actorID sql.NullInt64
		var actorRole, resourceType, outcome string

		err := rows.Scan(
			&idBytes,
			&requestIDBytes,
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

		entry.ID, err = uuid.FromBytes(idBytes)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse audit entry id")
		}
		entry.RequestID, err = uuid.FromBytes(requestIDBytes)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse audit entry request_id")
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

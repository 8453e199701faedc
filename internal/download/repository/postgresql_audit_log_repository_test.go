package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

func TestPostgreSQLAuditLogRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AuthenticatedActor", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		actorID := int64(10)
		entry := &downloadDomain.AuditEntry{
			ID:           uuid.Must(uuid.NewV7()),
			RequestID:    uuid.Must(uuid.NewV7()),
			ActorID:      &actorID,
			ActorRole:    identityDomain.RoleClient,
			ResourceType: downloadDomain.ResourceTypeTaskUpload,
			ResourceID:   42,
			Outcome:      downloadDomain.OutcomeCompleted,
			Reason:       downloadDomain.ReasonOwnerMatch,
			SourceIP:     "203.0.113.10",
			Signature:    []byte("signature"),
			CreatedAt:    time.Now().UTC(),
		}

		mock.ExpectExec(`INSERT INTO download_audit_logs`).
			WithArgs(
				entry.ID, entry.RequestID, entry.ActorID, "client", "task_upload",
				int64(42), "completed", entry.Reason, entry.SourceIP, entry.Signature, entry.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLAuditLogRepository(db)
		err = repo.Create(ctx, entry)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_AnonymousActorNullID", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		entry := &downloadDomain.AuditEntry{
			ID:           uuid.Must(uuid.NewV7()),
			RequestID:    uuid.Must(uuid.NewV7()),
			ActorRole:    downloadDomain.AnonymousRole,
			ResourceType: downloadDomain.ResourceTypeTaskUpload,
			ResourceID:   42,
			Outcome:      downloadDomain.OutcomeCompleted,
			Reason:       downloadDomain.ReasonTokenGrant,
			SourceIP:     "203.0.113.10",
			Signature:    []byte("signature"),
			CreatedAt:    time.Now().UTC(),
		}

		mock.ExpectExec(`INSERT INTO download_audit_logs`).
			WithArgs(
				entry.ID, entry.RequestID, nil, "anonymous", "task_upload",
				int64(42), "completed", entry.Reason, entry.SourceIP, entry.Signature, entry.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLAuditLogRepository(db)
		err = repo.Create(ctx, entry)

		require.NoError(t, err)
	})
}

func TestPostgreSQLAuditLogRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("ScansAllFields", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		id := uuid.Must(uuid.NewV7())
		requestID := uuid.Must(uuid.NewV7())
		createdAt := time.Now().UTC()

		columns := []string{
			"id", "request_id", "actor_id", "actor_role", "resource_type",
			"resource_id", "outcome", "reason", "source_ip", "signature", "created_at",
		}
		mock.ExpectQuery(`SELECT .+ FROM download_audit_logs`).
			WithArgs(100, 0).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(id, requestID, int64(10), "client", "task_upload",
					int64(42), "denied", "not task owner or assignee", "203.0.113.10", []byte("sig"), createdAt).
				AddRow(uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()), nil, "anonymous", "backup",
					int64(1), "completed", "capability token grant", "198.51.100.7", []byte("sig2"), createdAt))

		repo := NewPostgreSQLAuditLogRepository(db)
		entries, err := repo.List(ctx, 0, 100)

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, id, entries[0].ID)
		assert.Equal(t, requestID, entries[0].RequestID)
		require.NotNil(t, entries[0].ActorID)
		assert.Equal(t, int64(10), *entries[0].ActorID)
		assert.Equal(t, identityDomain.RoleClient, entries[0].ActorRole)
		assert.Equal(t, downloadDomain.OutcomeDenied, entries[0].Outcome)
		assert.Nil(t, entries[1].ActorID)
		assert.Equal(t, downloadDomain.AnonymousRole, entries[1].ActorRole)
	})

	t.Run("EmptyResult", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		columns := []string{
			"id", "request_id", "actor_id", "actor_role", "resource_type",
			"resource_id", "outcome", "reason", "source_ip", "signature", "created_at",
		}
		mock.ExpectQuery(`SELECT .+ FROM download_audit_logs`).
			WithArgs(100, 0).
			WillReturnRows(sqlmock.NewRows(columns))

		repo := NewPostgreSQLAuditLogRepository(db)
		entries, err := repo.List(ctx, 0, 100)

		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

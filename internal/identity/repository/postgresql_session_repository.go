// Package repository implements session persistence reads for PostgreSQL and
// MySQL. The sessions table is owned by the surrounding portal; this module
// only selects from it.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opsdeck/filegate/internal/database"
	apperrors "github.com/opsdeck/filegate/internal/errors"
	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

// PostgreSQLSessionRepository implements session reads for PostgreSQL.
type PostgreSQLSessionRepository struct {
	db *sql.DB
}

// NewPostgreSQLSessionRepository creates a new PostgreSQL session repository.
func NewPostgreSQLSessionRepository(db *sql.DB) *PostgreSQLSessionRepository {
	return &PostgreSQLSessionRepository{db: db}
}

// Get retrieves a session by its token hash.
func (p *PostgreSQLSessionRepository) Get(
	ctx context.Context,
	tokenHash string,
) (*identityDomain.Session, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT token_hash, actor_id, actor_role, expires_at, created_at FROM sessions WHERE token_hash = $1`

	var session identityDomain.Session
	var actorRole string

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&session.TokenHash,
		&session.ActorID,
		&actorRole,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identityDomain.ErrSessionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get session")
	}

	session.ActorRole = identityDomain.Role(actorRole)

	return &session, nil
}

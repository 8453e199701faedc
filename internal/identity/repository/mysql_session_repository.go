package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opsdeck/filegate/internal/database"
	apperrors "github.com/opsdeck/filegate/internal/errors"
	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

// MySQLSessionRepository implements session reads for MySQL.
type MySQLSessionRepository struct {
	db *sql.DB
}

// NewMySQLSessionRepository creates a new MySQL session repository.
func NewMySQLSessionRepository(db *sql.DB) *MySQLSessionRepository {
	return &MySQLSessionRepository{db: db}
}

// Get retrieves a session by its token hash.
func (m *MySQLSessionRepository) Get(
	ctx context.Context,
	tokenHash string,
) (*identityDomain.Session, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT token_hash, actor_id, actor_role, expires_at, created_at FROM sessions WHERE token_hash = ?`

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

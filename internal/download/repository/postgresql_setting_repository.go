package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/opsdeck/filegate/internal/database"
	apperrors "github.com/opsdeck/filegate/internal/errors"
)

// PostgreSQLSettingRepository implements named-setting persistence for PostgreSQL.
type PostgreSQLSettingRepository struct {
	db *sql.DB
}

// NewPostgreSQLSettingRepository creates a new PostgreSQL setting repository.
func NewPostgreSQLSettingRepository(db *sql.DB) *PostgreSQLSettingRepository {
	return &PostgreSQLSettingRepository{db: db}
}

// GetOrCreate inserts the candidate value if the key is absent, then reads
// the stored value back. ON CONFLICT DO NOTHING makes the first write win:
// concurrent callers racing on a cold start all read the same stored value,
// whichever insert landed first.
func (p *PostgreSQLSettingRepository) GetOrCreate(ctx context.Context, key, candidate string) (string, error) {
	querier := database.GetTx(ctx, p.db)

	insert := `INSERT INTO settings (key, value, created_at) VALUES ($1, $2, $3) ON CONFLICT (key) DO NOTHING`

	if _, err := querier.ExecContext(ctx, insert, key, candidate, time.Now().UTC()); err != nil {
		return "", apperrors.Wrap(err, "failed to insert setting")
	}

	query := `SELECT value FROM settings WHERE key = $1`

	var value string
	if err := querier.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		return "", apperrors.Wrap(err, "failed to get setting")
	}

	return value, nil
}

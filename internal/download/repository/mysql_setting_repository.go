package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/opsdeck/filegate/internal/database"
	apperrors "github.com/opsdeck/filegate/internal/errors"
)

// MySQLSettingRepository implements named-setting persistence for MySQL.
type MySQLSettingRepository struct {
	db *sql.DB
}

// NewMySQLSettingRepository creates a new MySQL setting repository.
func NewMySQLSettingRepository(db *sql.DB) *MySQLSettingRepository {
	return &MySQLSettingRepository{db: db}
}

// GetOrCreate inserts the candidate value if the key is absent, then reads
// the stored value back. INSERT IGNORE makes the first write win: concurrent
// callers racing on a cold start all read the same stored value, whichever
// insert landed first.
func (m *MySQLSettingRepository) GetOrCreate(ctx context.Context, key, candidate string) (string, error) {
	querier := database.GetTx(ctx, m.db)

	insert := "INSERT IGNORE INTO settings (`key`, value, created_at) VALUES (?, ?, ?)"

	if _, err := querier.ExecContext(ctx, insert, key, candidate, time.Now().UTC()); err != nil {
		return "", apperrors.Wrap(err, "failed to insert setting")
	}

	query := "SELECT value FROM settings WHERE `key` = ?"

	var value string
	if err := querier.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		return "", apperrors.Wrap(err, "failed to get setting")
	}

	return value, nil
}

package diarymeta

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/dbx"
	"github.com/walletscope/walletscope/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.DiaryMeta, error) {
	query :=
		`SELECT user_id, salt, verification_token, created_at FROM diary_meta
		 WHERE user_id = $1
		 `

	meta := &models.DiaryMeta{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&meta.UserID, &meta.Salt, &meta.VerificationToken, &meta.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return meta, nil
}

// Create inserts the header exactly once. ON CONFLICT DO NOTHING keeps the
// first write and turns any repeat into ErrAlreadyInitialized, so a diary
// passphrase can never be silently replaced.
func (r *PostgresRepository) Create(ctx context.Context, meta *models.DiaryMeta) error {
	query :=
		`INSERT INTO diary_meta (user_id, salt, verification_token)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, meta.UserID, meta.Salt, meta.VerificationToken)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrAlreadyInitialized
	}

	return nil
}

package wallets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/dbx"
	"github.com/walletscope/walletscope/internal/server/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Wallet, error) {
	query :=
		`SELECT id, user_id, address, label, chain, created_at FROM wallets
		 WHERE user_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Wallet
	for rows.Next() {
		w := &models.Wallet{}
		if err := rows.Scan(&w.ID, &w.UserID, &w.Address, &w.Label, &w.Chain, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	query :=
		`INSERT INTO wallets (user_id, address, label, chain)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		wallet.UserID, wallet.Address, wallet.Label, wallet.Chain).
		Scan(&wallet.ID, &wallet.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return wallet, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, walletID string) error {
	query := `DELETE FROM wallets WHERE user_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, userID, walletID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

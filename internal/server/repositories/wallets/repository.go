package wallets

import (
	"context"

	"github.com/walletscope/walletscope/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]*models.Wallet, error)
	// Create adds an address to the watchlist; a duplicate address for the
	// same user returns common.ErrAlreadyExists.
	Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)
	Delete(ctx context.Context, userID, walletID string) error
}

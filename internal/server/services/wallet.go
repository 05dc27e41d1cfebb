package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/server/models"
	"github.com/walletscope/walletscope/internal/server/repositories/repomanager"
)

// WalletService manages the per-user watchlist of tracked addresses.
type WalletService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewWalletService(db *sql.DB, m repomanager.RepositoryManager) *WalletService {
	return &WalletService{db: db, repomanager: m}
}

func (s *WalletService) List(ctx context.Context, userID string) ([]*models.Wallet, error) {
	return s.repomanager.Wallets(s.db).List(ctx, userID)
}

func (s *WalletService) Add(ctx context.Context, userID, address, label, chain string) (*models.Wallet, error) {
	if address == "" {
		return nil, common.ErrValidation
	}
	w := &models.Wallet{UserID: userID, Address: address, Label: label, Chain: chain}
	created, err := s.repomanager.Wallets(s.db).Create(ctx, w)
	if err != nil {
		if err == common.ErrAlreadyExists {
			return nil, err
		}
		return nil, fmt.Errorf("error adding wallet: %v", err)
	}
	return created, nil
}

func (s *WalletService) Remove(ctx context.Context, userID, walletID string) error {
	return s.repomanager.Wallets(s.db).Delete(ctx, userID, walletID)
}

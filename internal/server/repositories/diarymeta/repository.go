package diarymeta

import (
	"context"

	"github.com/walletscope/walletscope/internal/server/models"
)

type Repository interface {
	// Get returns the diary header for the user, or common.ErrNotFound when
	// the diary has never been set up.
	Get(ctx context.Context, userID string) (*models.DiaryMeta, error)
	// Create stores the header once. A second call for the same user returns
	// common.ErrAlreadyInitialized.
	Create(ctx context.Context, meta *models.DiaryMeta) error
}

package notes

import (
	"context"

	"github.com/walletscope/walletscope/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]*models.Note, error)
	// Upsert inserts a note or, when the id already exists for the user,
	// keeps whichever version was edited last.
	Upsert(ctx context.Context, note *models.Note) error
	// Delete removes a note; deleting an absent note returns
	// common.ErrNotFound.
	Delete(ctx context.Context, userID, noteID string) error
}

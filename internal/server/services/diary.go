package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/server/models"
	"github.com/walletscope/walletscope/internal/server/repositories/repomanager"
)

// DiaryService stores diary headers and encrypted note records. The service
// never inspects ciphertext and has no way to: the diary key exists only on
// clients.
type DiaryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDiaryService(db *sql.DB, m repomanager.RepositoryManager) *DiaryService {
	return &DiaryService{db: db, repomanager: m}
}

// GetMeta returns the diary header, or common.ErrNotFound when the user has
// never run setup.
func (s *DiaryService) GetMeta(ctx context.Context, userID string) (*models.DiaryMeta, error) {
	return s.repomanager.DiaryMeta(s.db).Get(ctx, userID)
}

// Setup stores the diary header exactly once per user. Repeats return
// common.ErrAlreadyInitialized; the original header always survives.
func (s *DiaryService) Setup(ctx context.Context, userID string, salt, verificationToken []byte) error {
	if len(salt) == 0 || len(verificationToken) == 0 {
		return common.ErrValidation
	}
	meta := &models.DiaryMeta{UserID: userID, Salt: salt, VerificationToken: verificationToken}
	if err := s.repomanager.DiaryMeta(s.db).Create(ctx, meta); err != nil {
		if errors.Is(err, common.ErrAlreadyInitialized) {
			return err
		}
		return fmt.Errorf("error storing diary meta: %v", err)
	}
	return nil
}

// ListNotes returns all encrypted note records for the user.
func (s *DiaryService) ListNotes(ctx context.Context, userID string) ([]*models.Note, error) {
	return s.repomanager.Notes(s.db).List(ctx, userID)
}

// SaveNote upserts one encrypted record. Creates and updates share this path:
// the repository applies last-write-wins on the edit timestamp, which makes
// offline queue replays idempotent.
func (s *DiaryService) SaveNote(ctx context.Context, note *models.Note) error {
	if note.ID == "" || len(note.Ciphertext) == 0 || len(note.Nonce) == 0 {
		return common.ErrValidation
	}
	if err := s.repomanager.Notes(s.db).Upsert(ctx, note); err != nil {
		return fmt.Errorf("error saving note: %v", err)
	}
	return nil
}

// DeleteNote removes a record; deleting an absent record returns
// common.ErrNotFound.
func (s *DiaryService) DeleteNote(ctx context.Context, userID, noteID string) error {
	return s.repomanager.Notes(s.db).Delete(ctx, userID, noteID)
}

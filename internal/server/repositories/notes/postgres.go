package notes

import (
	"context"
	"encoding/json"
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

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Note, error) {
	query :=
		`SELECT id, user_id, scope, type, tags, ciphertext, nonce, created_at, edited_at
		 FROM notes
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Note
	for rows.Next() {
		note := &models.Note{}
		var tags []byte
		if err := rows.Scan(&note.ID, &note.UserID, &note.Scope, &note.Type, &tags,
			&note.Ciphertext, &note.Nonce, &note.CreatedAt, &note.EditedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &note.Tags); err != nil {
				return nil, fmt.Errorf("db error: %w", err)
			}
		}
		result = append(result, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Upsert applies last-write-wins on edited_at: a stale replay from an
// offline queue cannot clobber a newer edit.
func (r *PostgresRepository) Upsert(ctx context.Context, note *models.Note) error {
	tags, err := json.Marshal(note.Tags)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query :=
		`INSERT INTO notes (id, user_id, scope, type, tags, ciphertext, nonce, created_at, edited_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   scope = EXCLUDED.scope,
		   type = EXCLUDED.type,
		   tags = EXCLUDED.tags,
		   ciphertext = EXCLUDED.ciphertext,
		   nonce = EXCLUDED.nonce,
		   edited_at = EXCLUDED.edited_at
		 WHERE notes.user_id = EXCLUDED.user_id
		   AND COALESCE(notes.edited_at, notes.created_at) <= COALESCE(EXCLUDED.edited_at, EXCLUDED.created_at)
		 `

	if _, err := r.db.ExecContext(ctx, query, note.ID, note.UserID, note.Scope, note.Type,
		tags, note.Ciphertext, note.Nonce, note.CreatedAt, note.EditedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, noteID string) error {
	query := `DELETE FROM notes WHERE user_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, userID, noteID)
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

package localdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/walletscope/walletscope/internal/dbx"
	"github.com/walletscope/walletscope/internal/diary"
	"github.com/walletscope/walletscope/internal/diary/remote"
)

// SQLiteQueueStore implements diary.QueueStore over a DBTX, giving the note
// store a retry queue that survives client restarts.
type SQLiteQueueStore struct {
	db dbx.DBTX
}

func NewSQLiteQueueStore(db dbx.DBTX) *SQLiteQueueStore {
	return &SQLiteQueueStore{db: db}
}

// Append inserts the operation and assigns its queue sequence number.
func (q *SQLiteQueueStore) Append(ctx context.Context, op *diary.PendingOp) error {
	var record []byte
	if op.Record != nil {
		b, err := json.Marshal(op.Record)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		record = b
	}

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO pending_ops (kind, note_id, record, queued_at) VALUES (?, ?, ?, ?)`,
		string(op.Kind), op.NoteID, record, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to append pending op: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get sequence: %w", err)
	}
	op.Seq = seq
	return nil
}

// List returns all pending operations in original append order.
func (q *SQLiteQueueStore) List(ctx context.Context) ([]*diary.PendingOp, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT seq, kind, note_id, record FROM pending_ops ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending ops: %w", err)
	}
	defer rows.Close()

	var result []*diary.PendingOp
	for rows.Next() {
		var (
			op     diary.PendingOp
			kind   string
			record []byte
		)
		if err := rows.Scan(&op.Seq, &kind, &op.NoteID, &record); err != nil {
			return nil, err
		}
		op.Kind = diary.OpKind(kind)
		if len(record) > 0 {
			var rec remote.NoteRecord
			if err := json.Unmarshal(record, &rec); err != nil {
				return nil, fmt.Errorf("failed to unmarshal record: %w", err)
			}
			op.Record = &rec
		}
		result = append(result, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Remove deletes a replayed operation by sequence number.
func (q *SQLiteQueueStore) Remove(ctx context.Context, seq int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM pending_ops WHERE seq = ?`, seq)
	if err != nil {
		return fmt.Errorf("failed to remove pending op: %w", err)
	}
	return nil
}

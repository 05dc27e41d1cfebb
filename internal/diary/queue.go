package diary

import (
	"context"
	"sync"

	"github.com/walletscope/walletscope/internal/diary/remote"
)

// OpKind identifies a queued mutation.
type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// PendingOp is one write-ahead entry awaiting remote replay. Record carries
// the full encrypted note for create/update and is nil for delete.
type PendingOp struct {
	Seq    int64
	Kind   OpKind
	NoteID string
	Record *remote.NoteRecord
}

// QueueStore is the durable, ordered write-ahead queue behind the note
// store's offline mode. Append assigns Seq in strictly increasing call
// order; List returns ops in Seq order.
type QueueStore interface {
	Append(ctx context.Context, op *PendingOp) error
	List(ctx context.Context) ([]*PendingOp, error)
	Remove(ctx context.Context, seq int64) error
}

// MemQueue is an in-memory QueueStore. The CLI host swaps in the
// SQLite-backed implementation for durability across restarts.
type MemQueue struct {
	mu   sync.Mutex
	next int64
	ops  []*PendingOp
}

func NewMemQueue() *MemQueue {
	return &MemQueue{next: 1}
}

func (q *MemQueue) Append(ctx context.Context, op *PendingOp) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	op.Seq = q.next
	q.next++
	q.ops = append(q.ops, op)
	return nil
}

func (q *MemQueue) List(ctx context.Context) ([]*PendingOp, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*PendingOp, len(q.ops))
	copy(out, q.ops)
	return out, nil
}

func (q *MemQueue) Remove(ctx context.Context, seq int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, op := range q.ops {
		if op.Seq == seq {
			q.ops = append(q.ops[:i], q.ops[i+1:]...)
			return nil
		}
	}
	return nil
}

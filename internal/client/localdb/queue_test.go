package localdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/walletscope/walletscope/internal/diary"
	"github.com/walletscope/walletscope/internal/diary/remote"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:queue?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE pending_ops (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    note_id TEXT NOT NULL,
    record BLOB,
    queued_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)

	t.Cleanup(func() { _, _ = db.Exec(`DROP TABLE pending_ops`) })
	return db
}

func TestSQLiteQueueStore_AppendAssignsIncreasingSeq(t *testing.T) {
	ctx := context.Background()
	q := NewSQLiteQueueStore(setupDB(t))

	op1 := &diary.PendingOp{Kind: diary.OpCreate, NoteID: "a", Record: &remote.NoteRecord{ID: "a"}}
	op2 := &diary.PendingOp{Kind: diary.OpDelete, NoteID: "a"}

	require.NoError(t, q.Append(ctx, op1))
	require.NoError(t, q.Append(ctx, op2))
	require.Greater(t, op2.Seq, op1.Seq)
}

func TestSQLiteQueueStore_ListPreservesOrder(t *testing.T) {
	ctx := context.Background()
	q := NewSQLiteQueueStore(setupDB(t))

	require.NoError(t, q.Append(ctx, &diary.PendingOp{Kind: diary.OpCreate, NoteID: "a",
		Record: &remote.NoteRecord{ID: "a", Ciphertext: []byte{1}, Nonce: []byte{2}}}))
	require.NoError(t, q.Append(ctx, &diary.PendingOp{Kind: diary.OpUpdate, NoteID: "a",
		Record: &remote.NoteRecord{ID: "a", Ciphertext: []byte{3}, Nonce: []byte{4}}}))
	require.NoError(t, q.Append(ctx, &diary.PendingOp{Kind: diary.OpDelete, NoteID: "a"}))

	ops, err := q.List(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 3)
	require.Equal(t, diary.OpCreate, ops[0].Kind)
	require.Equal(t, diary.OpUpdate, ops[1].Kind)
	require.Equal(t, diary.OpDelete, ops[2].Kind)

	// records survive the round trip, delete carries none
	require.Equal(t, []byte{1}, ops[0].Record.Ciphertext)
	require.Equal(t, []byte{3}, ops[1].Record.Ciphertext)
	require.Nil(t, ops[2].Record)
}

func TestSQLiteQueueStore_Remove(t *testing.T) {
	ctx := context.Background()
	q := NewSQLiteQueueStore(setupDB(t))

	op := &diary.PendingOp{Kind: diary.OpDelete, NoteID: "a"}
	require.NoError(t, q.Append(ctx, op))
	require.NoError(t, q.Remove(ctx, op.Seq))

	ops, err := q.List(ctx)
	require.NoError(t, err)
	require.Empty(t, ops)

	// removing an unknown seq is not an error
	require.NoError(t, q.Remove(ctx, 999))
}

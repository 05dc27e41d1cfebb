package diary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/walletscope/walletscope/internal/common"
	"github.com/walletscope/walletscope/internal/cryptox"
	"github.com/walletscope/walletscope/internal/diary/remote"
	"github.com/walletscope/walletscope/internal/logging"
)

// timeNow is a test seam for the clock.
var timeNow = time.Now

// launchFlush is a test seam: it schedules an asynchronous queue flush after
// a mutation. Tests replace it to flush deterministically.
var launchFlush = func(s *NoteStore) {
	go func() { _ = s.Flush(context.Background()) }()
}

// NoteStore is the encrypted note store: a decrypted in-memory working set
// plus a durable, ordered write-ahead queue toward the backend. Local
// mutations apply immediately in call order; remote sync is asynchronous and
// replayed strictly in queue order on reconnect.
type NoteStore struct {
	mu      sync.Mutex
	remote  remote.Client
	session *Session
	queue   QueueStore
	logger  logging.Logger

	notes     []*Note
	corrupted []string
	offline   bool

	// flushMu serializes queue replay so ops are never applied out of order.
	flushMu sync.Mutex
}

func NewNoteStore(rc remote.Client, session *Session, queue QueueStore, logger logging.Logger) *NoteStore {
	return &NoteStore{
		remote:  rc,
		session: session,
		queue:   queue,
		logger:  logger.With("component", "note_store"),
	}
}

// Load fetches and decrypts all stored notes in one batch. Notes that fail
// AEAD authentication are flagged corrupted and excluded from the visible
// list without aborting the rest of the batch.
func (s *NoteStore) Load(ctx context.Context) error {
	recs, err := s.remote.ListNotes(ctx)
	if err != nil {
		if errors.Is(err, remote.ErrUnavailable) {
			s.setOffline(true)
		}
		return fmt.Errorf("note load: %w", err)
	}

	notes := make([]*Note, 0, len(recs))
	var corrupted []string

	err = s.session.WithKey(func(key []byte) error {
		for _, rec := range recs {
			plain, err := cryptox.Open(rec.Ciphertext, rec.Nonce, key)
			if err != nil {
				corrupted = append(corrupted, rec.ID)
				s.logger.Warn(ctx, "note failed authentication, excluded", "note_id", rec.ID)
				continue
			}
			notes = append(notes, &Note{
				ID:        rec.ID,
				Text:      string(plain),
				Scope:     Scope(rec.Scope),
				Type:      NoteType(rec.Type),
				Tags:      rec.Tags,
				CreatedAt: rec.CreatedAt,
				EditedAt:  rec.EditedAt,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.notes = notes
	s.corrupted = corrupted
	s.mu.Unlock()

	s.setOffline(false)
	return nil
}

// Add encrypts the text under a fresh nonce, inserts the note into the local
// list for immediate display, and queues an asynchronous remote create.
func (s *NoteStore) Add(ctx context.Context, text string, typ NoteType, tags []string, scope Scope) (*Note, error) {
	if text == "" {
		return nil, common.ErrEmptyNoteText
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown note type %q", common.ErrValidation, typ)
	}

	note := &Note{
		ID:        uuid.NewString(),
		Text:      text,
		Scope:     scope,
		Type:      typ,
		Tags:      tags,
		CreatedAt: timeNow().UTC(),
	}

	rec, err := s.seal(note)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.notes = append(s.notes, note)
	s.mu.Unlock()

	if err := s.enqueue(ctx, &PendingOp{Kind: OpCreate, NoteID: note.ID, Record: rec}); err != nil {
		return nil, err
	}

	out := *note
	return &out, nil
}

// Update re-encrypts the full note content under a new nonce (AEAD forbids
// partial updates), stamps EditedAt, and queues an asynchronous remote
// update.
func (s *NoteStore) Update(ctx context.Context, id, text string, typ NoteType, tags []string) (*Note, error) {
	if text == "" {
		return nil, common.ErrEmptyNoteText
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown note type %q", common.ErrValidation, typ)
	}

	s.mu.Lock()
	note := s.findLocked(id)
	if note == nil {
		s.mu.Unlock()
		return nil, common.ErrNotFound
	}
	edited := timeNow().UTC()
	note.Text = text
	note.Type = typ
	note.Tags = tags
	note.EditedAt = &edited
	updated := *note
	s.mu.Unlock()

	rec, err := s.seal(&updated)
	if err != nil {
		return nil, err
	}

	if err := s.enqueue(ctx, &PendingOp{Kind: OpUpdate, NoteID: id, Record: rec}); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the note from the local list immediately and queues an
// asynchronous remote delete. A failed remote delete stays queued for retry;
// the note is never resurrected in the visible list.
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	for i, n := range s.notes {
		if n.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return common.ErrNotFound
	}
	return s.enqueue(ctx, &PendingOp{Kind: OpDelete, NoteID: id})
}

// List returns the decrypted notes matching filter, newest first. The result
// is recomputed from the current working set on every call.
func (s *NoteStore) List(filter Filter) []Note {
	s.mu.Lock()
	out := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		if filter.matches(n) {
			out = append(out, *n)
		}
	}
	s.mu.Unlock()

	sortNewestFirst(out)
	return out
}

// CorruptedIDs returns the ids of notes excluded from the visible list
// because they failed authentication during the last Load.
func (s *NoteStore) CorruptedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.corrupted))
	copy(out, s.corrupted)
	return out
}

// Offline reports whether the store is currently in offline mode.
func (s *NoteStore) Offline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offline
}

// Flush replays the pending queue strictly in original order. It stops at
// the first transport failure, leaving the remaining ops (including the
// failed one) queued, and clears the offline flag once the queue drains.
func (s *NoteStore) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	ops, err := s.queue.List(ctx)
	if err != nil {
		return err
	}

	for _, op := range ops {
		if err := s.apply(ctx, op); err != nil {
			if errors.Is(err, remote.ErrUnavailable) {
				s.setOffline(true)
				return nil
			}
			// a permanently rejected op would poison the queue; drop it
			s.logger.Error(ctx, "dropping unsyncable operation", "kind", string(op.Kind), "note_id", op.NoteID, "err", err)
		}
		if err := s.queue.Remove(ctx, op.Seq); err != nil {
			return err
		}
	}

	s.setOffline(false)
	return nil
}

func (s *NoteStore) apply(ctx context.Context, op *PendingOp) error {
	switch op.Kind {
	case OpCreate:
		return s.remote.CreateNote(ctx, op.Record)
	case OpUpdate:
		err := s.remote.UpdateNote(ctx, op.Record)
		if errors.Is(err, remote.ErrNotFound) {
			// deleted remotely in the meantime; last write wins elsewhere
			return nil
		}
		return err
	case OpDelete:
		err := s.remote.DeleteNote(ctx, op.NoteID)
		if errors.Is(err, remote.ErrNotFound) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("%w: unknown op kind %q", common.ErrInternal, op.Kind)
	}
}

// seal encrypts a note's text under the live session key. Fails closed with
// common.ErrLocked when the session has been torn down.
func (s *NoteStore) seal(n *Note) (*remote.NoteRecord, error) {
	var rec *remote.NoteRecord
	err := s.session.WithKey(func(key []byte) error {
		ciphertext, nonce, err := cryptox.Seal([]byte(n.Text), key)
		if err != nil {
			return err
		}
		rec = toRecord(n, ciphertext, nonce)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *NoteStore) enqueue(ctx context.Context, op *PendingOp) error {
	if err := s.queue.Append(ctx, op); err != nil {
		return err
	}
	launchFlush(s)
	return nil
}

func (s *NoteStore) findLocked(id string) *Note {
	for _, n := range s.notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (s *NoteStore) setOffline(v bool) {
	s.mu.Lock()
	changed := s.offline != v
	s.offline = v
	s.mu.Unlock()
	if changed {
		s.logger.Info(context.Background(), "connectivity changed", "offline", v)
	}
}

// reset drops the decrypted working set. Called on lock so plaintext does
// not outlive the session key.
func (s *NoteStore) reset() {
	s.mu.Lock()
	s.notes = nil
	s.corrupted = nil
	s.mu.Unlock()
}

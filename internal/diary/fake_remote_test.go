package diary

import (
	"context"
	"sync"

	"github.com/walletscope/walletscope/internal/diary/remote"
)

// fakeRemote implements remote.Client for unit tests. When unavailable is
// set, every call fails with remote.ErrUnavailable, simulating a network
// outage.
type fakeRemote struct {
	mu sync.Mutex

	meta    remote.Metadata
	metaErr error

	setupErr   error
	setupCalls int

	unavailable bool

	notes map[string]*remote.NoteRecord
	order []string

	// appliedOps records every successful mutation in arrival order, as
	// "kind:id" strings, for ordering assertions.
	appliedOps []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{notes: make(map[string]*remote.NoteRecord)}
}

func (f *fakeRemote) FetchMetadata(ctx context.Context) (*remote.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	md := f.meta
	return &md, nil
}

func (f *fakeRemote) Setup(ctx context.Context, salt, token []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setupErr != nil {
		return f.setupErr
	}
	if !f.meta.IsNew {
		return remote.ErrAlreadyInitialized
	}
	f.setupCalls++
	f.meta = remote.Metadata{
		Salt:              append([]byte(nil), salt...),
		VerificationToken: append([]byte(nil), token...),
	}
	return nil
}

func (f *fakeRemote) ListNotes(ctx context.Context) ([]*remote.NoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return nil, remote.ErrUnavailable
	}
	out := make([]*remote.NoteRecord, 0, len(f.order))
	for _, id := range f.order {
		rec := *f.notes[id]
		out = append(out, &rec)
	}
	return out, nil
}

func (f *fakeRemote) CreateNote(ctx context.Context, rec *remote.NoteRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return remote.ErrUnavailable
	}
	cp := *rec
	f.notes[rec.ID] = &cp
	f.order = append(f.order, rec.ID)
	f.appliedOps = append(f.appliedOps, "create:"+rec.ID)
	return nil
}

func (f *fakeRemote) UpdateNote(ctx context.Context, rec *remote.NoteRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return remote.ErrUnavailable
	}
	if _, ok := f.notes[rec.ID]; !ok {
		return remote.ErrNotFound
	}
	cp := *rec
	f.notes[rec.ID] = &cp
	f.appliedOps = append(f.appliedOps, "update:"+rec.ID)
	return nil
}

func (f *fakeRemote) DeleteNote(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unavailable {
		return remote.ErrUnavailable
	}
	if _, ok := f.notes[id]; !ok {
		return remote.ErrNotFound
	}
	delete(f.notes, id)
	for i, nid := range f.order {
		if nid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	f.appliedOps = append(f.appliedOps, "delete:"+id)
	return nil
}

func (f *fakeRemote) setUnavailable(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unavailable = v
}

func (f *fakeRemote) applied() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.appliedOps...)
}

func (f *fakeRemote) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.notes[id]
	return ok
}

package diary

import (
	"context"
	"sync"

	"github.com/walletscope/walletscope/internal/diary/remote"
	"github.com/walletscope/walletscope/internal/logging"
)

// Controller composes the unlock gate, the session, and the note store into
// the two façades the rest of the app consumes: a global diary and
// per-wallet diaries. All façades share one session key by reference; the
// key is held once, in the controller's Session.
type Controller struct {
	mu      sync.Mutex
	session *Session
	gate    *UnlockGate
	store   *NoteStore
	logger  logging.Logger

	loading bool
	lastErr error
}

func NewController(rc remote.Client, queue QueueStore, logger logging.Logger) *Controller {
	session := &Session{}
	return &Controller{
		session: session,
		gate:    NewUnlockGate(rc, session, logger),
		store:   NewNoteStore(rc, session, queue, logger),
		logger:  logger.With("component", "diary_controller"),
	}
}

// Init loads the diary metadata and determines whether this is a first-time
// setup or an existing diary awaiting unlock.
func (c *Controller) Init(ctx context.Context) error {
	err := c.gate.Init(ctx)
	c.setErr(err)
	return err
}

// Setup runs first-time initialization with the chosen passphrase and, on
// success, performs the initial (empty) batch load. The new session is
// immediately usable: an AddNote right after Setup needs no second unlock.
func (c *Controller) Setup(ctx context.Context, passphrase []byte) error {
	if err := c.gate.Setup(ctx, passphrase); err != nil {
		c.setErr(err)
		return err
	}
	return c.loadNotes(ctx)
}

// Unlock verifies the passphrase and, on success, performs exactly one batch
// load-and-decrypt of all stored notes.
func (c *Controller) Unlock(ctx context.Context, passphrase []byte) error {
	if err := c.gate.Unlock(ctx, passphrase); err != nil {
		c.setErr(err)
		return err
	}
	return c.loadNotes(ctx)
}

// Lock clears the session key and drops the decrypted working set.
// Idempotent.
func (c *Controller) Lock() {
	c.gate.Lock()
	c.store.reset()
}

// Sync replays any queued offline mutations.
func (c *Controller) Sync(ctx context.Context) error {
	return c.store.Flush(ctx)
}

// FailedAttempts exposes the unlock failure counter for external backoff.
func (c *Controller) FailedAttempts() int {
	return c.gate.FailedAttempts()
}

// Global returns the façade over whole-watchlist notes.
func (c *Controller) Global() *Facade {
	return &Facade{ctrl: c, scope: ScopeGlobal}
}

// Wallet returns the façade over notes attached to one tracked wallet.
func (c *Controller) Wallet(address string) *Facade {
	return &Facade{ctrl: c, scope: WalletScope(address)}
}

func (c *Controller) loadNotes(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	err := c.store.Load(ctx)

	c.mu.Lock()
	c.loading = false
	c.lastErr = err
	c.mu.Unlock()
	return err
}

func (c *Controller) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

// Snapshot is the state a host UI renders from.
type Snapshot struct {
	Notes             []Note
	Loading           bool
	Error             error
	Offline           bool
	Locked            bool
	IsNew             bool
	FailedAttempts    int
	SaltB64           string
	VerificationToken string
}

// Facade is a scoped view over the shared diary session. Façades are cheap
// handles: they hold no key material of their own.
type Facade struct {
	ctrl  *Controller
	scope Scope
}

// Scope returns the façade's scope.
func (f *Facade) Scope() Scope { return f.scope }

// Notes returns the decrypted notes in this façade's scope, newest first.
func (f *Facade) Notes() []Note {
	return f.ctrl.store.List(Filter{Scope: &f.scope})
}

// Search returns this scope's notes narrowed by type, tag, or substring.
func (f *Facade) Search(filter Filter) []Note {
	filter.Scope = &f.scope
	return f.ctrl.store.List(filter)
}

// AddNote creates a note in this façade's scope and returns the decrypted
// note for immediate display.
func (f *Facade) AddNote(ctx context.Context, text string, typ NoteType, tags []string) (*Note, error) {
	return f.ctrl.store.Add(ctx, text, typ, tags, f.scope)
}

// UpdateNote re-encrypts the full note content and stamps EditedAt.
func (f *Facade) UpdateNote(ctx context.Context, id, text string, typ NoteType, tags []string) (*Note, error) {
	return f.ctrl.store.Update(ctx, id, text, typ, tags)
}

// DeleteNote removes the note locally and queues the remote delete.
func (f *Facade) DeleteNote(ctx context.Context, id string) error {
	return f.ctrl.store.Delete(ctx, id)
}

// Unlock is the unlock entry point, shared by every façade.
func (f *Facade) Unlock(ctx context.Context, passphrase []byte) error {
	return f.ctrl.Unlock(ctx, passphrase)
}

// Setup runs first-time initialization, shared by every façade.
func (f *Facade) Setup(ctx context.Context, passphrase []byte) error {
	return f.ctrl.Setup(ctx, passphrase)
}

// Lock locks the shared session.
func (f *Facade) Lock() { f.ctrl.Lock() }

// Snapshot assembles the renderable state for this scope.
func (f *Facade) Snapshot() Snapshot {
	c := f.ctrl

	c.mu.Lock()
	loading := c.loading
	lastErr := c.lastErr
	c.mu.Unlock()

	return Snapshot{
		Notes:             f.Notes(),
		Loading:           loading,
		Error:             lastErr,
		Offline:           c.store.Offline(),
		Locked:            !c.session.Unlocked(),
		IsNew:             c.gate.IsNew(),
		FailedAttempts:    c.gate.FailedAttempts(),
		SaltB64:           c.gate.SaltB64(),
		VerificationToken: c.gate.VerificationToken(),
	}
}

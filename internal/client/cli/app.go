package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/walletscope/walletscope/internal/client/config"
	"github.com/walletscope/walletscope/internal/client/localdb"
	"github.com/walletscope/walletscope/internal/diary"
	"github.com/walletscope/walletscope/internal/diary/remote"
	"github.com/walletscope/walletscope/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// App wires the REPL to the diary controller and the backend API client.
// The controller owns all key material; App itself never holds the session
// key or a passphrase beyond the scope of a single command.
type App struct {
	config     *config.Config
	api        *remote.HTTPClient
	ctrl       *diary.Controller
	db         *sql.DB
	walletAddr string // empty means the global diary scope
	userName   string
	Mode       Mode
	reader     *bufio.Reader
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := localdb.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	api := remote.NewHTTPClient(c.ServerURL)
	queue := localdb.NewSQLiteQueueStore(db)
	ctrl := diary.NewController(api, queue, logger)

	return &App{
		config: c,
		api:    api,
		ctrl:   ctrl,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// facade returns the diary façade for the currently selected scope.
func (a *App) facade() *diary.Facade {
	if a.walletAddr == "" {
		return a.ctrl.Global()
	}
	return a.ctrl.Wallet(a.walletAddr)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.api.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

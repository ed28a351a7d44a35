package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/keygate/internal/client/client"
	"github.com/dmitrijs2005/keygate/internal/client/config"
	"github.com/dmitrijs2005/keygate/internal/client/keymanager"
	"github.com/dmitrijs2005/keygate/internal/client/keystate"
	"github.com/dmitrijs2005/keygate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/keygate/internal/client/securestore"
	"github.com/dmitrijs2005/keygate/internal/cryptox"
	"github.com/dmitrijs2005/keygate/internal/filex"
	"github.com/dmitrijs2005/keygate/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// keyManager is the part of keymanager.Manager the CLI drives.
type keyManager interface {
	Submit(ctx context.Context, raw []byte) error
	Reset(ctx context.Context, account *keymanager.Account, confirm keymanager.Confirmer) error
	Skip()
	Restore(ctx context.Context) error
	Phase() keymanager.Phase
	Completed() bool
}

// keyStamps reports when a durable entry was last written.
type keyStamps interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
}

// entryStores opens per-account encrypted stores.
type entryStores interface {
	Open(ctx context.Context, accountID string) (*securestore.Store, error)
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager keyManager
	state   *keystate.State
	stores  entryStores
	stamps  keyStamps
	remote  client.Client
	account *keymanager.Account

	// newManager builds a fresh key prompt; each manager completes once.
	newManager func() (keyManager, error)

	reader *bufio.Reader
	out    io.Writer

	mu        sync.Mutex
	mode      Mode
	completed bool
	skipped   bool

	closers []io.Closer
}

// NewApp builds the client from cfg: it opens <DataDir>/metadata.db, the
// secure stores under <DataDir>/stores and a lazy connection to the server.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	policy, err := keymanager.ParseResetPolicy(cfg.ResetPolicy)
	if err != nil {
		return nil, err
	}

	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, "metadata.db"))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	state := keystate.New()
	meta := metadata.NewStore(db)

	stores, err := securestore.NewManager(filepath.Join(dir, "stores"), state, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	remote, err := client.NewKeyServiceClient(cfg.ServerEndpointAddr, cfg.AccessToken)
	if err != nil {
		_ = stores.Close()
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config: cfg,
		logger: logger.With("module", "cli"),
		state:  state,
		stores: stores,
		stamps: meta,
		remote: remote,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		mode:   ModeOffline,
	}
	if cfg.AccountID != "" {
		a.account = &keymanager.Account{ID: cfg.AccountID, UserName: cfg.UserName}
	}

	hasher := cryptox.NewPasswordHasher(cfg.HashSalt)
	a.newManager = func() (keyManager, error) {
		return keymanager.New(keymanager.Options{
			Hasher:      hasher,
			Storage:     meta,
			State:       state,
			Remote:      a.remote,
			Local:       stores,
			Domain:      cfg.Domain,
			Policy:      policy,
			CallTimeout: cfg.RequestTimeout,
			OnComplete:  a.onComplete,
			Logger:      logger,
		})
	}

	m, err := a.newManager()
	if err != nil {
		_ = remote.Close()
		_ = stores.Close()
		_ = db.Close()
		return nil, err
	}
	a.manager = m
	a.closers = []io.Closer{remote, stores, db}

	return a, nil
}

// Run restores a stored key, starts the online watcher and blocks in the
// REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.manager.Restore(ctx); err != nil {
		a.logger.Warn(ctx, "stored encryption key not restored", "error", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	fmt.Fprintln(a.out, "Welcome to keygate (type 'help' for commands)")
	if !a.state.IsSet() {
		fmt.Fprintln(a.out, "No encryption key on this device: use 'set' to enter one or 'skip'.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// renewManager replaces a completed key prompt with a fresh one.
func (a *App) renewManager() error {
	m, err := a.newManager()
	if err != nil {
		return err
	}
	a.manager = m

	a.mu.Lock()
	a.completed = false
	a.skipped = false
	a.mu.Unlock()
	return nil
}

func (a *App) onComplete(skipped bool) {
	a.mu.Lock()
	a.completed = true
	a.skipped = skipped
	a.mu.Unlock()

	if skipped {
		fmt.Fprintln(a.out, "Skipped. Encrypted chats stay locked until a key is set.")
	} else {
		fmt.Fprintln(a.out, "Encryption key saved.")
	}
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connection mode changed", "mode", string(mode))
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// StartOnlineStatusWatcher pings the server every interval and updates the
// connection mode until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.remote.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

func (a *App) getStatus() string {
	s := ""
	if a.account != nil && a.account.UserName != "" {
		s = a.account.UserName + " "
	}
	s += string(a.currentMode())
	if a.state.IsSet() {
		s += " key"
	}
	return fmt.Sprintf("(%s)", s)
}

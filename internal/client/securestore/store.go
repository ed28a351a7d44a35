package securestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/keygate/internal/client/keystate"
	"github.com/dmitrijs2005/keygate/internal/common"
	"github.com/dmitrijs2005/keygate/internal/cryptox"
	"github.com/dmitrijs2005/keygate/internal/dbx"
	"github.com/dmitrijs2005/keygate/internal/filex"
	"github.com/dmitrijs2005/keygate/internal/logging"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var ErrKeyNotSet = errors.New("encryption key is not set")

// Manager opens and deletes per-account stores under one directory.
type Manager struct {
	dir    string
	state  *keystate.State
	logger logging.Logger

	mu   sync.Mutex
	open map[string]*Store

	unsubscribe func()
}

// NewManager creates dir if needed and starts listening to state so that
// open stores are closed when the key is cleared.
func NewManager(dir string, state *keystate.State, l logging.Logger) (*Manager, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		dir:    abs,
		state:  state,
		logger: l.With("module", "securestore"),
		open:   make(map[string]*Store),
	}
	m.unsubscribe = state.Subscribe(func(k keystate.HashedKey) {
		if k == "" {
			m.closeAll(context.Background())
		}
	})
	return m, nil
}

func validateAccountID(accountID string) error {
	if accountID == "" || accountID == "." || accountID == ".." ||
		strings.ContainsAny(accountID, `/\`) || accountID != filepath.Base(accountID) {
		return fmt.Errorf("%w: %q", common.ErrorInvalidAccountID, accountID)
	}
	return nil
}

func (m *Manager) dbPath(accountID string) string {
	return filepath.Join(m.dir, accountID+".db")
}

// Open returns the account's store, creating and migrating the database on
// first use. Repeated calls return the same handle until it is closed.
func (m *Manager) Open(ctx context.Context, accountID string) (*Store, error) {
	if err := validateAccountID(accountID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.open[accountID]; ok {
		return s, nil
	}

	db, err := sql.Open("sqlite", m.dbPath(accountID))
	if err != nil {
		return nil, fmt.Errorf("open secure store: %w", err)
	}

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := dbx.Migrate(ctx, db, goose.DialectSQLite3, migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate secure store: %w", err)
	}

	s := &Store{accountID: accountID, db: db, state: m.state}
	m.open[accountID] = s
	m.logger.Debug(ctx, "secure store opened", "account", accountID)
	return s, nil
}

// DeleteAccountStore closes the account's store if open and removes its
// database files. Deleting a store that does not exist is not an error.
func (m *Manager) DeleteAccountStore(ctx context.Context, accountID string) error {
	if err := validateAccountID(accountID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.open[accountID]; ok {
		delete(m.open, accountID)
		if err := s.db.Close(); err != nil {
			m.logger.Warn(ctx, "closing secure store before delete", "account", accountID, "error", err)
		}
	}

	base := m.dbPath(accountID)
	if err := filex.RemoveIfExists(base, base+"-wal", base+"-shm", base+"-journal"); err != nil {
		return fmt.Errorf("delete secure store: %w", err)
	}

	m.logger.Info(ctx, "secure store deleted", "account", accountID)
	return nil
}

// Close closes every open store and stops listening to the key state.
func (m *Manager) Close() error {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m.closeAll(context.Background())
}

func (m *Manager) closeAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for id, s := range m.open {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", id, err))
		}
		delete(m.open, id)
	}
	if len(errs) == 0 {
		m.logger.Debug(ctx, "secure stores closed")
	}
	return errors.Join(errs...)
}

// Store is one account's encrypted entry table.
type Store struct {
	accountID string
	db        *sql.DB
	state     *keystate.State
}

func (s *Store) key() ([]byte, error) {
	hashed, ok := s.state.Get()
	if !ok {
		return nil, ErrKeyNotSet
	}
	return cryptox.DecodeHashedKey(hashed)
}

// Put encrypts v as JSON under the current key and stores it by name,
// replacing any previous value.
func (s *Store) Put(ctx context.Context, name string, v any) error {
	key, err := s.key()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	ciphertext, nonce, err := cryptox.EncryptEntry(v, key)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO secure_entries (id, name, ciphertext, nonce) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			ciphertext = excluded.ciphertext,
			nonce = excluded.nonce,
			updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), name, ciphertext, nonce)
	if err != nil {
		return fmt.Errorf("failed to put secure entry[%s]: %w", name, err)
	}
	return nil
}

// Get decrypts the entry stored under name into v. It returns
// common.ErrorNotFound when there is no such entry.
func (s *Store) Get(ctx context.Context, name string, v any) error {
	var ciphertext, nonce []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT ciphertext, nonce FROM secure_entries WHERE name = ?`, name).Scan(&ciphertext, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get secure entry[%s]: %w", name, err)
	}

	key, err := s.key()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	if err := cryptox.DecryptEntry(ciphertext, nonce, key, v); err != nil {
		return fmt.Errorf("decrypt %s: %w", name, err)
	}
	return nil
}

// Delete removes the entry stored under name, if any.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM secure_entries WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete secure entry[%s]: %w", name, err)
	}
	return nil
}

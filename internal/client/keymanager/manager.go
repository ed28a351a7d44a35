package keymanager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/keygate/internal/client/keystate"
	"github.com/dmitrijs2005/keygate/internal/common"
	"github.com/dmitrijs2005/keygate/internal/logging"
	"golang.org/x/sync/semaphore"
)

const resetPrompt = "Resetting the encryption key deletes all encrypted chats on this device and on the server. Continue?"

// Options wires a Manager. Hasher, Storage, State, Remote and Local are
// required; a nil Logger discards output.
type Options struct {
	Hasher  Hasher
	Storage KeyStorage
	State   *keystate.State
	Remote  RemoteInvalidator
	Local   LocalStore

	// Domain is appended to the user name to build the remote identity.
	Domain string
	Policy ResetPolicy

	// CallTimeout bounds the hashing, storage and remote calls of one Submit
	// or Reset. Waiting for the user's confirmation is not included. Zero
	// means no bound beyond the caller's context.
	CallTimeout time.Duration

	// OnComplete is called at most once, with skipped=true after Skip and
	// skipped=false after a successful Submit.
	OnComplete func(skipped bool)

	Logger logging.Logger
}

type Manager struct {
	hasher  Hasher
	storage KeyStorage
	state   *keystate.State
	remote  RemoteInvalidator
	local   LocalStore

	domain      string
	policy      ResetPolicy
	callTimeout time.Duration
	onComplete  func(skipped bool)

	guard     *semaphore.Weighted
	phase     atomic.Int32
	completed atomic.Bool

	log logging.Logger
}

func New(opts Options) (*Manager, error) {
	switch {
	case opts.Hasher == nil:
		return nil, errors.New("keymanager: hasher is required")
	case opts.Storage == nil:
		return nil, errors.New("keymanager: storage is required")
	case opts.State == nil:
		return nil, errors.New("keymanager: key state is required")
	case opts.Remote == nil:
		return nil, errors.New("keymanager: remote invalidator is required")
	case opts.Local == nil:
		return nil, errors.New("keymanager: local store is required")
	}

	l := opts.Logger
	if l == nil {
		l = logging.Discard()
	}

	return &Manager{
		hasher:      opts.Hasher,
		storage:     opts.Storage,
		state:       opts.State,
		remote:      opts.Remote,
		local:       opts.Local,
		domain:      opts.Domain,
		policy:      opts.Policy,
		callTimeout: opts.CallTimeout,
		onComplete:  opts.OnComplete,
		guard:       semaphore.NewWeighted(1),
		log:         l.With("module", "keymanager"),
	}, nil
}

func (m *Manager) Phase() Phase {
	return Phase(m.phase.Load())
}

// Completed reports whether OnComplete has already fired.
func (m *Manager) Completed() bool {
	return m.completed.Load()
}

func (m *Manager) enter(p Phase) bool {
	if !m.guard.TryAcquire(1) {
		return false
	}
	m.phase.Store(int32(p))
	return true
}

func (m *Manager) leave() {
	m.phase.Store(int32(Idle))
	m.guard.Release(1)
}

func (m *Manager) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.callTimeout)
}

func (m *Manager) complete(skipped bool) {
	if !m.completed.CompareAndSwap(false, true) {
		return
	}
	if m.onComplete != nil {
		m.onComplete(skipped)
	}
}

// Submit hashes raw, stores the result and publishes it to the key state,
// then signals completion. Submit owns raw and wipes it before returning.
func (m *Manager) Submit(ctx context.Context, raw []byte) error {
	defer common.WipeByteArray(raw)

	if m.completed.Load() {
		return ErrCompleted
	}
	if !m.enter(Submitting) {
		return ErrBusy
	}
	defer m.leave()

	if len(bytes.TrimSpace(raw)) == 0 {
		return ErrEmptyInput
	}

	ctx, cancel := m.callContext(ctx)
	defer cancel()

	hashed, err := m.hasher.Hash(ctx, raw)
	if err != nil {
		return fmt.Errorf("hash encryption key: %w", err)
	}

	err = m.state.Commit(ctx, hashed, func(ctx context.Context) error {
		return m.storage.Set(ctx, common.EncryptionKeyStorageKey, []byte(hashed))
	})
	if err != nil {
		return fmt.Errorf("persist encryption key: %w", err)
	}

	m.log.Info(ctx, "encryption key set", "fingerprint", common.Fingerprint(string(hashed)))
	m.complete(false)
	return nil
}

// Reset asks confirm and, if the user agrees, drops the key data of account
// on the server, deletes the account's local secure store and clears the
// stored key. A declined confirmation is not an error.
func (m *Manager) Reset(ctx context.Context, account *Account, confirm Confirmer) error {
	if account == nil {
		m.log.Debug(ctx, "reset ignored, no active account")
		return ErrNoActiveAccount
	}
	if confirm == nil {
		return errors.New("keymanager: confirmer is required")
	}
	if !m.guard.TryAcquire(1) {
		return ErrBusy
	}
	defer m.guard.Release(1)

	ok, err := confirm.Confirm(ctx, resetPrompt)
	if err != nil {
		return fmt.Errorf("confirm reset: %w", err)
	}
	if !ok {
		m.log.Debug(ctx, "reset declined")
		return nil
	}

	m.phase.Store(int32(Resetting))
	defer m.phase.Store(int32(Idle))

	ctx, cancel := m.callContext(ctx)
	defer cancel()

	identity := account.Identity(m.domain)
	log := m.log.With("account_id", account.ID)

	var remoteErr error
	if err := m.remote.ResetKeyData(ctx, identity); err != nil {
		remoteErr = fmt.Errorf("%w: %w", ErrRemoteFailure, err)
		if m.policy == AbortOnRemoteFailure {
			log.Warn(ctx, "remote key reset failed, local data kept", "error", err)
			return remoteErr
		}
		log.Warn(ctx, "remote key reset failed, clearing local data anyway", "error", err)
	}

	var localErr error
	if err := m.local.DeleteAccountStore(ctx, account.ID); err != nil {
		localErr = fmt.Errorf("%w: %w", ErrLocalStoreFailure, err)
		log.Error(ctx, "local secure store deletion failed", "error", err)
	}

	var clearErr error
	err = m.state.Commit(ctx, "", func(ctx context.Context) error {
		return m.storage.Delete(ctx, common.EncryptionKeyStorageKey)
	})
	if err != nil {
		clearErr = fmt.Errorf("%w: clear stored key: %w", ErrLocalStoreFailure, err)
		log.Error(ctx, "clearing stored encryption key failed", "error", err)
	}

	if joined := errors.Join(remoteErr, localErr, clearErr); joined != nil {
		return joined
	}
	log.Info(ctx, "encryption key reset")
	return nil
}

// Skip signals completion without a key. It never touches state or storage
// and does nothing once completion has fired.
func (m *Manager) Skip() {
	m.complete(true)
}

// Restore loads a previously stored key into the key state. A missing entry
// leaves the state untouched; an entry the hasher rejects is not loaded and
// ErrInvalidStoredKey is returned.
func (m *Manager) Restore(ctx context.Context) error {
	if !m.enter(Idle) {
		return ErrBusy
	}
	defer m.leave()

	v, err := m.storage.Get(ctx, common.EncryptionKeyStorageKey)
	if err != nil {
		return fmt.Errorf("load stored key: %w", err)
	}
	if len(v) == 0 {
		return nil
	}

	hashed := keystate.HashedKey(v)
	if err := m.hasher.Check(hashed); err != nil {
		m.log.Warn(ctx, "stored encryption key ignored", "error", err)
		return fmt.Errorf("%w: %w", ErrInvalidStoredKey, err)
	}
	if err := m.state.Commit(ctx, hashed, nil); err != nil {
		return err
	}
	m.log.Debug(ctx, "encryption key restored", "fingerprint", common.Fingerprint(string(hashed)))
	return nil
}

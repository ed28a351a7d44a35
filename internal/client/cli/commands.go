package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/keygate/internal/client/keymanager"
	"github.com/dmitrijs2005/keygate/internal/client/securestore"
	"github.com/dmitrijs2005/keygate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// note is what put/get keep in the secure store.
type note struct {
	Text    string    `json:"text"`
	SavedAt time.Time `json:"saved_at"`
}

// SetKey prompts for the passphrase without echo and submits it. After a
// skip the prompt is reopened; a key that is already set has to be reset
// first.
func (a *App) SetKey(ctx context.Context) error {
	if a.manager.Completed() {
		if a.state.IsSet() {
			fmt.Fprintln(a.out, "An encryption key is already set; use 'reset' to replace it.")
			return keymanager.ErrCompleted
		}
		if err := a.renewManager(); err != nil {
			return err
		}
	}

	raw, err := getPassword(a.out)
	if err != nil {
		return err
	}

	err = a.manager.Submit(ctx, raw)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keymanager.ErrEmptyInput):
		fmt.Fprintln(a.out, "Encryption key must not be empty.")
	case errors.Is(err, keymanager.ErrCompleted):
		fmt.Fprintln(a.out, "An encryption key is already set; use 'reset' to replace it.")
	case errors.Is(err, keymanager.ErrBusy):
		fmt.Fprintln(a.out, "Another key operation is running.")
	default:
		fmt.Fprintln(a.out, "Could not save encryption key:", err)
	}
	return err
}

// Reset asks for confirmation and resets key data for the configured account.
// Once the key is cleared a fresh prompt is opened so 'set' works again.
// The request timeout is applied by the manager after the user answered.
func (a *App) Reset(ctx context.Context) error {
	confirm := newPromptConfirmer(a.reader, a.out)
	err := a.manager.Reset(ctx, a.account, confirm)

	if !a.state.IsSet() && a.manager.Completed() {
		if rerr := a.renewManager(); rerr != nil {
			return errors.Join(err, rerr)
		}
	}

	switch {
	case err == nil:
		if !a.state.IsSet() {
			fmt.Fprintln(a.out, "Encryption key reset. Use 'set' to enter a new one.")
		}
		return nil
	case errors.Is(err, keymanager.ErrNoActiveAccount):
		fmt.Fprintln(a.out, "No active account.")
	case errors.Is(err, keymanager.ErrRemoteFailure) && a.state.IsSet():
		fmt.Fprintln(a.out, "Server reset failed, nothing was deleted:", err)
	default:
		fmt.Fprintln(a.out, "Reset finished with errors:", err)
	}
	return err
}

func (a *App) Skip(ctx context.Context) error {
	a.manager.Skip()
	return nil
}

// Status prints key, account and connection state.
func (a *App) Status(ctx context.Context) error {
	if k, ok := a.state.Get(); ok {
		fmt.Fprintf(a.out, "key:     set (%s)%s\n", common.Fingerprint(string(k)), a.storedAt(ctx))
	} else {
		fmt.Fprintln(a.out, "key:     not set")
	}
	if a.account != nil {
		fmt.Fprintf(a.out, "account: %s (%s)\n", a.account.Identity(a.config.Domain), a.account.ID)
	} else {
		fmt.Fprintln(a.out, "account: none")
	}
	fmt.Fprintf(a.out, "server:  %s\n", a.currentMode())
	fmt.Fprintf(a.out, "phase:   %s\n", a.manager.Phase())
	return nil
}

func (a *App) storedAt(ctx context.Context) string {
	if a.stamps == nil {
		return ""
	}
	at, ok, err := a.stamps.UpdatedAt(ctx, common.EncryptionKeyStorageKey)
	if err != nil {
		a.logger.Warn(ctx, "cannot read key timestamp", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return ", stored " + at.Local().Format(time.DateTime)
}

func (a *App) openStore(ctx context.Context) (*securestore.Store, error) {
	if a.account == nil {
		fmt.Fprintln(a.out, "No active account.")
		return nil, keymanager.ErrNoActiveAccount
	}
	if !a.state.IsSet() {
		fmt.Fprintln(a.out, "Set the encryption key first.")
		return nil, securestore.ErrKeyNotSet
	}
	return a.stores.Open(ctx, a.account.ID)
}

// Put stores an encrypted note under name.
func (a *App) Put(ctx context.Context, name string) error {
	if name == "" {
		fmt.Fprintln(a.out, "Usage: put <name>")
		return nil
	}
	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	text, err := getSimpleText(a.reader, "Enter text", a.out)
	if err != nil {
		return err
	}

	if err := s.Put(ctx, name, note{Text: text, SavedAt: time.Now().UTC()}); err != nil {
		fmt.Fprintln(a.out, "Could not save:", err)
		return err
	}
	fmt.Fprintln(a.out, "Saved.")
	return nil
}

// Get prints the note stored under name.
func (a *App) Get(ctx context.Context, name string) error {
	if name == "" {
		fmt.Fprintln(a.out, "Usage: get <name>")
		return nil
	}
	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	var n note
	if err := s.Get(ctx, name, &n); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fmt.Fprintln(a.out, "Not found.")
		} else {
			fmt.Fprintln(a.out, "Could not read:", err)
		}
		return err
	}
	fmt.Fprintf(a.out, "%s (saved %s)\n", n.Text, n.SavedAt.Format(time.RFC3339))
	return nil
}

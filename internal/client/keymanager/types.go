package keymanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/keygate/internal/client/keystate"
)

// Account is the signed-in account a reset applies to.
type Account struct {
	ID       string
	UserName string
}

// Identity returns the remote identity of the account, "<userName>@<domain>".
func (a Account) Identity(domain string) string {
	return a.UserName + "@" + domain
}

// Hasher turns a raw passphrase into the stored credential. It must be
// deterministic for a given configuration. Check reports whether k has the
// shape Hash produces.
type Hasher interface {
	Hash(ctx context.Context, raw []byte) (keystate.HashedKey, error)
	Check(k keystate.HashedKey) error
}

// RemoteInvalidator drops the key data held by the server for an identity.
type RemoteInvalidator interface {
	ResetKeyData(ctx context.Context, identity string) error
}

// LocalStore removes the encrypted local database of an account.
type LocalStore interface {
	DeleteAccountStore(ctx context.Context, accountID string) error
}

// KeyStorage is the durable key/value storage holding the hashed key.
// Get returns (nil, nil) when the key is absent.
type KeyStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

type Phase int32

const (
	Idle Phase = iota
	Submitting
	Resetting
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Resetting:
		return "resetting"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// ResetPolicy decides what Reset does when the server call fails.
type ResetPolicy int

const (
	// AbortOnRemoteFailure keeps all local data so the reset can be retried.
	AbortOnRemoteFailure ResetPolicy = iota
	// ContinueOnRemoteFailure clears local data anyway and reports the
	// remote error afterwards.
	ContinueOnRemoteFailure
)

func (p ResetPolicy) String() string {
	switch p {
	case AbortOnRemoteFailure:
		return "abort"
	case ContinueOnRemoteFailure:
		return "continue"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseResetPolicy accepts "abort" or "continue" (case-insensitive).
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "abort", "":
		return AbortOnRemoteFailure, nil
	case "continue":
		return ContinueOnRemoteFailure, nil
	default:
		return 0, fmt.Errorf("unknown reset policy %q", s)
	}
}

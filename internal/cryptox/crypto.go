// Package cryptox holds the client's cryptographic primitives: argon2id
// passphrase hashing and AES-GCM sealing of JSON entries.
package cryptox

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/keygate/internal/client/keystate"
	"github.com/dmitrijs2005/keygate/internal/common"
	"golang.org/x/crypto/argon2"
)

// DefaultHashSalt is the domain-separation salt of the current hashing
// version. Changing it changes every HashedKey, so it is versioned.
const DefaultHashSalt = "keygate/encryption-key/v1"

// KeySize is the length in bytes of a derived key.
const KeySize = 32

var ErrInvalidHashedKey = errors.New("invalid hashed key")

func DeriveMasterKey(password []byte, salt []byte) []byte {
	x := argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
	return x
}

// PasswordHasher turns a raw passphrase into a HashedKey. The same passphrase
// and salt always yield the same HashedKey.
type PasswordHasher struct {
	salt []byte
}

// NewPasswordHasher returns a hasher using salt, or DefaultHashSalt when
// salt is empty.
func NewPasswordHasher(salt string) *PasswordHasher {
	if salt == "" {
		salt = DefaultHashSalt
	}
	return &PasswordHasher{salt: []byte(salt)}
}

// Hash derives the HashedKey for raw. It does not modify raw.
// argon2 cannot be interrupted, so ctx is only checked before starting.
func (h *PasswordHasher) Hash(ctx context.Context, raw []byte) (keystate.HashedKey, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := DeriveMasterKey(raw, h.salt)
	defer common.WipeByteArray(key)
	return keystate.HashedKey(hex.EncodeToString(key)), nil
}

// Check reports whether k decodes to a key of KeySize bytes.
func (h *PasswordHasher) Check(k keystate.HashedKey) error {
	b, err := DecodeHashedKey(k)
	if err != nil {
		return err
	}
	common.WipeByteArray(b)
	return nil
}

// DecodeHashedKey returns the raw AES key behind a HashedKey.
// The caller should wipe the result after use.
func DecodeHashedKey(k keystate.HashedKey) ([]byte, error) {
	b, err := hex.DecodeString(string(k))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHashedKey, err)
	}
	if len(b) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidHashedKey, KeySize, len(b))
	}
	return b, nil
}

// EncryptEntry serializes entry to JSON and seals it with AES-GCM under key.
//
// The key must be 16, 24, or 32 bytes long. A fresh random 12-byte nonce is
// generated for each call and returned next to the ciphertext.
func EncryptEntry(entry any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(plaintext)

	nonce = make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// DecryptEntry opens ciphertext produced by EncryptEntry and unmarshals the
// JSON into v. A wrong key or nonce, or tampered ciphertext, yields an error.
func DecryptEntry(ciphertext, nonce, key []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

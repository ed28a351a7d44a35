// Package metadata is the client's durable key/value storage. It survives
// restarts and holds the hashed encryption key under
// common.EncryptionKeyStorageKey.
package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/keygate/internal/dbx"
)

// Store keeps values in the `metadata` table created by the client
// migrations. It works on a *sql.DB or inside a transaction.
//
// Get returns (nil, nil) for a missing key; Delete of a missing key is not
// an error.
type Store struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewStore(db dbx.DBTX) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

// Set inserts or replaces the value of key and stamps it with the current time.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

// UpdatedAt reports when key was last written. ok is false when the key is
// absent.
func (s *Store) UpdatedAt(ctx context.Context, key string) (t time.Time, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT updated_at FROM metadata WHERE key = ?`, key).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to stat metadata[%s]: %w", key, err)
	}
	return t.UTC(), true, nil
}

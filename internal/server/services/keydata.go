// Package services holds the server's application logic.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/keygate/internal/common"
	"github.com/dmitrijs2005/keygate/internal/dbx"
	"github.com/dmitrijs2005/keygate/internal/logging"
	"github.com/dmitrijs2005/keygate/internal/server/repositories/repomanager"
)

// BlobStore deletes objects by key.
type BlobStore interface {
	Delete(ctx context.Context, keys []string) error
}

type KeyDataService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       BlobStore
	logger      logging.Logger
}

func NewKeyDataService(db *sql.DB, rm repomanager.RepositoryManager, blobs BlobStore, l logging.Logger) *KeyDataService {
	return &KeyDataService{
		db:          db,
		repomanager: rm,
		blobs:       blobs,
		logger:      l.With("module", "keydata"),
	}
}

// ValidateIdentity accepts "<userName>@<domain>" with both parts non-empty
// and no whitespace.
func ValidateIdentity(identity string) error {
	user, domain, ok := strings.Cut(identity, "@")
	if !ok || user == "" || domain == "" || strings.Contains(domain, "@") ||
		strings.ContainsFunc(identity, isSpace) {
		return fmt.Errorf("%w: %q", common.ErrorInvalidIdentity, identity)
	}
	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// ResetKeyData removes every key package and key backup of identity. Rows
// are deleted in one transaction; backup blobs are deleted after commit.
// Resetting an identity without key data succeeds.
func (s *KeyDataService) ResetKeyData(ctx context.Context, identity string) error {
	if err := ValidateIdentity(identity); err != nil {
		return err
	}

	var packages int64
	var backupKeys []string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		packages, err = s.repomanager.KeyPackages(tx).DeleteByIdentity(ctx, identity)
		if err != nil {
			return fmt.Errorf("delete key packages: %w", err)
		}
		backupKeys, err = s.repomanager.KeyBackups(tx).DeleteByIdentity(ctx, identity)
		if err != nil {
			return fmt.Errorf("delete key backups: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(backupKeys) > 0 {
		if err := s.blobs.Delete(ctx, backupKeys); err != nil {
			s.logger.Error(ctx, "key backup blobs left behind", "identity", identity, "count", len(backupKeys), "error", err)
			return fmt.Errorf("delete key backup blobs: %w", err)
		}
	}

	s.logger.Info(ctx, "key data reset", "identity", identity, "key_packages", packages, "key_backups", len(backupKeys))
	return nil
}

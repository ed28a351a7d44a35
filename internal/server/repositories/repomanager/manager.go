package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/keygate/internal/dbx"
	"github.com/dmitrijs2005/keygate/internal/server/repositories/keybackups"
	"github.com/dmitrijs2005/keygate/internal/server/repositories/keypackages"
)

// RepositoryManager vends repositories bound to a *sql.DB or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	KeyPackages(db dbx.DBTX) keypackages.Repository
	KeyBackups(db dbx.DBTX) keybackups.Repository
}

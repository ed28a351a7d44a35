// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/dmitrijs2005/keygate/internal/dbx"
	"github.com/dmitrijs2005/keygate/internal/server/migrations"
	"github.com/dmitrijs2005/keygate/internal/server/repositories/keybackups"
	"github.com/dmitrijs2005/keygate/internal/server/repositories/keypackages"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) KeyPackages(db dbx.DBTX) keypackages.Repository {
	return keypackages.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) KeyBackups(db dbx.DBTX) keybackups.Repository {
	return keybackups.NewPostgresRepository(db)
}

// migrate is a seam for testing dbx.Migrate.
var migrate = func(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS) (int, error) {
	return dbx.Migrate(ctx, db, dialect, fsys)
}

// RunMigrations applies the embedded server migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := migrate(ctx, db, goose.DialectPostgres, migrations.FS); err != nil {
		return err
	}
	return nil
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// OpenDB opens a pgx-backed *sql.DB for dsn and checks it is reachable.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

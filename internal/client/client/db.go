package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/keygate/internal/client/migrations"
	"github.com/dmitrijs2005/keygate/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// metadataPragmas are applied by the driver to every new connection.
const metadataPragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

// SQLiteDSN turns a file path into a modernc.org/sqlite DSN carrying the
// metadata database pragmas.
func SQLiteDSN(path string) string {
	return "file:" + path + "?" + metadataPragmas
}

// RunMigrations applies the embedded metadata migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := dbx.Migrate(ctx, db, goose.DialectSQLite3, migrations.FS); err != nil {
		return err
	}
	return nil
}

// InitDatabase opens the metadata database stored at path and brings its
// schema up to date. The caller owns the returned handle.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return db, nil
}

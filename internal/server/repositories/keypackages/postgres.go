package keypackages

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/keygate/internal/dbx"
)

// PostgresRepository works over dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) DeleteByIdentity(ctx context.Context, identity string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM key_packages WHERE identity = $1`, identity)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

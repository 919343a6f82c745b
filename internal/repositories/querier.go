package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Storage is the connection pool the repositories are built on.
type Storage interface {
	Querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// querierFor returns tx when the caller runs inside a transaction, the pool otherwise.
func querierFor(storage Storage, tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return storage
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

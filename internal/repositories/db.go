package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the statement surface shared by a pool and a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Database is satisfied by *pgxpool.Pool and pgxmock.PgxPoolIface.
type Database interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Advisory lock keys. Every mutation that rewrites an ordering scope takes the
// lock for its table so concurrent reorders cannot interleave.
const (
	categoriesLockKey int64 = 71001
	linksLockKey      int64 = 71002
)

const lockQuery = `SELECT pg_advisory_xact_lock($1)`

// withTx runs fn inside a transaction, committing on success and rolling back
// on error or panic.
func withTx(ctx context.Context, db Database, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if err = tx.Commit(ctx); err != nil {
			err = fmt.Errorf("commit transaction: %w", err)
		}
	}()

	return fn(tx)
}

func lockTable(ctx context.Context, q Querier, key int64) error {
	if _, err := q.Exec(ctx, lockQuery, key); err != nil {
		return fmt.Errorf("acquire ordering lock: %w", err)
	}
	return nil
}

// renumberScope rewrites sort_order of one scope to 0..n-1, keeping the
// current (sort_order, id) order. A nil scope selects rows whose scope column
// is NULL.
func renumberScope(ctx context.Context, q Querier, table, scopeColumn string, scope *int64) error {
	query := fmt.Sprintf(`
		UPDATE %[1]s AS t SET sort_order = o.rn - 1
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY sort_order, id) AS rn
			FROM %[1]s
			WHERE %[2]s IS NOT DISTINCT FROM $1
		) AS o
		WHERE t.id = o.id AND t.sort_order <> o.rn - 1
	`, table, scopeColumn)
	if _, err := q.Exec(ctx, query, scope); err != nil {
		return fmt.Errorf("renumber %s: %w", table, err)
	}
	return nil
}

// shiftScope makes room at position by moving every sibling at or after it
// down one slot. excludeID is skipped (0 for none).
func shiftScope(ctx context.Context, q Querier, table, scopeColumn string, scope *int64, position int, excludeID int64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET sort_order = sort_order + 1
		WHERE %s IS NOT DISTINCT FROM $1 AND sort_order >= $2 AND id <> $3
	`, table, scopeColumn)
	if _, err := q.Exec(ctx, query, scope, position, excludeID); err != nil {
		return fmt.Errorf("shift %s: %w", table, err)
	}
	return nil
}

// nextSortOrder returns the slot after the last sibling of a scope.
func nextSortOrder(ctx context.Context, q Querier, table, scopeColumn string, scope *int64) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(sort_order) + 1, 0) FROM %s WHERE %s IS NOT DISTINCT FROM $1
	`, table, scopeColumn)
	var next int
	if err := q.QueryRow(ctx, query, scope).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sort order for %s: %w", table, err)
	}
	return next, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func sameScope(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Table describes how one entity collection maps onto its local table:
// the table name, the column list, and the bind/scan functions converting
// between a model value and its column values. One descriptor serves every
// generic repository operation, so adding a collection means adding one
// descriptor and one migration, nothing else.
type Table[T any] struct {
	// Name is the SQL table name.
	Name string
	// Columns lists every column in bind/scan order.
	Columns []string
	// ID extracts the primary-key value from a model.
	ID func(v T) string
	// Args flattens a model into column values, matching Columns order.
	Args func(v T) []any
	// Scan reads one row into a model, matching Columns order.
	Scan func(s rowScanner) (T, error)
}

// TableRepo is the generic local repository for one entity collection.
// All writes are durable before any remote attempt is made by the sync
// layer; errors from this type are therefore surfaced, never swallowed.
type TableRepo[T any] struct {
	db *DB
	t  Table[T]
}

// NewTableRepo constructs a repository bound to one table descriptor.
func NewTableRepo[T any](db *DB, t Table[T]) *TableRepo[T] {
	return &TableRepo[T]{db: db, t: t}
}

// List returns every row of the table.
func (r *TableRepo[T]) List(ctx context.Context) ([]T, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select(r.t.Columns...).From(r.t.Name).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "TableRepo.List").
			Str("table", r.t.Name).
			Msg("failed to execute query for listing rows")
		return nil, fmt.Errorf("failed to query %s rows: %w", r.t.Name, err)
	}
	defer rows.Close()

	return scanRows(rows, r.t)
}

// Get returns the row with the given id, or [ErrNotFound].
func (r *TableRepo[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	log := logger.FromContext(ctx)

	query, args, err := sq.Select(r.t.Columns...).
		From(r.t.Name).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	item, err := r.t.Scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		log.Err(err).
			Str("func", "TableRepo.Get").
			Str("table", r.t.Name).
			Str("id", id).
			Msg("failed to scan row")
		return zero, fmt.Errorf("failed to scan %s row: %w", r.t.Name, err)
	}

	return item, nil
}

// Upsert inserts the row or replaces the existing row with the same id.
func (r *TableRepo[T]) Upsert(ctx context.Context, v T) error {
	log := logger.FromContext(ctx)

	if err := upsertExec(ctx, r.db.DB, r.t, v); err != nil {
		log.Err(err).
			Str("func", "TableRepo.Upsert").
			Str("table", r.t.Name).
			Str("id", r.t.ID(v)).
			Msg("failed to execute upsert")
		return err
	}

	return nil
}

// UpsertMany inserts or replaces all rows inside one transaction.
func (r *TableRepo[T]) UpsertMany(ctx context.Context, vs []T) error {
	if len(vs) == 0 {
		return nil
	}

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		for _, v := range vs {
			if err := upsertExec(ctx, tx, r.t, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceAll clears the table and bulk-inserts rows in one transaction.
// This is the local half of "remote non-empty result replaces the cache".
func (r *TableRepo[T]) ReplaceAll(ctx context.Context, vs []T) error {
	log := logger.FromContext(ctx)

	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		return replaceAllTx(ctx, tx, r.t, vs)
	})
	if err != nil {
		log.Err(err).
			Str("func", "TableRepo.ReplaceAll").
			Str("table", r.t.Name).
			Int("rows", len(vs)).
			Msg("failed to replace table contents")
		return err
	}

	return nil
}

// Delete removes the row with the given id. Deleting an absent row is not
// an error.
func (r *TableRepo[T]) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Delete(r.t.Name).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "TableRepo.Delete").
			Str("table", r.t.Name).
			Str("id", id).
			Msg("failed to execute delete")
		return fmt.Errorf("failed to delete %s row (id=%s): %w", r.t.Name, id, err)
	}

	return nil
}

// Count returns the number of rows in the table.
func (r *TableRepo[T]) Count(ctx context.Context) (int, error) {
	var n int
	query, args, err := sq.Select("COUNT(*)").From(r.t.Name).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s rows: %w", r.t.Name, err)
	}

	return n, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertExec[T any](ctx context.Context, db execer, t Table[T], v T) error {
	query, args, err := sq.Insert(t.Name).
		Options("OR REPLACE").
		Columns(t.Columns...).
		Values(t.Args(v)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save %s row (id=%s): %w", t.Name, t.ID(v), err)
	}

	return nil
}

func replaceAllTx[T any](ctx context.Context, tx *sql.Tx, t Table[T], vs []T) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.Name); err != nil {
		return fmt.Errorf("failed to clear %s: %w", t.Name, err)
	}

	for _, v := range vs {
		if err := upsertExec(ctx, tx, t, v); err != nil {
			return err
		}
	}

	return nil
}

func scanRows[T any](rows *sql.Rows, t Table[T]) ([]T, error) {
	var items []T

	for rows.Next() {
		item, err := t.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.Name, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", t.Name, err)
	}

	return items, nil
}

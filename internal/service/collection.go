// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Atomixxxx/cuisine-app/internal/gateway"
	"github.com/Atomixxxx/cuisine-app/internal/logger"
)

// LocalTable is the local persistence surface of one collection.
// Satisfied by [store.TableRepo].
type LocalTable[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Upsert(ctx context.Context, v T) error
	ReplaceAll(ctx context.Context, vs []T) error
	Delete(ctx context.Context, id string) error
}

// RemoteTable is the remote transport surface of one collection.
// Satisfied by [gateway.Gateway].
type RemoteTable interface {
	IsConfigured() bool
	FetchRows(ctx context.Context, table string, q gateway.Query) (json.RawMessage, error)
	UpsertRows(ctx context.Context, table string, rows any, onConflict []string) (json.RawMessage, error)
	DeleteRows(ctx context.Context, table string, filters map[string]string) error
}

// Collection binds one entity collection to its local table and remote
// table and implements the uniform read and write protocol shared by every
// collection. The local table is the cache of record; the remote side is
// only ever best-effort on writes.
type Collection[T any] struct {
	table  string
	local  LocalTable[T]
	remote RemoteTable
	logger *logger.Logger

	id func(T) string
	// sanitize, when set, is applied to every value before it is written.
	sanitize func(T) T
	// merge, when set, resolves a fetched remote row against the local row
	// with the same id before the remote rows replace the local table.
	merge func(remote, local T) T
	// order is the remote fetch sort expression, e.g. "created_at.desc".
	order string
	// conflict names the remote merge columns when the collection does not
	// merge on the primary key, e.g. a natural key like lookup_key.
	conflict []string
}

// NewCollection constructs a collection bound to a remote table name.
func NewCollection[T any](table string, local LocalTable[T], remote RemoteTable, log *logger.Logger, id func(T) string) *Collection[T] {
	return &Collection[T]{
		table:  table,
		local:  local,
		remote: remote,
		logger: log,
		id:     id,
	}
}

// WithSanitize sets the pre-write sanitize hook.
func (c *Collection[T]) WithSanitize(fn func(T) T) *Collection[T] {
	c.sanitize = fn
	return c
}

// WithMerge sets the remote-over-local merge hook.
func (c *Collection[T]) WithMerge(fn func(remote, local T) T) *Collection[T] {
	c.merge = fn
	return c
}

// WithOrder sets the remote fetch sort expression.
func (c *Collection[T]) WithOrder(order string) *Collection[T] {
	c.order = order
	return c
}

// WithConflictKeys sets the remote merge columns for upserts.
func (c *Collection[T]) WithConflictKeys(columns ...string) *Collection[T] {
	c.conflict = columns
	return c
}

// List returns the collection, reconciling remote and local state:
//
//   - remote disabled: local rows.
//   - remote unreachable: local rows; the failure is logged, not surfaced.
//   - remote non-empty: remote rows replace the local table (after the merge
//     hook) and are returned.
//   - remote empty, local non-empty: every local row is pushed best-effort
//     (the remote table is assumed fresh) and local rows are returned.
//   - both empty: nil.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	if !c.remote.IsConfigured() {
		return c.local.List(ctx)
	}

	remote, ok := c.fetchRemote(ctx)
	if !ok {
		return c.local.List(ctx)
	}

	if len(remote) > 0 {
		remote = c.mergeAll(ctx, remote)
		if err := c.local.ReplaceAll(ctx, remote); err != nil {
			return nil, fmt.Errorf("replace local %s: %w", c.table, err)
		}
		return remote, nil
	}

	locals, err := c.local.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(locals) > 0 {
		c.seedRemote(ctx, locals)
	}

	return locals, nil
}

// Get returns one row from the local table.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	return c.local.Get(ctx, id)
}

// Add writes a new value: sanitize, durable local write, best-effort remote
// upsert. A remote failure is never surfaced.
func (c *Collection[T]) Add(ctx context.Context, v T) (T, error) {
	return c.save(ctx, v)
}

// Update writes a changed value under the same protocol as Add.
func (c *Collection[T]) Update(ctx context.Context, v T) (T, error) {
	return c.save(ctx, v)
}

func (c *Collection[T]) save(ctx context.Context, v T) (T, error) {
	if c.sanitize != nil {
		v = c.sanitize(v)
	}

	if err := c.local.Upsert(ctx, v); err != nil {
		var zero T
		return zero, fmt.Errorf("save local %s row: %w", c.table, err)
	}

	c.bestEffort(ctx, "push "+c.table+" row", func() error {
		raw, err := c.remote.UpsertRows(ctx, c.table, []T{v}, c.conflict)
		if err != nil {
			return err
		}
		v = c.adoptRepresentation(ctx, v, raw)
		return nil
	})

	return v, nil
}

// adoptRepresentation overwrites the just-written local row with the
// server's canonical representation when the upsert returned one.
func (c *Collection[T]) adoptRepresentation(ctx context.Context, v T, raw json.RawMessage) T {
	if len(raw) == 0 {
		return v
	}

	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil || len(rows) == 0 {
		return v
	}

	canonical := rows[0]
	if err := c.local.Upsert(ctx, canonical); err != nil {
		c.logger.Warn().Err(err).
			Str("func", "Collection.adoptRepresentation").
			Str("table", c.table).
			Msg("failed to adopt server row, keeping local version")
		return v
	}

	return canonical
}

// Delete removes the row locally, then best-effort remotely.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.local.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete local %s row: %w", c.table, err)
	}

	c.bestEffort(ctx, "delete remote "+c.table+" row", func() error {
		return c.remote.DeleteRows(ctx, c.table, map[string]string{"id": gateway.Eq(id)})
	})

	return nil
}

// fetchRemote reads all remote rows. The second return is false when the
// remote read failed for any reason; the caller falls back to local state.
func (c *Collection[T]) fetchRemote(ctx context.Context) ([]T, bool) {
	raw, err := c.remote.FetchRows(ctx, c.table, gateway.Query{Order: c.order})
	if err != nil {
		c.logger.Warn().Err(err).
			Str("func", "Collection.fetchRemote").
			Str("table", c.table).
			Msg("remote fetch failed, serving local rows")
		return nil, false
	}

	var rows []T
	if err = json.Unmarshal(raw, &rows); err != nil {
		c.logger.Warn().Err(err).
			Str("func", "Collection.fetchRemote").
			Str("table", c.table).
			Msg("remote rows undecodable, serving local rows")
		return nil, false
	}

	return rows, true
}

func (c *Collection[T]) mergeAll(ctx context.Context, remote []T) []T {
	if c.merge == nil {
		return remote
	}

	locals, err := c.local.List(ctx)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("func", "Collection.mergeAll").
			Str("table", c.table).
			Msg("local rows unavailable for merge, keeping remote rows as-is")
		return remote
	}

	index := make(map[string]T, len(locals))
	for _, v := range locals {
		index[c.id(v)] = v
	}

	for i, r := range remote {
		if l, ok := index[c.id(r)]; ok {
			remote[i] = c.merge(r, l)
		}
	}

	return remote
}

// seedRemote pushes every local row to an empty remote table. Per-row
// failures are logged and skipped so one bad row cannot block the rest.
func (c *Collection[T]) seedRemote(ctx context.Context, locals []T) {
	c.logger.Warn().
		Str("func", "Collection.seedRemote").
		Str("table", c.table).
		Int("rows", len(locals)).
		Msg("remote table empty, seeding from local rows")

	for _, v := range locals {
		row := v
		c.bestEffort(ctx, "seed "+c.table+" row", func() error {
			_, err := c.remote.UpsertRows(ctx, c.table, []T{row}, c.conflict)
			return err
		})
	}
}

// bestEffort runs fn and reports whether it succeeded. A failure is logged
// under the task tag and otherwise swallowed; callers of the collection
// never see a network error from a CRUD operation.
func (c *Collection[T]) bestEffort(ctx context.Context, task string, fn func() error) bool {
	if !c.remote.IsConfigured() {
		return false
	}

	if err := fn(); err != nil {
		c.logger.Warn().Err(err).
			Str("func", "Collection.bestEffort").
			Str("task", task).
			Msg("best-effort remote call failed")
		return false
	}

	return true
}

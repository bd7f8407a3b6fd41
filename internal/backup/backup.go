// SPDX-License-Identifier: Apache-2.0

// Package backup implements snapshot export, validated import, and the
// idempotent weekly auto-backup.
//
// A snapshot is the JSON rendition of [models.Snapshot]: every entity
// collection plus a format version and export timestamp. Raw invoice and
// trace image payloads are dropped on export; remote-hosted image URLs are
// kept, so cloud-backed media survives a device loss. Import validates the
// whole file structurally and rejects it as a unit on any mismatch.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// kv keys. The legacy keys are where releases before the snapshot
// versioning kept their marker and payload.
const (
	keyBackupWeek     = "last_backup_week"
	keyBackupSnapshot = "weekly_backup"

	legacyKeyBackupWeek     = "lastBackupWeek"
	legacyKeyBackupSnapshot = "autoBackup"
)

// Weekly run outcomes.
const (
	ResultDone    = "done"
	ResultSkipped = "skipped"
)

// ErrInvalidSnapshot rejects an import whose structure does not match the
// expected format. The import is all-or-nothing: one bad row rejects the
// whole file.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Engine owns backup export, import and the weekly auto-backup.
type Engine struct {
	storages *store.Storages
	logger   *logger.Logger
}

// NewEngine constructs a backup engine over the local store.
func NewEngine(storages *store.Storages, log *logger.Logger) *Engine {
	return &Engine{storages: storages, logger: log}
}

// Export builds a snapshot of every collection from the local cache. Raw
// image payloads are dropped; hosted URLs are kept.
func (e *Engine) Export(ctx context.Context) (models.Snapshot, error) {
	snap := models.Snapshot{
		Version:    models.SnapshotVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}

	var err error
	if snap.Equipment, err = e.storages.Equipment.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export equipment: %w", err)
	}
	if snap.TemperatureRecords, err = e.storages.TemperatureRecords.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export temperature records: %w", err)
	}
	if snap.OilChangeRecords, err = e.storages.OilChangeRecords.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export oil change records: %w", err)
	}
	if snap.Tasks, err = e.storages.Tasks.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export tasks: %w", err)
	}
	if snap.ProductTraces, err = e.storages.ProductTraces.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export product traces: %w", err)
	}
	if snap.Invoices, err = e.storages.Invoices.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export invoices: %w", err)
	}
	if snap.PriceHistory, err = e.storages.PriceHistory.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export price history: %w", err)
	}
	if snap.Ingredients, err = e.storages.Ingredients.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export ingredients: %w", err)
	}
	if snap.Recipes, err = e.storages.Recipes.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export recipes: %w", err)
	}
	if snap.RecipeIngredients, err = e.storages.RecipeIngredients.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export recipe lines: %w", err)
	}
	if snap.SupplierProductMappings, err = e.storages.SupplierMappings.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export supplier mappings: %w", err)
	}
	if snap.Orders, err = e.storages.Orders.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export orders: %w", err)
	}
	if snap.Settings, err = e.storages.Settings.List(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("export settings: %w", err)
	}

	for i := range snap.Invoices {
		snap.Invoices[i].Images = nil
	}
	for i := range snap.ProductTraces {
		snap.ProductTraces[i].Images = nil
	}

	return snap, nil
}

// ExportJSON renders the snapshot as indented JSON.
func (e *Engine) ExportJSON(ctx context.Context) ([]byte, error) {
	snap, err := e.Export(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, nil
}

// Restore replaces every collection with the snapshot contents in one
// transaction. The kv table (pin lock, session, backup markers) is
// untouched.
func (e *Engine) Restore(ctx context.Context, snap models.Snapshot) error {
	return e.storages.Restore.RestoreSnapshot(ctx, snap)
}

// Import validates raw snapshot JSON and restores it. Any structural
// mismatch rejects the whole file.
func (e *Engine) Import(ctx context.Context, raw []byte) error {
	snap, err := Validate(raw)
	if err != nil {
		return err
	}
	return e.Restore(ctx, *snap)
}

// RunWeekly persists a snapshot to the kv store once per ISO calendar week.
// Returns [ResultSkipped] when this week's backup already exists, otherwise
// [ResultDone]. Legacy marker and payload locations are migrated on first
// access.
func (e *Engine) RunWeekly(ctx context.Context, now time.Time) (string, error) {
	if err := e.migrateLegacyKeys(ctx); err != nil {
		return "", err
	}

	week := isoWeek(now)

	last, err := e.storages.KV.Get(ctx, keyBackupWeek)
	if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		return "", fmt.Errorf("read backup marker: %w", err)
	}
	if last == week {
		return ResultSkipped, nil
	}

	raw, err := e.ExportJSON(ctx)
	if err != nil {
		return "", err
	}

	if err = e.storages.KV.Put(ctx, keyBackupSnapshot, string(raw)); err != nil {
		return "", fmt.Errorf("save weekly snapshot: %w", err)
	}
	if err = e.storages.KV.Put(ctx, keyBackupWeek, week); err != nil {
		return "", fmt.Errorf("save backup marker: %w", err)
	}

	e.logger.Info().
		Str("func", "Engine.RunWeekly").
		Str("week", week).
		Msg("weekly backup written")

	return ResultDone, nil
}

// LatestWeekly returns the stored weekly snapshot JSON, or nil when none
// has been written yet.
func (e *Engine) LatestWeekly(ctx context.Context) ([]byte, error) {
	raw, err := e.storages.KV.Get(ctx, keyBackupSnapshot)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read weekly snapshot: %w", err)
	}
	return []byte(raw), nil
}

// migrateLegacyKeys moves the pre-versioning marker and payload to their
// current keys. Existing current keys win.
func (e *Engine) migrateLegacyKeys(ctx context.Context) error {
	for _, pair := range [][2]string{
		{legacyKeyBackupWeek, keyBackupWeek},
		{legacyKeyBackupSnapshot, keyBackupSnapshot},
	} {
		legacy, current := pair[0], pair[1]

		value, err := e.storages.KV.Get(ctx, legacy)
		if err != nil {
			if errors.Is(err, store.ErrKeyNotFound) {
				continue
			}
			return fmt.Errorf("read legacy key %s: %w", legacy, err)
		}

		_, err = e.storages.KV.Get(ctx, current)
		switch {
		case errors.Is(err, store.ErrKeyNotFound):
			if err = e.storages.KV.Put(ctx, current, value); err != nil {
				return fmt.Errorf("migrate legacy key %s: %w", legacy, err)
			}
		case err != nil:
			// the legacy value must not be deleted before it is known
			// to be safe at its current location
			return fmt.Errorf("read current key %s: %w", current, err)
		}
		if err = e.storages.KV.Delete(ctx, legacy); err != nil {
			return fmt.Errorf("delete legacy key %s: %w", legacy, err)
		}
	}

	return nil
}

// isoWeek renders now as "2024-W09" using the ISO 8601 week calendar.
func isoWeek(now time.Time) string {
	year, week := now.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

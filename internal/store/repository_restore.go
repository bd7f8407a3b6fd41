package store

import (
	"context"
	"database/sql"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/models"
)

// RestoreRepository executes the all-or-nothing snapshot import: every
// entity table is cleared and re-populated inside a single transaction, so
// a failure at any point leaves the database exactly as it was.
type RestoreRepository struct {
	db *DB
}

// NewRestoreRepository constructs a restore repository.
func NewRestoreRepository(db *DB) *RestoreRepository {
	return &RestoreRepository{db: db}
}

// RestoreSnapshot replaces the content of every entity collection with the
// rows of the validated snapshot. The kv table (pin lock, backup markers)
// is deliberately untouched: restoring data must not unlock the device or
// reset the weekly backup schedule.
func (r *RestoreRepository) RestoreSnapshot(ctx context.Context, snap models.Snapshot) error {
	log := logger.FromContext(ctx)

	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := replaceAllTx(ctx, tx, EquipmentTable, snap.Equipment); err != nil {
			return err
		}
		if err := replaceAllTx(ctx, tx, TemperatureRecordTable, snap.TemperatureRecords); err != nil {
			return err
		}
		if err := replaceAllTx(ctx, tx, OilChangeRecordTable, snap.OilChangeRecords); err != nil {
			return err
		}
		if err := replaceAllTx(ctx, tx, TaskTable, snap.Tasks); err != nil {
			return err
		}
		if err := replaceAllTx(ctx, tx, ProductTraceTable, snap.ProductTraces); err != nil {
			return err
		}
		if err := replaceAllTx(ctx, tx, InvoiceTable, snap.Invoices); err != nil {
			return err
		}
		if err := replaceAllTx(ctx, tx, PriceHistoryTable, snap.PriceHistory); err != nil {
			return err
		}
		if err := replaceAllTx(ctx, tx, IngredientTable, snap.Ingredients); err != nil {
			return err
		}
		if err := replaceAllTx(ctx, tx, RecipeTable, snap.Recipes); err != nil {
			return err
		}
		if err := replaceAllTx(ctx, tx, RecipeIngredientTable, snap.RecipeIngredients); err != nil {
			return err
		}
		if err := replaceAllTx(ctx, tx, SupplierProductMappingTable, snap.SupplierProductMappings); err != nil {
			return err
		}
		if err := replaceAllTx(ctx, tx, OrderTable, snap.Orders); err != nil {
			return err
		}
		return replaceAllTx(ctx, tx, AppSettingsTable, snap.Settings)
	})
	if err != nil {
		log.Err(err).
			Str("func", "RestoreRepository.RestoreSnapshot").
			Msg("failed to restore snapshot, transaction rolled back")
		return err
	}

	return nil
}

// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

func newTestEngine(t *testing.T) (*Engine, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := store.NewDB(conn, logger.Nop())
	storages := &store.Storages{
		DB: db,

		Equipment:          store.NewTableRepo(db, store.EquipmentTable),
		TemperatureRecords: store.NewTableRepo(db, store.TemperatureRecordTable),
		OilChangeRecords:   store.NewTableRepo(db, store.OilChangeRecordTable),
		Tasks:              store.NewTableRepo(db, store.TaskTable),
		ProductTraces:      store.NewTableRepo(db, store.ProductTraceTable),
		Invoices:           store.NewTableRepo(db, store.InvoiceTable),
		PriceHistory:       store.NewTableRepo(db, store.PriceHistoryTable),
		Ingredients:        store.NewTableRepo(db, store.IngredientTable),
		Recipes:            store.NewTableRepo(db, store.RecipeTable),
		RecipeIngredients:  store.NewTableRepo(db, store.RecipeIngredientTable),
		SupplierMappings:   store.NewTableRepo(db, store.SupplierProductMappingTable),
		Orders:             store.NewTableRepo(db, store.OrderTable),
		Settings:           store.NewTableRepo(db, store.AppSettingsTable),

		Restore: store.NewRestoreRepository(db),
		KV:      store.NewKVRepository(db),
	}

	return NewEngine(storages, logger.Nop()), mock, conn
}

// exportTables lists every table Export reads, in read order.
var exportTables = []string{
	"equipment", "temperature_records", "oil_change_records", "tasks",
	"product_traces", "invoices", "price_history", "ingredients",
	"recipes", "recipe_ingredients", "supplier_product_mappings",
	"orders", "app_settings",
}

func expectEmptyExport(mock sqlmock.Sqlmock, custom map[string]*sqlmock.Rows) {
	for _, table := range exportTables {
		rows := custom[table]
		if rows == nil {
			rows = sqlmock.NewRows([]string{"id"})
		}
		mock.ExpectQuery("FROM " + table).WillReturnRows(rows)
	}
}

func expectNoKV(mock sqlmock.Sqlmock, key string) {
	mock.ExpectQuery("SELECT value").
		WithArgs(key).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
}

func TestEngine_Export_DropsRawImagesKeepsURLs(t *testing.T) {
	engine, mock, conn := newTestEngine(t)
	defer conn.Close()

	invoiceRows := sqlmock.NewRows([]string{
		"id", "supplier", "invoice_date", "number", "total_amount",
		"items", "images", "image_urls", "notes", "created_at",
	}).AddRow(
		"inv-1", "Metro", "2024-03-01", "F-100", 120.5,
		"[]",
		`["data:image/jpeg;base64,AAAA"]`,
		`["https://example.test/storage/v1/object/public/media/invoices/inv-1/0.jpg"]`,
		"", "2024-03-01T10:00:00Z",
	)
	traceRows := sqlmock.NewRows([]string{
		"id", "name", "lot_number", "expiry_date", "supplier",
		"images", "image_urls", "created_at",
	}).AddRow(
		"pt-1", "Saumon", "LOT42", "2024-03-10", "Metro",
		`["data:image/jpeg;base64,BBBB"]`,
		`["https://example.test/storage/v1/object/public/media/products/pt-1/0.jpg"]`,
		"2024-03-01T10:00:00Z",
	)

	expectEmptyExport(mock, map[string]*sqlmock.Rows{
		"invoices":       invoiceRows,
		"product_traces": traceRows,
	})

	snap, err := engine.Export(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.SnapshotVersion, snap.Version)
	assert.NotEmpty(t, snap.ExportedAt)

	require.Len(t, snap.Invoices, 1)
	assert.Nil(t, snap.Invoices[0].Images)
	assert.Len(t, snap.Invoices[0].ImageURLs, 1)

	require.Len(t, snap.ProductTraces, 1)
	assert.Nil(t, snap.ProductTraces[0].Images)
	assert.Len(t, snap.ProductTraces[0].ImageURLs, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_Export_QueryError(t *testing.T) {
	engine, mock, conn := newTestEngine(t)
	defer conn.Close()

	mock.ExpectQuery("FROM equipment").WillReturnError(sql.ErrConnDone)

	_, err := engine.Export(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "export equipment")
}

func TestEngine_RunWeekly_WritesThenSkipsSameWeek(t *testing.T) {
	engine, mock, conn := newTestEngine(t)
	defer conn.Close()

	// Thursday of ISO week 2024-W11.
	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)

	// first run: no legacy keys, no marker yet
	expectNoKV(mock, "lastBackupWeek")
	expectNoKV(mock, "autoBackup")
	expectNoKV(mock, "last_backup_week")
	expectEmptyExport(mock, nil)
	mock.ExpectExec("INSERT OR REPLACE INTO kv").
		WithArgs("weekly_backup", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT OR REPLACE INTO kv").
		WithArgs("last_backup_week", "2024-W11").
		WillReturnResult(sqlmock.NewResult(1, 1))

	result, err := engine.RunWeekly(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, ResultDone, result)

	// second run in the same week: marker matches, nothing exported
	expectNoKV(mock, "lastBackupWeek")
	expectNoKV(mock, "autoBackup")
	mock.ExpectQuery("SELECT value").
		WithArgs("last_backup_week").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("2024-W11"))

	result, err = engine.RunWeekly(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, ResultSkipped, result)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_RunWeekly_MigratesLegacyKeys(t *testing.T) {
	engine, mock, conn := newTestEngine(t)
	defer conn.Close()

	// Tuesday of ISO week 2024-W10, same week as the legacy marker.
	now := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT value").
		WithArgs("lastBackupWeek").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("2024-W10"))
	expectNoKV(mock, "last_backup_week")
	mock.ExpectExec("INSERT OR REPLACE INTO kv").
		WithArgs("last_backup_week", "2024-W10").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM kv").
		WithArgs("lastBackupWeek").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery("SELECT value").
		WithArgs("autoBackup").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"version":1}`))
	expectNoKV(mock, "weekly_backup")
	mock.ExpectExec("INSERT OR REPLACE INTO kv").
		WithArgs("weekly_backup", `{"version":1}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM kv").
		WithArgs("autoBackup").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery("SELECT value").
		WithArgs("last_backup_week").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("2024-W10"))

	result, err := engine.RunWeekly(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, ResultSkipped, result)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_RunWeekly_CurrentKeyReadErrorKeepsLegacyValue(t *testing.T) {
	engine, mock, conn := newTestEngine(t)
	defer conn.Close()

	mock.ExpectQuery("SELECT value").
		WithArgs("lastBackupWeek").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("2024-W10"))
	mock.ExpectQuery("SELECT value").
		WithArgs("last_backup_week").
		WillReturnError(sql.ErrConnDone)

	_, err := engine.RunWeekly(context.Background(), time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC))

	require.Error(t, err)
	// the legacy key must not have been deleted: its value was never
	// confirmed at the current location
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_LatestWeekly(t *testing.T) {
	engine, mock, conn := newTestEngine(t)
	defer conn.Close()

	expectNoKV(mock, "weekly_backup")

	raw, err := engine.LatestWeekly(context.Background())
	require.NoError(t, err)
	assert.Nil(t, raw)

	mock.ExpectQuery("SELECT value").
		WithArgs("weekly_backup").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"version":2}`))

	raw, err = engine.LatestWeekly(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(raw))
}

func validSnapshotJSON(t *testing.T, mutate func(*models.Snapshot)) []byte {
	t.Helper()

	snap := models.Snapshot{
		Version:    models.SnapshotVersion,
		ExportedAt: "2024-03-14T09:00:00Z",
		Equipment: []models.Equipment{
			{ID: "eq-1", Name: "Frigo 1"},
		},
		TemperatureRecords: []models.TemperatureRecord{
			{ID: "tr-1", EquipmentID: "eq-1", Temperature: 3.5},
		},
		Tasks: []models.Task{
			{ID: "t-1", Title: "Nettoyage plan de travail"},
		},
		Invoices: []models.Invoice{
			{ID: "inv-1", Supplier: "Metro", TotalAmount: 120.5},
		},
		Ingredients: []models.Ingredient{
			{ID: "ing-1", Name: "Farine", Allergens: []string{" Gluten ", "", "Gluten"}},
		},
		Recipes: []models.Recipe{
			{ID: "rec-1", Name: "Pain maison"},
		},
		RecipeIngredients: []models.RecipeIngredient{
			{ID: "ri-1", RecipeID: "rec-1", IngredientID: "ing-1", Quantity: 1},
		},
	}
	if mutate != nil {
		mutate(&snap)
	}

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	return raw
}

func TestValidate_AcceptsAndSanitizes(t *testing.T) {
	raw := validSnapshotJSON(t, nil)

	snap, err := Validate(raw)

	require.NoError(t, err)
	assert.Equal(t, []string{"Gluten"}, snap.Ingredients[0].Allergens)
	assert.Len(t, snap.Tasks, 1)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Snapshot)
	}{
		{
			name:   "unsupported version",
			mutate: func(s *models.Snapshot) { s.Version = models.SnapshotVersion + 1 },
		},
		{
			name:   "zero version",
			mutate: func(s *models.Snapshot) { s.Version = 0 },
		},
		{
			name:   "task without id",
			mutate: func(s *models.Snapshot) { s.Tasks[0].ID = "  " },
		},
		{
			name:   "task without title",
			mutate: func(s *models.Snapshot) { s.Tasks[0].Title = "" },
		},
		{
			name:   "temperature record without equipment",
			mutate: func(s *models.Snapshot) { s.TemperatureRecords[0].EquipmentID = "" },
		},
		{
			name:   "negative invoice total",
			mutate: func(s *models.Snapshot) { s.Invoices[0].TotalAmount = -1 },
		},
		{
			name:   "recipe line without ingredient",
			mutate: func(s *models.Snapshot) { s.RecipeIngredients[0].IngredientID = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(validSnapshotJSON(t, tt.mutate))
			require.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	_, err := Validate([]byte(`{"version":`))
	require.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestImport_RejectsWholeFileOnOneBadRow(t *testing.T) {
	engine, mock, conn := newTestEngine(t)
	defer conn.Close()

	raw := validSnapshotJSON(t, func(s *models.Snapshot) {
		s.Ingredients[0].ID = ""
	})

	err := engine.Import(context.Background(), raw)

	require.ErrorIs(t, err, ErrInvalidSnapshot)
	// no statement may have reached the database
	require.NoError(t, mock.ExpectationsWereMet())
}

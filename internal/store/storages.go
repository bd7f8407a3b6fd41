package store

import (
	"context"
	"fmt"

	"github.com/Atomixxxx/cuisine-app/internal/config"
	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/models"
)

// Storages groups every local repository into a single value that is passed
// to the service layer. One SQLite connection pool backs all of them.
type Storages struct {
	DB *DB

	Equipment          *TableRepo[models.Equipment]
	TemperatureRecords *TableRepo[models.TemperatureRecord]
	OilChangeRecords   *TableRepo[models.OilChangeRecord]
	Tasks              *TableRepo[models.Task]
	ProductTraces      *TableRepo[models.ProductTrace]
	Invoices           *TableRepo[models.Invoice]
	PriceHistory       *TableRepo[models.PriceHistory]
	Ingredients        *TableRepo[models.Ingredient]
	Recipes            *TableRepo[models.Recipe]
	RecipeIngredients  *TableRepo[models.RecipeIngredient]
	SupplierMappings   *TableRepo[models.SupplierProductMapping]
	Orders             *TableRepo[models.Order]
	Settings           *TableRepo[models.AppSettings]

	HACCP         *HACCPRepository
	Pages         *PageRepository
	RecipeOps     *RecipeRepository
	IngredientOps *IngredientRepository
	Restore       *RestoreRepository
	KV            *KVRepository
}

// NewStorages initialises the local storage layer: opens the SQLite file
// named by cfg, runs pending schema migrations, and wires every repository.
func NewStorages(cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		DB: db,

		Equipment:          NewTableRepo(db, EquipmentTable),
		TemperatureRecords: NewTableRepo(db, TemperatureRecordTable),
		OilChangeRecords:   NewTableRepo(db, OilChangeRecordTable),
		Tasks:              NewTableRepo(db, TaskTable),
		ProductTraces:      NewTableRepo(db, ProductTraceTable),
		Invoices:           NewTableRepo(db, InvoiceTable),
		PriceHistory:       NewTableRepo(db, PriceHistoryTable),
		Ingredients:        NewTableRepo(db, IngredientTable),
		Recipes:            NewTableRepo(db, RecipeTable),
		RecipeIngredients:  NewTableRepo(db, RecipeIngredientTable),
		SupplierMappings:   NewTableRepo(db, SupplierProductMappingTable),
		Orders:             NewTableRepo(db, OrderTable),
		Settings:           NewTableRepo(db, AppSettingsTable),

		HACCP:         NewHACCPRepository(db),
		Pages:         NewPageRepository(db),
		RecipeOps:     NewRecipeRepository(db),
		IngredientOps: NewIngredientRepository(db),
		Restore:       NewRestoreRepository(db),
		KV:            NewKVRepository(db),
	}, nil
}

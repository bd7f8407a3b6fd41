package models

// SnapshotVersion is the current backup file format version.
const SnapshotVersion = 2

// Snapshot is a point-in-time export of every entity collection, used by
// backup export/import and by the weekly auto-backup. Raw invoice image
// payloads are intentionally absent: only remote-hosted image URLs survive
// the export, so cloud-backed media remains recoverable.
type Snapshot struct {
	Version                 int                      `json:"version"`
	ExportedAt              string                   `json:"exportedAt"`
	Equipment               []Equipment              `json:"equipment"`
	TemperatureRecords      []TemperatureRecord      `json:"temperatureRecords"`
	OilChangeRecords        []OilChangeRecord        `json:"oilChangeRecords"`
	Tasks                   []Task                   `json:"tasks"`
	ProductTraces           []ProductTrace           `json:"productTraces"`
	Invoices                []Invoice                `json:"invoices"`
	PriceHistory            []PriceHistory           `json:"priceHistory"`
	Ingredients             []Ingredient             `json:"ingredients"`
	Recipes                 []Recipe                 `json:"recipes"`
	RecipeIngredients       []RecipeIngredient       `json:"recipeIngredients"`
	SupplierProductMappings []SupplierProductMapping `json:"supplierProductMappings"`
	Orders                  []Order                  `json:"orders"`
	Settings                []AppSettings            `json:"settings"`
}

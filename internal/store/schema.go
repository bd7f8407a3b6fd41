package store

import (
	"encoding/json"

	"github.com/Atomixxxx/cuisine-app/models"
)

// encodeJSON renders v for a JSON text column. Nil slices become "[]" so the
// column is always valid JSON.
func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeJSON fills target from a JSON text column; malformed content leaves
// target at its zero value rather than failing the whole row scan.
func decodeJSON(s string, target any) {
	if s == "" {
		return
	}
	_ = json.Unmarshal([]byte(s), target)
}

// EquipmentTable maps [models.Equipment] onto the equipment table.
var EquipmentTable = Table[models.Equipment]{
	Name:    "equipment",
	Columns: []string{"id", "name", "type", "min_temp", "max_temp", "location", "created_at"},
	ID:      func(v models.Equipment) string { return v.ID },
	Args: func(v models.Equipment) []any {
		return []any{v.ID, v.Name, v.Type, v.MinTemp, v.MaxTemp, v.Location, v.CreatedAt}
	},
	Scan: func(s rowScanner) (models.Equipment, error) {
		var v models.Equipment
		err := s.Scan(&v.ID, &v.Name, &v.Type, &v.MinTemp, &v.MaxTemp, &v.Location, &v.CreatedAt)
		return v, err
	},
}

// TemperatureRecordTable maps [models.TemperatureRecord] onto the
// temperature_records table.
var TemperatureRecordTable = Table[models.TemperatureRecord]{
	Name:    "temperature_records",
	Columns: []string{"id", "equipment_id", "temperature", "timestamp", "compliant", "notes", "recorded_by"},
	ID:      func(v models.TemperatureRecord) string { return v.ID },
	Args: func(v models.TemperatureRecord) []any {
		return []any{v.ID, v.EquipmentID, v.Temperature, v.Timestamp, v.Compliant, v.Notes, v.RecordedBy}
	},
	Scan: func(s rowScanner) (models.TemperatureRecord, error) {
		var v models.TemperatureRecord
		err := s.Scan(&v.ID, &v.EquipmentID, &v.Temperature, &v.Timestamp, &v.Compliant, &v.Notes, &v.RecordedBy)
		return v, err
	},
}

// OilChangeRecordTable maps [models.OilChangeRecord] onto the
// oil_change_records table.
var OilChangeRecordTable = Table[models.OilChangeRecord]{
	Name:    "oil_change_records",
	Columns: []string{"id", "equipment_id", "timestamp", "oil_type", "notes", "changed_by"},
	ID:      func(v models.OilChangeRecord) string { return v.ID },
	Args: func(v models.OilChangeRecord) []any {
		return []any{v.ID, v.EquipmentID, v.Timestamp, v.OilType, v.Notes, v.ChangedBy}
	},
	Scan: func(s rowScanner) (models.OilChangeRecord, error) {
		var v models.OilChangeRecord
		err := s.Scan(&v.ID, &v.EquipmentID, &v.Timestamp, &v.OilType, &v.Notes, &v.ChangedBy)
		return v, err
	},
}

// TaskTable maps [models.Task] onto the tasks table.
var TaskTable = Table[models.Task]{
	Name: "tasks",
	Columns: []string{
		"id", "title", "category", "description", "assigned_to",
		"recurring", "completed", "completed_at", "archived", "created_at",
	},
	ID: func(v models.Task) string { return v.ID },
	Args: func(v models.Task) []any {
		return []any{
			v.ID, v.Title, v.Category, v.Description, v.AssignedTo,
			v.Recurring, v.Completed, v.CompletedAt, v.Archived, v.CreatedAt,
		}
	},
	Scan: func(s rowScanner) (models.Task, error) {
		var v models.Task
		err := s.Scan(
			&v.ID, &v.Title, &v.Category, &v.Description, &v.AssignedTo,
			&v.Recurring, &v.Completed, &v.CompletedAt, &v.Archived, &v.CreatedAt,
		)
		return v, err
	},
}

// ProductTraceTable maps [models.ProductTrace] onto the product_traces table.
// Images and image URLs live in JSON text columns.
var ProductTraceTable = Table[models.ProductTrace]{
	Name: "product_traces",
	Columns: []string{
		"id", "name", "lot_number", "expiry_date", "supplier",
		"images", "image_urls", "created_at",
	},
	ID: func(v models.ProductTrace) string { return v.ID },
	Args: func(v models.ProductTrace) []any {
		return []any{
			v.ID, v.Name, v.LotNumber, v.ExpiryDate, v.Supplier,
			encodeJSON(v.Images), encodeJSON(v.ImageURLs), v.CreatedAt,
		}
	},
	Scan: func(s rowScanner) (models.ProductTrace, error) {
		var v models.ProductTrace
		var images, imageURLs string
		err := s.Scan(
			&v.ID, &v.Name, &v.LotNumber, &v.ExpiryDate, &v.Supplier,
			&images, &imageURLs, &v.CreatedAt,
		)
		if err != nil {
			return v, err
		}
		decodeJSON(images, &v.Images)
		decodeJSON(imageURLs, &v.ImageURLs)
		return v, nil
	},
}

// InvoiceTable maps [models.Invoice] onto the invoices table. Line items,
// images and image URLs live in JSON text columns.
var InvoiceTable = Table[models.Invoice]{
	Name: "invoices",
	Columns: []string{
		"id", "supplier", "invoice_date", "number", "total_amount",
		"items", "images", "image_urls", "notes", "created_at",
	},
	ID: func(v models.Invoice) string { return v.ID },
	Args: func(v models.Invoice) []any {
		return []any{
			v.ID, v.Supplier, v.InvoiceDate, v.Number, v.TotalAmount,
			encodeJSON(v.Items), encodeJSON(v.Images), encodeJSON(v.ImageURLs),
			v.Notes, v.CreatedAt,
		}
	},
	Scan: func(s rowScanner) (models.Invoice, error) {
		var v models.Invoice
		var items, images, imageURLs string
		err := s.Scan(
			&v.ID, &v.Supplier, &v.InvoiceDate, &v.Number, &v.TotalAmount,
			&items, &images, &imageURLs, &v.Notes, &v.CreatedAt,
		)
		if err != nil {
			return v, err
		}
		decodeJSON(items, &v.Items)
		decodeJSON(images, &v.Images)
		decodeJSON(imageURLs, &v.ImageURLs)
		return v, nil
	},
}

// PriceHistoryTable maps [models.PriceHistory] onto the price_history table.
var PriceHistoryTable = Table[models.PriceHistory]{
	Name: "price_history",
	Columns: []string{
		"id", "lookup_key", "item_name", "supplier", "observations",
		"average_price", "min_price", "max_price", "updated_at",
	},
	ID: func(v models.PriceHistory) string { return v.ID },
	Args: func(v models.PriceHistory) []any {
		return []any{
			v.ID, v.LookupKey, v.ItemName, v.Supplier, encodeJSON(v.Observations),
			v.AveragePrice, v.MinPrice, v.MaxPrice, v.UpdatedAt,
		}
	},
	Scan: func(s rowScanner) (models.PriceHistory, error) {
		var v models.PriceHistory
		var observations string
		err := s.Scan(
			&v.ID, &v.LookupKey, &v.ItemName, &v.Supplier, &observations,
			&v.AveragePrice, &v.MinPrice, &v.MaxPrice, &v.UpdatedAt,
		)
		if err != nil {
			return v, err
		}
		decodeJSON(observations, &v.Observations)
		return v, nil
	},
}

// IngredientTable maps [models.Ingredient] onto the ingredients table.
var IngredientTable = Table[models.Ingredient]{
	Name:    "ingredients",
	Columns: []string{"id", "name", "unit", "unit_cost", "supplier", "allergens", "created_at"},
	ID:      func(v models.Ingredient) string { return v.ID },
	Args: func(v models.Ingredient) []any {
		return []any{v.ID, v.Name, v.Unit, v.UnitCost, v.Supplier, encodeJSON(v.Allergens), v.CreatedAt}
	},
	Scan: func(s rowScanner) (models.Ingredient, error) {
		var v models.Ingredient
		var allergens string
		err := s.Scan(&v.ID, &v.Name, &v.Unit, &v.UnitCost, &v.Supplier, &allergens, &v.CreatedAt)
		if err != nil {
			return v, err
		}
		decodeJSON(allergens, &v.Allergens)
		return v, nil
	},
}

// RecipeTable maps [models.Recipe] onto the recipes table.
var RecipeTable = Table[models.Recipe]{
	Name: "recipes",
	Columns: []string{
		"id", "name", "category", "portions", "instructions", "selling_price",
		"cost_per_portion", "total_cost", "allergens", "manual_allergens",
		"created_at", "updated_at",
	},
	ID: func(v models.Recipe) string { return v.ID },
	Args: func(v models.Recipe) []any {
		return []any{
			v.ID, v.Name, v.Category, v.Portions, v.Instructions, v.SellingPrice,
			v.CostPerPortion, v.TotalCost, encodeJSON(v.Allergens), encodeJSON(v.ManualAllergens),
			v.CreatedAt, v.UpdatedAt,
		}
	},
	Scan: func(s rowScanner) (models.Recipe, error) {
		var v models.Recipe
		var allergens, manualAllergens string
		err := s.Scan(
			&v.ID, &v.Name, &v.Category, &v.Portions, &v.Instructions, &v.SellingPrice,
			&v.CostPerPortion, &v.TotalCost, &allergens, &manualAllergens,
			&v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return v, err
		}
		decodeJSON(allergens, &v.Allergens)
		decodeJSON(manualAllergens, &v.ManualAllergens)
		return v, nil
	},
}

// RecipeIngredientTable maps [models.RecipeIngredient] onto the
// recipe_ingredients table.
var RecipeIngredientTable = Table[models.RecipeIngredient]{
	Name:    "recipe_ingredients",
	Columns: []string{"id", "recipe_id", "ingredient_id", "quantity", "unit"},
	ID:      func(v models.RecipeIngredient) string { return v.ID },
	Args: func(v models.RecipeIngredient) []any {
		return []any{v.ID, v.RecipeID, v.IngredientID, v.Quantity, v.Unit}
	},
	Scan: func(s rowScanner) (models.RecipeIngredient, error) {
		var v models.RecipeIngredient
		err := s.Scan(&v.ID, &v.RecipeID, &v.IngredientID, &v.Quantity, &v.Unit)
		return v, err
	},
}

// SupplierProductMappingTable maps [models.SupplierProductMapping] onto the
// supplier_product_mappings table.
var SupplierProductMappingTable = Table[models.SupplierProductMapping]{
	Name:    "supplier_product_mappings",
	Columns: []string{"id", "supplier", "item_name", "product_ref", "product_name", "created_at"},
	ID:      func(v models.SupplierProductMapping) string { return v.ID },
	Args: func(v models.SupplierProductMapping) []any {
		return []any{v.ID, v.Supplier, v.ItemName, v.ProductRef, v.ProductName, v.CreatedAt}
	},
	Scan: func(s rowScanner) (models.SupplierProductMapping, error) {
		var v models.SupplierProductMapping
		err := s.Scan(&v.ID, &v.Supplier, &v.ItemName, &v.ProductRef, &v.ProductName, &v.CreatedAt)
		return v, err
	},
}

// OrderTable maps [models.Order] onto the orders table. Order lines live in
// a JSON text column.
var OrderTable = Table[models.Order]{
	Name: "orders",
	Columns: []string{
		"id", "order_number", "supplier", "status", "items",
		"notes", "order_date", "created_at",
	},
	ID: func(v models.Order) string { return v.ID },
	Args: func(v models.Order) []any {
		return []any{
			v.ID, v.OrderNumber, v.Supplier, v.Status, encodeJSON(v.Items),
			v.Notes, v.OrderDate, v.CreatedAt,
		}
	},
	Scan: func(s rowScanner) (models.Order, error) {
		var v models.Order
		var items string
		err := s.Scan(
			&v.ID, &v.OrderNumber, &v.Supplier, &v.Status, &items,
			&v.Notes, &v.OrderDate, &v.CreatedAt,
		)
		if err != nil {
			return v, err
		}
		decodeJSON(items, &v.Items)
		return v, nil
	},
}

// AppSettingsTable maps [models.AppSettings] onto the app_settings table.
// The collection is a singleton: exactly one row with id "default".
var AppSettingsTable = Table[models.AppSettings]{
	Name:    "app_settings",
	Columns: []string{"id", "establishment_name", "language", "temperature_unit", "updated_at"},
	ID:      func(v models.AppSettings) string { return v.ID },
	Args: func(v models.AppSettings) []any {
		return []any{v.ID, v.EstablishmentName, v.Language, v.TemperatureUnit, v.UpdatedAt}
	},
	Scan: func(s rowScanner) (models.AppSettings, error) {
		var v models.AppSettings
		err := s.Scan(&v.ID, &v.EstablishmentName, &v.Language, &v.TemperatureUnit, &v.UpdatedAt)
		return v, err
	},
}

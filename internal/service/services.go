// SPDX-License-Identifier: Apache-2.0

package service

import (
	"github.com/Atomixxxx/cuisine-app/internal/gateway"
	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/sanitize"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// Services aggregates every domain service over one store and one gateway.
type Services struct {
	Auth        *AuthService
	HACCP       *HACCPService
	Tasks       *TaskService
	Products    *ProductService
	Invoices    *InvoiceService
	Pricing     *PricingService
	Recipes     *RecipeService
	Ingredients *IngredientService
	Mappings    *Collection[models.SupplierProductMapping]
	Orders      *OrderService
	Settings    *SettingsService
}

// NewServices wires all domain services.
func NewServices(storages *store.Storages, gw *gateway.Gateway, log *logger.Logger) *Services {
	pricing := NewPricingService(storages, gw, log)

	mappings := NewCollection("supplier_product_mappings", storages.SupplierMappings, gw, log,
		func(v models.SupplierProductMapping) string { return v.ID }).
		WithSanitize(sanitizeMapping).
		WithOrder("created_at.asc")

	return &Services{
		Auth:        NewAuthService(gw, storages.KV, log),
		HACCP:       NewHACCPService(storages, gw, log),
		Tasks:       NewTaskService(storages, gw, log),
		Products:    NewProductService(storages, gw, gw, log),
		Invoices:    NewInvoiceService(storages, gw, gw, pricing, log),
		Pricing:     pricing,
		Recipes:     NewRecipeService(storages, gw, log),
		Ingredients: NewIngredientService(storages, gw, log),
		Mappings:    mappings,
		Orders:      NewOrderService(storages, gw, log),
		Settings:    NewSettingsService(storages, gw, log),
	}
}

func sanitizeMapping(v models.SupplierProductMapping) models.SupplierProductMapping {
	v.Supplier = sanitize.Text(v.Supplier)
	v.ItemName = sanitize.Text(v.ItemName)
	v.ProductRef = sanitize.Text(v.ProductRef)
	v.ProductName = sanitize.Text(v.ProductName)
	return v
}

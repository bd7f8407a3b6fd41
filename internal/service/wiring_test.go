package service

import (
	"github.com/Atomixxxx/cuisine-app/internal/gateway"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// The store and gateway types must keep satisfying the service-layer
// surfaces NewServices wires them into.
var (
	_ LocalTable[models.Task] = (*store.TableRepo[models.Task])(nil)
	_ RemoteTable             = (*gateway.Gateway)(nil)
	_ BlobStore               = (*gateway.Gateway)(nil)
	_ InvoicePages            = (*store.PageRepository)(nil)
	_ TracePages              = (*store.PageRepository)(nil)
	_ PriceLookup             = (*store.PageRepository)(nil)
	_ RecipeStore             = (*store.RecipeRepository)(nil)
	_ IngredientStore         = (*store.IngredientRepository)(nil)
)

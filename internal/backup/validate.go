// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Atomixxxx/cuisine-app/internal/sanitize"
	"github.com/Atomixxxx/cuisine-app/models"
)

// Validate checks raw snapshot JSON structurally and returns the decoded
// snapshot with its allergen arrays sanitized. Any mismatch (wrong type,
// unsupported version, missing identifier or reference) rejects the whole
// file with [ErrInvalidSnapshot]; nothing is partially imported.
func Validate(raw []byte) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	if snap.Version < 1 || snap.Version > models.SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, snap.Version)
	}

	if err := validateRows(&snap); err != nil {
		return nil, err
	}

	for i := range snap.Ingredients {
		snap.Ingredients[i].Allergens = sanitize.TextSlice(snap.Ingredients[i].Allergens)
	}
	for i := range snap.Recipes {
		snap.Recipes[i].Allergens = sanitize.TextSlice(snap.Recipes[i].Allergens)
		snap.Recipes[i].ManualAllergens = sanitize.TextSlice(snap.Recipes[i].ManualAllergens)
	}

	return &snap, nil
}

func validateRows(snap *models.Snapshot) error {
	for i, v := range snap.Equipment {
		if err := requireID("equipment", i, v.ID); err != nil {
			return err
		}
		if strings.TrimSpace(v.Name) == "" {
			return rowErr("equipment", i, "missing name")
		}
	}

	for i, v := range snap.TemperatureRecords {
		if err := requireID("temperatureRecords", i, v.ID); err != nil {
			return err
		}
		if v.EquipmentID == "" {
			return rowErr("temperatureRecords", i, "missing equipment reference")
		}
	}

	for i, v := range snap.OilChangeRecords {
		if err := requireID("oilChangeRecords", i, v.ID); err != nil {
			return err
		}
		if v.EquipmentID == "" {
			return rowErr("oilChangeRecords", i, "missing equipment reference")
		}
	}

	for i, v := range snap.Tasks {
		if err := requireID("tasks", i, v.ID); err != nil {
			return err
		}
		if strings.TrimSpace(v.Title) == "" {
			return rowErr("tasks", i, "missing title")
		}
	}

	for i, v := range snap.ProductTraces {
		if err := requireID("productTraces", i, v.ID); err != nil {
			return err
		}
	}

	for i, v := range snap.Invoices {
		if err := requireID("invoices", i, v.ID); err != nil {
			return err
		}
		if v.TotalAmount < 0 {
			return rowErr("invoices", i, "negative total")
		}
	}

	for i, v := range snap.PriceHistory {
		if err := requireID("priceHistory", i, v.ID); err != nil {
			return err
		}
		if v.LookupKey == "" {
			return rowErr("priceHistory", i, "missing lookup key")
		}
	}

	for i, v := range snap.Ingredients {
		if err := requireID("ingredients", i, v.ID); err != nil {
			return err
		}
		if strings.TrimSpace(v.Name) == "" {
			return rowErr("ingredients", i, "missing name")
		}
	}

	for i, v := range snap.Recipes {
		if err := requireID("recipes", i, v.ID); err != nil {
			return err
		}
		if strings.TrimSpace(v.Name) == "" {
			return rowErr("recipes", i, "missing name")
		}
	}

	for i, v := range snap.RecipeIngredients {
		if err := requireID("recipeIngredients", i, v.ID); err != nil {
			return err
		}
		if v.RecipeID == "" || v.IngredientID == "" {
			return rowErr("recipeIngredients", i, "missing recipe or ingredient reference")
		}
	}

	for i, v := range snap.SupplierProductMappings {
		if err := requireID("supplierProductMappings", i, v.ID); err != nil {
			return err
		}
	}

	for i, v := range snap.Orders {
		if err := requireID("orders", i, v.ID); err != nil {
			return err
		}
	}

	for i, v := range snap.Settings {
		if err := requireID("settings", i, v.ID); err != nil {
			return err
		}
	}

	return nil
}

func requireID(table string, index int, id string) error {
	if strings.TrimSpace(id) == "" {
		return rowErr(table, index, "missing id")
	}
	return nil
}

func rowErr(table string, index int, reason string) error {
	return fmt.Errorf("%w: %s[%d]: %s", ErrInvalidSnapshot, table, index, reason)
}

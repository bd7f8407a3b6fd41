// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Atomixxxx/cuisine-app/internal/gateway"
	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/sanitize"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

// RecipeService manages recipes and their owned ingredient lines. Saving a
// recipe always replaces the full line set, recomputes its cost from the
// linked ingredients, and rebuilds its allergen set.
// RecipeStore is the transactional recipe persistence surface. Satisfied by
// [store.RecipeRepository].
type RecipeStore interface {
	SaveWithIngredients(ctx context.Context, recipe models.Recipe, lines []models.RecipeIngredient) error
	DeleteCascade(ctx context.Context, recipeID string) error
	LinesByRecipe(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error)
}

type RecipeService struct {
	*Collection[models.Recipe]

	ingredients LocalTable[models.Ingredient]
	recipeOps   RecipeStore
	logger      *logger.Logger
}

// NewRecipeService wires the recipe collection with its line handling.
func NewRecipeService(storages *store.Storages, remote RemoteTable, log *logger.Logger) *RecipeService {
	collection := NewCollection("recipes", storages.Recipes, remote, log,
		func(v models.Recipe) string { return v.ID }).
		WithOrder("created_at.asc")

	return &RecipeService{
		Collection:  collection,
		ingredients: storages.Ingredients,
		recipeOps:   storages.RecipeOps,
		logger:      log,
	}
}

// SaveRecipeWithIngredients saves the recipe and its complete line set.
// Allergens are the deduplicated union of the linked ingredients' allergens
// and the manually entered ones; the total cost is the sum of line quantity
// times ingredient unit cost. Local save is one transaction; the remote
// push of the recipe and its lines is best-effort.
func (s *RecipeService) SaveRecipeWithIngredients(ctx context.Context, recipe models.Recipe, lines []models.RecipeIngredient) (models.Recipe, error) {
	recipe = sanitizeRecipe(recipe)

	totalCost := 0.0
	var derived []string
	for _, line := range lines {
		ingredient, err := s.ingredients.Get(ctx, line.IngredientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return models.Recipe{}, fmt.Errorf("load ingredient %s: %w", line.IngredientID, err)
		}

		totalCost += line.Quantity * ingredient.UnitCost
		derived = append(derived, ingredient.Allergens...)
	}

	recipe.TotalCost = roundCents(totalCost)
	if recipe.Portions > 0 {
		recipe.CostPerPortion = roundCents(totalCost / float64(recipe.Portions))
	} else {
		recipe.CostPerPortion = 0
	}

	recipe.ManualAllergens = sanitize.TextSlice(recipe.ManualAllergens)
	recipe.Allergens = sanitize.TextSlice(append(derived, recipe.ManualAllergens...))
	recipe.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.recipeOps.SaveWithIngredients(ctx, recipe, lines); err != nil {
		return models.Recipe{}, err
	}

	s.bestEffort(ctx, "push recipe with lines", func() error {
		if _, err := s.remote.UpsertRows(ctx, "recipes", []models.Recipe{recipe}, nil); err != nil {
			return err
		}
		if err := s.remote.DeleteRows(ctx, "recipe_ingredients", map[string]string{
			"recipe_id": gateway.Eq(recipe.ID),
		}); err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		_, err := s.remote.UpsertRows(ctx, "recipe_ingredients", lines, nil)
		return err
	})

	return recipe, nil
}

// Lines returns the ingredient lines of one recipe from the local cache.
func (s *RecipeService) Lines(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error) {
	return s.recipeOps.LinesByRecipe(ctx, recipeID)
}

// DeleteRecipe removes the recipe and its lines in one local transaction,
// then best-effort removes both from the remote tables.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID string) error {
	if err := s.recipeOps.DeleteCascade(ctx, recipeID); err != nil {
		return err
	}

	s.bestEffort(ctx, "delete remote recipe cascade", func() error {
		if err := s.remote.DeleteRows(ctx, "recipe_ingredients", map[string]string{
			"recipe_id": gateway.Eq(recipeID),
		}); err != nil {
			return err
		}
		return s.remote.DeleteRows(ctx, "recipes", map[string]string{"id": gateway.Eq(recipeID)})
	})

	return nil
}

func sanitizeRecipe(v models.Recipe) models.Recipe {
	v.Name = sanitize.Text(v.Name)
	v.Category = sanitize.Text(v.Category)
	v.Instructions = sanitize.Text(v.Instructions)
	return v
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// IngredientService manages purchasable raw products. Deleting an ingredient
// cascades to every recipe line referencing it.
// IngredientStore is the cascade-deletion surface. Satisfied by
// [store.IngredientRepository].
type IngredientStore interface {
	DeleteCascade(ctx context.Context, ingredientID string) error
}

type IngredientService struct {
	*Collection[models.Ingredient]

	ingredientOps IngredientStore
}

// NewIngredientService wires the ingredient collection.
func NewIngredientService(storages *store.Storages, remote RemoteTable, log *logger.Logger) *IngredientService {
	collection := NewCollection("ingredients", storages.Ingredients, remote, log,
		func(v models.Ingredient) string { return v.ID }).
		WithSanitize(sanitizeIngredient).
		WithOrder("name.asc")

	return &IngredientService{
		Collection:    collection,
		ingredientOps: storages.IngredientOps,
	}
}

// Delete removes the ingredient and every recipe line referencing it, in one
// local transaction; the remote cascade is best-effort.
func (s *IngredientService) Delete(ctx context.Context, ingredientID string) error {
	if err := s.ingredientOps.DeleteCascade(ctx, ingredientID); err != nil {
		return err
	}

	s.bestEffort(ctx, "delete remote ingredient cascade", func() error {
		if err := s.remote.DeleteRows(ctx, "recipe_ingredients", map[string]string{
			"ingredient_id": gateway.Eq(ingredientID),
		}); err != nil {
			return err
		}
		return s.remote.DeleteRows(ctx, "ingredients", map[string]string{"id": gateway.Eq(ingredientID)})
	})

	return nil
}

func sanitizeIngredient(v models.Ingredient) models.Ingredient {
	v.Name = sanitize.Text(v.Name)
	v.Unit = sanitize.Text(v.Unit)
	v.Supplier = sanitize.Text(v.Supplier)
	v.Allergens = sanitize.TextSlice(v.Allergens)
	return v
}

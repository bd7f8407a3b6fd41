package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/models"
)

func ingredientID(v models.Ingredient) string { return v.ID }
func recipeID(v models.Recipe) string         { return v.ID }

// fakeRecipeStore records the transactional save so derived-field
// computation can be asserted without a database.
type fakeRecipeStore struct {
	savedRecipe models.Recipe
	savedLines  []models.RecipeIngredient
	deleted     []string
}

func (f *fakeRecipeStore) SaveWithIngredients(_ context.Context, recipe models.Recipe, lines []models.RecipeIngredient) error {
	f.savedRecipe = recipe
	f.savedLines = lines
	return nil
}

func (f *fakeRecipeStore) DeleteCascade(_ context.Context, recipeID string) error {
	f.deleted = append(f.deleted, recipeID)
	return nil
}

func (f *fakeRecipeStore) LinesByRecipe(context.Context, string) ([]models.RecipeIngredient, error) {
	return f.savedLines, nil
}

func newTestRecipeService(t *testing.T, remote *stubRemote) (*RecipeService, *fakeRecipeStore) {
	t.Helper()
	ctx := context.Background()

	ingredients := newMemoryTable(ingredientID)
	require.NoError(t, ingredients.Upsert(ctx, models.Ingredient{
		ID: "ing-tomate", Name: "Tomates", Unit: "kg", UnitCost: 2.50,
	}))
	require.NoError(t, ingredients.Upsert(ctx, models.Ingredient{
		ID: "ing-creme", Name: "Crème", Unit: "l", UnitCost: 4.00,
		Allergens: []string{"lait"},
	}))
	require.NoError(t, ingredients.Upsert(ctx, models.Ingredient{
		ID: "ing-farine", Name: "Farine", Unit: "kg", UnitCost: 1.20,
		Allergens: []string{"gluten", "lait"},
	}))

	ops := &fakeRecipeStore{}
	svc := &RecipeService{
		Collection:  NewCollection("recipes", newMemoryTable(recipeID), remote, logger.Nop(), recipeID),
		ingredients: ingredients,
		recipeOps:   ops,
		logger:      logger.Nop(),
	}
	return svc, ops
}

func TestSaveRecipeWithIngredients_ComputesCosts(t *testing.T) {
	svc, ops := newTestRecipeService(t, newStubRemote())
	ctx := context.Background()

	recipe := models.Recipe{ID: "rec-1", Name: "Gratin", Portions: 4}
	lines := []models.RecipeIngredient{
		{ID: "l-1", RecipeID: "rec-1", IngredientID: "ing-tomate", Quantity: 2},   // 5.00
		{ID: "l-2", RecipeID: "rec-1", IngredientID: "ing-creme", Quantity: 0.5},  // 2.00
		{ID: "l-3", RecipeID: "rec-1", IngredientID: "ing-farine", Quantity: 2.5}, // 3.00
	}

	saved, err := svc.SaveRecipeWithIngredients(ctx, recipe, lines)

	require.NoError(t, err)
	assert.Equal(t, 10.00, saved.TotalCost)
	assert.Equal(t, 2.50, saved.CostPerPortion)
	assert.Equal(t, saved, ops.savedRecipe)
	assert.Len(t, ops.savedLines, 3)
}

func TestSaveRecipeWithIngredients_UnionsAllergens(t *testing.T) {
	svc, _ := newTestRecipeService(t, newStubRemote())
	ctx := context.Background()

	recipe := models.Recipe{
		ID: "rec-1", Name: "Gratin", Portions: 2,
		ManualAllergens: []string{" céleri ", "lait"},
	}
	lines := []models.RecipeIngredient{
		{ID: "l-1", RecipeID: "rec-1", IngredientID: "ing-creme", Quantity: 1},  // lait
		{ID: "l-2", RecipeID: "rec-1", IngredientID: "ing-farine", Quantity: 1}, // gluten, lait
	}

	saved, err := svc.SaveRecipeWithIngredients(ctx, recipe, lines)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lait", "gluten", "céleri"}, saved.Allergens,
		"allergens are the deduplicated union of ingredient and manual entries")
	assert.Equal(t, []string{"céleri", "lait"}, saved.ManualAllergens)
}

func TestSaveRecipeWithIngredients_UnknownIngredientSkipped(t *testing.T) {
	svc, ops := newTestRecipeService(t, newStubRemote())
	ctx := context.Background()

	lines := []models.RecipeIngredient{
		{ID: "l-1", RecipeID: "rec-1", IngredientID: "ing-tomate", Quantity: 2},
		{ID: "l-2", RecipeID: "rec-1", IngredientID: "ing-missing", Quantity: 9},
	}

	saved, err := svc.SaveRecipeWithIngredients(ctx, models.Recipe{ID: "rec-1", Portions: 1}, lines)

	require.NoError(t, err)
	assert.Equal(t, 5.00, saved.TotalCost, "unknown ingredients contribute nothing")
	assert.Len(t, ops.savedLines, 2, "the line itself is still saved")
}

func TestSaveRecipeWithIngredients_ZeroPortions(t *testing.T) {
	svc, _ := newTestRecipeService(t, newStubRemote())

	saved, err := svc.SaveRecipeWithIngredients(context.Background(),
		models.Recipe{ID: "rec-1", Portions: 0},
		[]models.RecipeIngredient{{ID: "l-1", RecipeID: "rec-1", IngredientID: "ing-tomate", Quantity: 2}})

	require.NoError(t, err)
	assert.Equal(t, 5.00, saved.TotalCost)
	assert.Zero(t, saved.CostPerPortion)
}

func TestSaveRecipeWithIngredients_PushesRecipeAndLines(t *testing.T) {
	remote := newStubRemote()
	svc, _ := newTestRecipeService(t, remote)
	ctx := context.Background()

	lines := []models.RecipeIngredient{{ID: "l-1", RecipeID: "rec-1", IngredientID: "ing-tomate", Quantity: 1}}
	_, err := svc.SaveRecipeWithIngredients(ctx, models.Recipe{ID: "rec-1", Portions: 1}, lines)
	require.NoError(t, err)

	assert.Equal(t, 1, remote.upsertCount("recipes"))
	assert.Equal(t, 1, remote.upsertCount("recipe_ingredients"))
	require.Len(t, remote.deletes, 1, "remote line set is replaced, not patched")
	assert.Equal(t, "recipe_ingredients", remote.deletes[0].table)
	assert.Equal(t, map[string]string{"recipe_id": "eq.rec-1"}, remote.deletes[0].filters)
}

func TestDeleteRecipe_CascadesLocallyAndRemotely(t *testing.T) {
	remote := newStubRemote()
	svc, ops := newTestRecipeService(t, remote)

	require.NoError(t, svc.DeleteRecipe(context.Background(), "rec-1"))

	assert.Equal(t, []string{"rec-1"}, ops.deleted)
	require.Len(t, remote.deletes, 2)
	assert.Equal(t, "recipe_ingredients", remote.deletes[0].table)
	assert.Equal(t, "recipes", remote.deletes[1].table)
}

// fakeIngredientStore records cascade deletions.
type fakeIngredientStore struct {
	deleted []string
}

func (f *fakeIngredientStore) DeleteCascade(_ context.Context, ingredientID string) error {
	f.deleted = append(f.deleted, ingredientID)
	return nil
}

func TestIngredientDelete_CascadesLocallyAndRemotely(t *testing.T) {
	remote := newStubRemote()
	ops := &fakeIngredientStore{}
	svc := &IngredientService{
		Collection:    NewCollection("ingredients", newMemoryTable(ingredientID), remote, logger.Nop(), ingredientID),
		ingredientOps: ops,
	}

	require.NoError(t, svc.Delete(context.Background(), "ing-1"))

	assert.Equal(t, []string{"ing-1"}, ops.deleted)
	require.Len(t, remote.deletes, 2)
	assert.Equal(t, "recipe_ingredients", remote.deletes[0].table)
	assert.Equal(t, map[string]string{"ingredient_id": "eq.ing-1"}, remote.deletes[0].filters)
	assert.Equal(t, "ingredients", remote.deletes[1].table)
}

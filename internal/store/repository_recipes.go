package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/models"
)

// RecipeRepository owns the transactional operations spanning recipes and
// their ingredient lines. Lines are owned by their recipe: every save
// replaces the complete line set, and both delete paths cascade in the same
// transaction so no dangling line can survive locally.
type RecipeRepository struct {
	db *DB
}

// NewRecipeRepository constructs a recipe repository.
func NewRecipeRepository(db *DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// SaveWithIngredients upserts the recipe and replaces its full line set in
// one transaction (delete-all-then-insert, never a partial patch).
func (r *RecipeRepository) SaveWithIngredients(ctx context.Context, recipe models.Recipe, lines []models.RecipeIngredient) error {
	log := logger.FromContext(ctx)

	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		if err := upsertExec(ctx, tx, RecipeTable, recipe); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, deleteRecipeLinesByRecipe, recipe.ID); err != nil {
			return fmt.Errorf("failed to clear recipe lines (recipe_id=%s): %w", recipe.ID, err)
		}

		for _, line := range lines {
			if err := upsertExec(ctx, tx, RecipeIngredientTable, line); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "RecipeRepository.SaveWithIngredients").
			Str("recipe_id", recipe.ID).
			Int("lines", len(lines)).
			Msg("failed to save recipe with ingredient lines")
		return err
	}

	return nil
}

// DeleteCascade removes the recipe and all of its lines in one transaction.
func (r *RecipeRepository) DeleteCascade(ctx context.Context, recipeID string) error {
	log := logger.FromContext(ctx)

	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteRecipeLinesByRecipe, recipeID); err != nil {
			return fmt.Errorf("failed to delete recipe lines (recipe_id=%s): %w", recipeID, err)
		}
		if _, err := tx.ExecContext(ctx, deleteRecipeByID, recipeID); err != nil {
			return fmt.Errorf("failed to delete recipe (id=%s): %w", recipeID, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "RecipeRepository.DeleteCascade").
			Str("recipe_id", recipeID).
			Msg("failed to delete recipe cascade")
		return err
	}

	return nil
}

// LinesByRecipe returns the ingredient lines of one recipe.
func (r *RecipeRepository) LinesByRecipe(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error) {
	query, args, err := sq.Select(RecipeIngredientTable.Columns...).
		From(RecipeIngredientTable.Name).
		Where(sq.Eq{"recipe_id": recipeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe lines (recipe_id=%s): %w", recipeID, err)
	}
	defer rows.Close()

	return scanRows(rows, RecipeIngredientTable)
}

// IngredientRepository owns the cascade deletion of ingredients.
type IngredientRepository struct {
	db *DB
}

// NewIngredientRepository constructs an ingredient repository.
func NewIngredientRepository(db *DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// DeleteCascade removes the ingredient and every recipe line referencing it
// in one transaction.
func (r *IngredientRepository) DeleteCascade(ctx context.Context, ingredientID string) error {
	log := logger.FromContext(ctx)

	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteRecipeLinesByIngredient, ingredientID); err != nil {
			return fmt.Errorf("failed to delete referencing recipe lines (ingredient_id=%s): %w", ingredientID, err)
		}
		if _, err := tx.ExecContext(ctx, deleteIngredientByID, ingredientID); err != nil {
			return fmt.Errorf("failed to delete ingredient (id=%s): %w", ingredientID, err)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "IngredientRepository.DeleteCascade").
			Str("ingredient_id", ingredientID).
			Msg("failed to delete ingredient cascade")
		return err
	}

	return nil
}

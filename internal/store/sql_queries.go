package store

const (
	getKV = `
		SELECT value
		FROM kv
		WHERE key = ?;`

	putKV = `
		INSERT OR REPLACE INTO kv (key, value)
		VALUES (?, ?);`

	deleteKV = `
		DELETE FROM kv
		WHERE key = ?;`

	deleteRecipeLinesByRecipe = `
		DELETE FROM recipe_ingredients
		WHERE recipe_id = ?;`

	deleteRecipeLinesByIngredient = `
		DELETE FROM recipe_ingredients
		WHERE ingredient_id = ?;`

	deleteRecipeByID = `
		DELETE FROM recipes
		WHERE id = ?;`

	deleteIngredientByID = `
		DELETE FROM ingredients
		WHERE id = ?;`
)

package models

// Ingredient is a purchasable raw product with a unit cost and declared
// allergens. Deleting an ingredient cascades to every recipe line that
// references it.
type Ingredient struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Unit      string   `json:"unit"`
	UnitCost  float64  `json:"unitCost"`
	Supplier  string   `json:"supplier,omitempty"`
	Allergens []string `json:"allergens,omitempty"`
	CreatedAt string   `json:"createdAt"`
}

// Recipe is a dish with a computed per-portion cost and an allergen set
// derived from its linked ingredients plus manually entered entries.
type Recipe struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category,omitempty"`
	Portions        int      `json:"portions"`
	Instructions    string   `json:"instructions,omitempty"`
	SellingPrice    float64  `json:"sellingPrice,omitempty"`
	CostPerPortion  float64  `json:"costPerPortion"`
	TotalCost       float64  `json:"totalCost"`
	Allergens       []string `json:"allergens,omitempty"`
	ManualAllergens []string `json:"manualAllergens,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
}

// RecipeIngredient is one line of a recipe. Lines are owned by their recipe:
// saving a recipe always replaces the complete line set, and deleting either
// the recipe or the referenced ingredient removes the line.
type RecipeIngredient struct {
	ID           string  `json:"id"`
	RecipeID     string  `json:"recipeId"`
	IngredientID string  `json:"ingredientId"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit,omitempty"`
}

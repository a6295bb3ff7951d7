package models

// RecipeIngredient is one ingredient line of a suggested recipe.
type RecipeIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Note     string `json:"note,omitempty"`
}

// Recipe is a single suggestion built from the pantry.
type Recipe struct {
	Name                  string             `json:"name"`
	PrepTime              string             `json:"prepTime"`
	Servings              int                `json:"servings"`
	IngredientsFromPantry []RecipeIngredient `json:"ingredientsFromPantry"`
	IngredientsToBuy      []RecipeIngredient `json:"ingredientsToBuy"`
	Directions            []string           `json:"directions"`
}

// RawFallback carries model output that could not be parsed as a recipe.
type RawFallback struct {
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// SuggestionResult is either a parsed recipe or a degraded one with the raw
// text attached. Recipe is always populated.
type SuggestionResult struct {
	Recipe   Recipe       `json:"recipe"`
	Fallback *RawFallback `json:"fallback,omitempty"`
	Cached   bool         `json:"cached"`
}

package handlers

import (
	"net/http"

	"savor/internal/services"

	"github.com/labstack/echo/v4"
)

type RecipeHandlers struct {
	recipeService services.RecipeService
}

func NewRecipeHandlers(recipeService services.RecipeService) *RecipeHandlers {
	return &RecipeHandlers{recipeService: recipeService}
}

// SuggestRecipe asks the model for one recipe built from the active pantry.
// A reply that cannot be parsed still returns 200 with the raw text attached.
func (h *RecipeHandlers) SuggestRecipe(c echo.Context) error {
	result, err := h.recipeService.SuggestForPantry(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

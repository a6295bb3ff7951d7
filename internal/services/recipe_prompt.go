package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"savor/internal/common"
	"savor/internal/llm"
	"savor/internal/models"
)

// UseSoonDays is the widest gap, in days, that still counts as "use soon".
const UseSoonDays = 3

const recipeSystemPrompt = "You are a home cook who plans meals around what is already in the pantry. You answer with JSON only."

// UrgencyTag classifies an expiration date relative to today.
func UrgencyTag(expiration *time.Time, today time.Time) string {
	if expiration == nil {
		return "—"
	}

	// Stored dates are calendar days; compare fields, not instants.
	y, m, d := expiration.Date()
	exp := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	days := int(math.Round(exp.Sub(common.DateOnly(today)).Hours() / 24))
	switch {
	case days < 0:
		return "EXPIRED"
	case days <= UseSoonDays:
		return "USE SOON"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// PantrySummary renders one line per active item, in the given order.
func PantrySummary(items []*models.InventoryItem, today time.Time) string {
	var b strings.Builder
	for _, item := range items {
		if !item.IsActive() {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s %s [%s]\n",
			item.Name,
			strconv.FormatFloat(item.CurrentQuantity, 'f', -1, 64),
			item.UserUnit,
			UrgencyTag(item.ExpirationDate, today),
		)
	}
	return b.String()
}

func buildRecipePrompt(summary string) string {
	return fmt.Sprintf(`Here is what is in my pantry. Items tagged EXPIRED or USE SOON should be used first.

%s
Suggest ONE recipe that uses as many of the urgent items as possible.
Return ONLY a JSON object, no markdown and no other text, with exactly these keys:
{
  "name": "string",
  "prepTime": "string, e.g. 25 minutes",
  "servings": number,
  "ingredientsFromPantry": [{"name": "string, as written in the pantry list", "quantity": "string", "note": "string"}],
  "ingredientsToBuy": [{"name": "string", "quantity": "string", "note": "string"}],
  "directions": ["step 1", "step 2"]
}`, summary)
}

// placeholderRecipe is served when there is nothing to cook with.
func placeholderRecipe() models.Recipe {
	return models.Recipe{
		Name:                  "Your pantry is empty",
		PrepTime:              "",
		IngredientsFromPantry: []models.RecipeIngredient{},
		IngredientsToBuy:      []models.RecipeIngredient{},
		Directions: []string{
			"Add items to your pantry, or scan a grocery receipt, then ask for a recipe again.",
		},
	}
}

// emptyReplyRecipe is served when the model answered with nothing.
func emptyReplyRecipe() models.Recipe {
	return models.Recipe{
		Name:                  "No suggestion this time",
		IngredientsFromPantry: []models.RecipeIngredient{},
		IngredientsToBuy:      []models.RecipeIngredient{},
		Directions: []string{
			"The recipe assistant returned an empty answer. Ask again for a new suggestion.",
		},
	}
}

// fallbackRecipe wraps unparseable model output so the caller still gets a
// recipe to show. The raw text is kept verbatim.
func fallbackRecipe(raw string) models.Recipe {
	return models.Recipe{
		Name:                  "Suggested recipe",
		IngredientsFromPantry: []models.RecipeIngredient{},
		IngredientsToBuy:      []models.RecipeIngredient{},
		Directions:            []string{raw},
	}
}

// ingredient accepts either {"name": ...} or a bare string.
type ingredient models.RecipeIngredient

func (i *ingredient) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*i = ingredient{Name: name}
		return nil
	}

	var obj struct {
		Name     string          `json:"name"`
		Quantity json.RawMessage `json:"quantity"`
		Note     string          `json:"note"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*i = ingredient{Name: obj.Name, Quantity: scalarText(obj.Quantity), Note: obj.Note}
	return nil
}

type recipeReply struct {
	Name                  string          `json:"name"`
	PrepTime              json.RawMessage `json:"prepTime"`
	Servings              json.RawMessage `json:"servings"`
	IngredientsFromPantry []ingredient    `json:"ingredientsFromPantry"`
	IngredientsToBuy      []ingredient    `json:"ingredientsToBuy"`
	Directions            []string        `json:"directions"`
}

var (
	errRecipeNoName       = errors.New("recipe has no name")
	errRecipeNoDirections = errors.New("recipe has no directions")
)

// parseRecipe decodes the model's JSON reply. Any shape problem is an error;
// the caller falls back instead of failing.
func parseRecipe(text string) (models.Recipe, error) {
	body := llm.StripFences(text)

	var reply recipeReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		span, spanErr := llm.ExtractJSON(body, '{', '}')
		if spanErr != nil {
			return models.Recipe{}, err
		}
		reply = recipeReply{}
		if err := json.Unmarshal([]byte(span), &reply); err != nil {
			return models.Recipe{}, err
		}
	}

	name := strings.TrimSpace(reply.Name)
	if name == "" {
		return models.Recipe{}, errRecipeNoName
	}

	directions := make([]string, 0, len(reply.Directions))
	for _, step := range reply.Directions {
		if step = strings.TrimSpace(step); step != "" {
			directions = append(directions, step)
		}
	}
	if len(directions) == 0 {
		return models.Recipe{}, errRecipeNoDirections
	}

	return models.Recipe{
		Name:                  name,
		PrepTime:              scalarText(reply.PrepTime),
		Servings:              parseServings(reply.Servings),
		IngredientsFromPantry: toIngredients(reply.IngredientsFromPantry),
		IngredientsToBuy:      toIngredients(reply.IngredientsToBuy),
		Directions:            directions,
	}, nil
}

func toIngredients(in []ingredient) []models.RecipeIngredient {
	out := make([]models.RecipeIngredient, 0, len(in))
	for _, i := range in {
		if strings.TrimSpace(i.Name) == "" {
			continue
		}
		out = append(out, models.RecipeIngredient(i))
	}
	return out
}

// scalarText renders a JSON string or number as plain text.
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

// parseServings accepts 4, 4.0, "4" or "4 servings"; anything else is 0.
func parseServings(raw json.RawMessage) int {
	text := scalarText(raw)
	if fields := strings.Fields(text); len(fields) > 0 {
		text = fields[0]
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || n < 0 {
		return 0
	}
	return int(n)
}

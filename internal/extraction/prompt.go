package extraction

import (
	"fmt"
	"time"

	"savor/internal/common"
)

const systemPrompt = "You read grocery receipts and return machine-readable line items. You never add commentary."

// categories offered to the model; anything else is stored as given.
var categories = []string{"protein", "carb", "dairy", "fruit", "vegetable", "other"}

func buildPrompt(today time.Time) string {
	return fmt.Sprintf(`Analyze this grocery receipt image and extract ONLY the food items.
Strictly ignore anything that is not food: taxes, fees, bag charges, deposits, discounts, totals, cleaning supplies, utensils.

Today's date is %s.

Return ONLY a JSON array, no markdown and no other text, where each element has exactly these keys:
[
  {
    "name": "string, the food item as a shopper would call it",
    "category": "one of %q",
    "quantity": number, how many or how much was bought (1 if not printed),
    "unit": "string, e.g. count, lb, oz, kg, g, gallon, l, ml, cup (count if not printed)",
    "price": number, the line total paid for this item (0 if not printed),
    "expiration_date": "YYYY-MM-DD estimated from typical shelf life starting today, or null if you cannot estimate"
  }
]

Rules:
1. Dates MUST be in YYYY-MM-DD format.
2. Quantity and price MUST be plain numbers without currency symbols.
3. Output NOTHING but the JSON array.`, today.Format(common.DateLayout), categories)
}

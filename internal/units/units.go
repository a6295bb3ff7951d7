// Package units maps free-form pantry units onto the three standard unit
// families and their conversion factors.
package units

import (
	"strings"

	"savor/internal/models"
)

var massFactors = map[string]float64{
	"g": 1, "gram": 1, "grams": 1,
	"kg": 1000, "kilogram": 1000, "kilograms": 1000,
	"oz": 28.3495, "ounce": 28.3495, "ounces": 28.3495,
	"lb": 453.5924, "lbs": 453.5924, "pound": 453.5924, "pounds": 453.5924,
}

var volumeFactors = map[string]float64{
	"ml": 1, "milliliter": 1, "millilitre": 1, "milliliters": 1, "millilitres": 1,
	"l": 1000, "liter": 1000, "litre": 1000, "liters": 1000, "litres": 1000,
	"cup": 236.588, "cups": 236.588,
	"tbsp": 14.7868, "tablespoon": 14.7868, "tablespoons": 14.7868,
	"tsp": 4.92892, "teaspoon": 4.92892, "teaspoons": 4.92892,
	"fl oz": 29.5735, "floz": 29.5735,
}

// InferConversionFactor returns the multiplier from userUnit to the base unit
// of standardUnit. Mass units only resolve against g, volume units only
// against ml; count and unrecognized units map 1:1. Stored factors depend on
// this staying a plain lookup.
func InferConversionFactor(userUnit string, standardUnit models.StandardUnit) float64 {
	u := normalize(userUnit)

	switch standardUnit {
	case models.UnitGram:
		if f, ok := massFactors[u]; ok {
			return f
		}
	case models.UnitMilliliter:
		if f, ok := volumeFactors[u]; ok {
			return f
		}
	}

	return 1
}

// liquid and mass keywords; anything else is counted.
var (
	liquidWords = []string{
		"fl oz", "floz", "ml", "milliliter", "millilitre", "l", "liter", "litre",
		"cup", "tbsp", "tablespoon", "tsp", "teaspoon", "gallon", "gal",
		"quart", "qt", "pint", "pt",
	}
	massWords = []string{
		"g", "gram", "kg", "kilogram", "oz", "ounce", "lb", "lbs", "pound",
	}
)

// ClassifyStandardUnit guesses the standard unit family of a free-form unit.
// "fl oz" is checked before "oz" so fluid ounces stay liquid.
func ClassifyStandardUnit(unit string) models.StandardUnit {
	u := normalize(unit)
	if u == "" {
		return models.UnitCount
	}

	if matchesAny(u, liquidWords) {
		return models.UnitMilliliter
	}
	if matchesAny(u, massWords) {
		return models.UnitGram
	}
	return models.UnitCount
}

// matchesAny matches u against the keyword list, allowing a plural "s".
func matchesAny(u string, words []string) bool {
	for _, w := range words {
		if u == w || u == w+"s" || u == w+"es" {
			return true
		}
	}
	return false
}

func normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// Resolve classifies unit and returns its family and factor together.
func Resolve(unit string) (models.StandardUnit, float64) {
	su := ClassifyStandardUnit(unit)
	return su, InferConversionFactor(unit, su)
}

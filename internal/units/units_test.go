package units

import (
	"testing"

	"savor/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestInferConversionFactor_KnownPairs(t *testing.T) {
	cases := []struct {
		unit     string
		standard models.StandardUnit
		want     float64
	}{
		{"g", models.UnitGram, 1},
		{"kg", models.UnitGram, 1000},
		{"oz", models.UnitGram, 28.3495},
		{"lb", models.UnitGram, 453.5924},
		{"Pounds", models.UnitGram, 453.5924},
		{"  KG ", models.UnitGram, 1000},
		{"ml", models.UnitMilliliter, 1},
		{"l", models.UnitMilliliter, 1000},
		{"cup", models.UnitMilliliter, 236.588},
		{"tbsp", models.UnitMilliliter, 14.7868},
		{"tsp", models.UnitMilliliter, 4.92892},
		{"fl oz", models.UnitMilliliter, 29.5735},
		{"Litres", models.UnitMilliliter, 1000},
	}

	for _, tc := range cases {
		t.Run(tc.unit+"/"+string(tc.standard), func(t *testing.T) {
			assert.Equal(t, tc.want, InferConversionFactor(tc.unit, tc.standard))
		})
	}
}

func TestInferConversionFactor_DefaultsToOne(t *testing.T) {
	cases := []struct {
		unit     string
		standard models.StandardUnit
	}{
		{"lb", models.UnitMilliliter},   // mass unit against volume family
		{"cup", models.UnitGram},        // volume unit against mass family
		{"kg", models.UnitCount},        // count never converts
		{"count", models.UnitCount},
		{"dozen", models.UnitCount},
		{"handful", models.UnitGram},    // unrecognized
		{"", models.UnitMilliliter},
		{"lb.", models.UnitGram},        // no fuzzy matching
	}

	for _, tc := range cases {
		t.Run(tc.unit+"/"+string(tc.standard), func(t *testing.T) {
			assert.Equal(t, 1.0, InferConversionFactor(tc.unit, tc.standard))
		})
	}
}

func TestClassifyStandardUnit(t *testing.T) {
	cases := map[string]models.StandardUnit{
		"lb":     models.UnitGram,
		"lbs":    models.UnitGram,
		"Grams":  models.UnitGram,
		"oz":     models.UnitGram,
		"fl oz":  models.UnitMilliliter,
		"cups":   models.UnitMilliliter,
		"gallon": models.UnitMilliliter,
		"L":      models.UnitMilliliter,
		"count":  models.UnitCount,
		"egg":    models.UnitCount,
		"eggs":   models.UnitCount,
		"dozen":  models.UnitCount,
		"bag":    models.UnitCount,
		"":       models.UnitCount,
	}

	for unit, want := range cases {
		assert.Equal(t, want, ClassifyStandardUnit(unit), "unit %q", unit)
	}
}

func TestResolve_PoundExample(t *testing.T) {
	su, factor := Resolve("lb")
	assert.Equal(t, models.UnitGram, su)
	assert.Equal(t, 453.5924, factor)
	assert.InDelta(t, 907.1848, 2*factor, 1e-9)
}

package nutrition

import (
	"errors"
	"math"

	"github.com/spf13/cast"
)

/* ─── Raw records (FoodData Central shape) ───────────────────────────── */

// RawFood is one food record as returned by the lookup collaborator. FdcID may
// arrive as a JSON number or string; Amount may be a number, a numeric string,
// null or missing.
type RawFood struct {
	Description   string            `json:"description"`
	FdcID         any               `json:"fdcId"`
	BrandOwner    string            `json:"brandOwner,omitempty"`
	FoodNutrients []RawFoodNutrient `json:"foodNutrients"`
}

// RawFoodNutrient is one entry of RawFood.FoodNutrients.
type RawFoodNutrient struct {
	Nutrient RawNutrient `json:"nutrient"`
	Amount   any         `json:"amount,omitempty"`
}

// RawNutrient carries the source nutrient name used for alias matching.
type RawNutrient struct {
	Name     string `json:"name"`
	UnitName string `json:"unitName,omitempty"`
}

/* ─── Normalized records ─────────────────────────────────────────────── */

// NormalizedFood is a food with a total nutrient map over TrackedNutrients.
type NormalizedFood struct {
	Name      string                  `json:"food_name"`
	SourceID  string                  `json:"source_id"`
	Brand     string                  `json:"brand"`
	Nutrients map[NutrientKey]float64 `json:"nutrients"`
}

// Value returns the amount for k, 0 when absent.
func (f NormalizedFood) Value(k NutrientKey) float64 { return f.Nutrients[k] }

// DailyValueFractions expresses each tracked nutrient as a fraction of its
// reference daily value (1.0 = one full day).
func (f NormalizedFood) DailyValueFractions() map[NutrientKey]float64 {
	out := make(map[NutrientKey]float64, len(TrackedNutrients))
	for _, k := range TrackedNutrients {
		out[k] = f.Nutrients[k] / DailyValues[k]
	}
	return out
}

// canonicalSourceNames picks one source name per tracked key for ToRaw.
var canonicalSourceNames = map[NutrientKey]string{
	Calories: "Energy",
	Protein:  "Protein",
	Fat:      "Total lipid (fat)",
	Carbs:    "Carbohydrate, by difference",
	Sugar:    "Total Sugars",
	Fiber:    "Fiber, total dietary",
	Sodium:   "Sodium, Na",
}

// ToRaw renders f back into the raw record shape with one entry per tracked
// key. Normalizing the result yields f again.
func (f NormalizedFood) ToRaw() RawFood {
	raw := RawFood{
		Description:   f.Name,
		FdcID:         f.SourceID,
		BrandOwner:    f.Brand,
		FoodNutrients: make([]RawFoodNutrient, 0, len(TrackedNutrients)),
	}
	for _, k := range TrackedNutrients {
		raw.FoodNutrients = append(raw.FoodNutrients, RawFoodNutrient{
			Nutrient: RawNutrient{Name: canonicalSourceNames[k]},
			Amount:   f.Nutrients[k],
		})
	}
	return raw
}

/* ─── Normalization ──────────────────────────────────────────────────── */

var (
	errNotFinite = errors.New("not a finite number")
	errNegative  = errors.New("negative amount")
)

// coerceAmount reads a raw amount as a non-negative real. A missing amount
// counts as 0.
func coerceAmount(v any) (float64, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	if f < 0 {
		return 0, errNegative
	}
	return f, nil
}

// Normalize maps raw records onto the tracked nutrient schema, preserving
// input order. Entries whose amount cannot be read are skipped.
func Normalize(raw []RawFood) []NormalizedFood {
	foods, _ := NormalizeWithReport(raw)
	return foods
}

// NormalizeWithReport is Normalize plus the list of skipped entries, in the
// order they were met.
func NormalizeWithReport(raw []RawFood) ([]NormalizedFood, []*MalformedNutrientEntryError) {
	foods := make([]NormalizedFood, 0, len(raw))
	var skipped []*MalformedNutrientEntryError
	for _, r := range raw {
		food, bad := normalizeOne(r)
		foods = append(foods, food)
		skipped = append(skipped, bad...)
	}
	return foods, skipped
}

func normalizeOne(r RawFood) (NormalizedFood, []*MalformedNutrientEntryError) {
	sourceID := cast.ToString(r.FdcID)

	// Entries are applied in source order, so for aliased keys the later
	// entry overwrites the earlier one.
	extracted := make(map[NutrientKey]float64)
	var skipped []*MalformedNutrientEntryError
	for _, entry := range r.FoodNutrients {
		key, ok := AliasFor(entry.Nutrient.Name)
		if !ok {
			continue
		}
		amount, err := coerceAmount(entry.Amount)
		if err != nil {
			skipped = append(skipped, &MalformedNutrientEntryError{
				SourceID: sourceID,
				Nutrient: entry.Nutrient.Name,
				Amount:   entry.Amount,
				Err:      err,
			})
			continue
		}
		extracted[key] = amount
	}

	nutrients := zeroNutrients()
	for k, v := range extracted {
		nutrients[k] = v
	}

	return NormalizedFood{
		Name:      r.Description,
		SourceID:  sourceID,
		Brand:     r.BrandOwner,
		Nutrients: nutrients,
	}, skipped
}

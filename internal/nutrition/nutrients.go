package nutrition

// NutrientKey names one tracked nutrient. The string values are part of the
// API contract and appear as-is in JSON.
type NutrientKey string

const (
	Calories NutrientKey = "Calories"
	Protein  NutrientKey = "Protein (g)"
	Fat      NutrientKey = "Fat (g)"
	Carbs    NutrientKey = "Carbs (g)"
	Sugar    NutrientKey = "Sugar (g)"
	Fiber    NutrientKey = "Fiber (g)"
	Sodium   NutrientKey = "Sodium (mg)"
)

// TrackedNutrients is the fixed key set every normalized record carries, in
// display order.
var TrackedNutrients = []NutrientKey{Calories, Protein, Fat, Carbs, Sugar, Fiber, Sodium}

// nutrientAliases maps FoodData Central nutrient names to tracked keys. Both
// sugar spellings land on Sugar; when a record carries both, the one that
// appears later in the record wins.
var nutrientAliases = map[string]NutrientKey{
	"Energy":                       Calories,
	"Protein":                      Protein,
	"Total lipid (fat)":            Fat,
	"Carbohydrate, by difference":  Carbs,
	"Sugars, total including NLEA": Sugar,
	"Total Sugars":                 Sugar,
	"Fiber, total dietary":         Fiber,
	"Sodium, Na":                   Sodium,
}

// AliasFor returns the tracked key for a source nutrient name.
func AliasFor(sourceName string) (NutrientKey, bool) {
	k, ok := nutrientAliases[sourceName]
	return k, ok
}

// DailyValues are reference daily intakes for an adult, used to express a
// food's nutrients as a fraction of a day.
var DailyValues = map[NutrientKey]float64{
	Calories: 2000,
	Protein:  50,
	Fat:      78,
	Carbs:    300,
	Sugar:    50,
	Fiber:    28,
	Sodium:   2300,
}

// zeroNutrients returns a fresh map with every tracked key set to 0.
func zeroNutrients() map[NutrientKey]float64 {
	m := make(map[NutrientKey]float64, len(TrackedNutrients))
	for _, k := range TrackedNutrients {
		m[k] = 0
	}
	return m
}

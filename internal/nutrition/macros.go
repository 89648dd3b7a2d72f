package nutrition

// Macro split policy: share of daily calories per macro, energy density in
// kcal per gram, and meals per day.
const (
	proteinShare = 0.4
	fatShare     = 0.3
	carbsShare   = 0.3

	proteinKcalPerGram = 4
	fatKcalPerGram     = 9
	carbsKcalPerGram   = 4

	MealsPerDay = 3
)

// MacroTargets are grams per meal.
type MacroTargets struct {
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`
}

// ComputeTargetMacrosPerMeal splits one meal's share of tee across protein,
// fat and carbs. A negative tee yields negative targets; callers guard.
func ComputeTargetMacrosPerMeal(tee float64) MacroTargets {
	return MacroTargets{
		ProteinG: tee * proteinShare / proteinKcalPerGram / MealsPerDay,
		FatG:     tee * fatShare / fatKcalPerGram / MealsPerDay,
		CarbsG:   tee * carbsShare / carbsKcalPerGram / MealsPerDay,
	}
}

// ByKey returns the targets keyed like normalized nutrient maps.
func (t MacroTargets) ByKey() map[NutrientKey]float64 {
	return map[NutrientKey]float64{
		Protein: t.ProteinG,
		Fat:     t.FatG,
		Carbs:   t.CarbsG,
	}
}

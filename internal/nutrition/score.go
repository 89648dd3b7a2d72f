package nutrition

import (
	"cmp"
	"slices"
)

// ScoredFood is a normalized food with its per-nutrient and weighted scores.
type ScoredFood struct {
	NormalizedFood
	CaloriesScore float64 `json:"calories_score"`
	ProteinScore  float64 `json:"protein_score"`
	FatScore      float64 `json:"fat_score"`
	CarbsScore    float64 `json:"carbs_score"`
	TotalScore    float64 `json:"total_score"`
}

// scoreWeights orders weights as calories, protein, fat, carbs.
type scoreWeights [4]float64

// goalWeights has no default entry: an unknown goal is an error, not a guess.
var goalWeights = map[Goal]scoreWeights{
	MuscleGain: {0.2, 0.4, 0.2, 0.2},
	FatLoss:    {0.3, 0.4, 0.3, 0.2},
}

// WeightsFor returns the calories/protein/fat/carbs weights for a goal.
func WeightsFor(g Goal) ([4]float64, error) {
	w, ok := goalWeights[g]
	if !ok {
		return [4]float64{}, &UnknownGoalError{Goal: g}
	}
	return w, nil
}

// ParseGoal validates a goal name.
func ParseGoal(s string) (Goal, error) {
	g := Goal(s)
	if _, ok := goalWeights[g]; !ok {
		return "", &UnknownGoalError{Goal: g}
	}
	return g, nil
}

// boundedScore gives linear credit up to the target and caps at 1.
func boundedScore(value, target float64) float64 {
	return min(value/target, 1)
}

// penalizedScore gives linear credit up to the target, then decays linearly
// to 0 at twice the target and stays there.
func penalizedScore(value, target float64) float64 {
	if value > target {
		return max(0, 2-value/target)
	}
	return value / target
}

// checkDenominators rejects any target that would divide by zero or flip sign.
func checkDenominators(targets MacroTargets, tee float64) error {
	for _, d := range []struct {
		name  string
		value float64
	}{
		{"tee", tee},
		{"protein", targets.ProteinG},
		{"fat", targets.FatG},
		{"carbs", targets.CarbsG},
	} {
		if !(d.value > 0) {
			return &InvalidTargetError{Target: d.name, Value: d.value}
		}
	}
	return nil
}

// Score rates each food against one meal's targets and returns them sorted by
// TotalScore, highest first; ties keep input order. Calories are compared
// against tee, protein/fat/carbs against targets. An empty input returns an
// empty result. The goal is checked first, then the denominators.
func Score(foods []NormalizedFood, targets MacroTargets, tee float64, goal Goal) ([]ScoredFood, error) {
	w, err := WeightsFor(goal)
	if err != nil {
		return nil, err
	}
	if len(foods) == 0 {
		return []ScoredFood{}, nil
	}
	if err := checkDenominators(targets, tee); err != nil {
		return nil, err
	}

	scored := make([]ScoredFood, 0, len(foods))
	for _, f := range foods {
		s := ScoredFood{
			NormalizedFood: f,
			CaloriesScore:  penalizedScore(f.Value(Calories), tee),
			ProteinScore:   boundedScore(f.Value(Protein), targets.ProteinG),
			FatScore:       penalizedScore(f.Value(Fat), targets.FatG),
			CarbsScore:     penalizedScore(f.Value(Carbs), targets.CarbsG),
		}
		s.TotalScore = s.CaloriesScore*w[0] +
			s.ProteinScore*w[1] +
			s.FatScore*w[2] +
			s.CarbsScore*w[3]
		scored = append(scored, s)
	}

	slices.SortStableFunc(scored, func(a, b ScoredFood) int {
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})
	return scored, nil
}

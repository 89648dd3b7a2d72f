package nutrition

// Ranking is the full pipeline output for one profile and goal.
type Ranking struct {
	Estimate EnergyEstimate                 `json:"estimate"`
	Targets  MacroTargets                   `json:"targets"`
	Goal     Goal                           `json:"goal"`
	Foods    []ScoredFood                   `json:"foods"`
	Skipped  []*MalformedNutrientEntryError `json:"-"`
}

// RankFoods estimates energy for p, derives per-meal targets, normalizes raw
// and scores the result for goal. Scorer errors are returned unchanged.
func RankFoods(p Profile, goal Goal, raw []RawFood) (Ranking, error) {
	est := Estimate(p)
	targets := ComputeTargetMacrosPerMeal(est.TEE)
	foods, skipped := NormalizeWithReport(raw)

	scored, err := Score(foods, targets, est.TEE, goal)
	if err != nil {
		return Ranking{}, err
	}
	return Ranking{
		Estimate: est,
		Targets:  targets,
		Goal:     goal,
		Foods:    scored,
		Skipped:  skipped,
	}, nil
}

// Top returns at most n foods from the head of the ranking. n <= 0 returns all.
func (r Ranking) Top(n int) []ScoredFood {
	if n <= 0 || n >= len(r.Foods) {
		return r.Foods
	}
	return r.Foods[:n]
}

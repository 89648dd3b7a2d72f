package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/nutrition-go-api/internal/metrics"
	"lg/nutrition-go-api/internal/nutrition"
)

// rankFoods looks up foods matching q, scores them against one meal of the
// user's targets and returns the best ones first.
// GET /api/foods/rank?q=...&limit=N&goal=muscle_gain|fat_loss.
// goal defaults to the stored profile's goal.
func (h *Handler) rankFoods(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		apiError(c, http.StatusBadRequest, "q is required")
		return
	}

	limit := h.rankDefaultLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			apiError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, h.rankMaxLimit)
	}

	stored, ok := h.loadProfile(c)
	if !ok {
		return
	}

	goalName := c.DefaultQuery("goal", stored.Goal)
	goal, err := nutrition.ParseGoal(goalName)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	raw, err := h.foods.Lookup(c.Request.Context(), query)
	if err != nil {
		h.log.WithError(err).Error("food lookup failed", map[string]interface{}{"query": query})
		apiError(c, http.StatusBadGateway, "food lookup failed")
		return
	}

	ranking, err := nutrition.RankFoods(stored.toProfile(), goal, raw)
	switch {
	case errors.Is(err, nutrition.ErrInvalidTarget):
		apiError(c, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, nutrition.ErrUnknownGoal):
		apiError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.WithError(err).Error("rank foods failed", map[string]interface{}{"query": query})
		apiError(c, http.StatusInternalServerError, "failed to rank foods")
		return
	}

	for _, s := range ranking.Skipped {
		h.log.Warn("skipped malformed nutrient", map[string]interface{}{
			"source_id": s.SourceID,
			"nutrient":  s.Nutrient,
			"amount":    s.Amount,
			"reason":    s.Err.Error(),
		})
	}
	metrics.MalformedNutrients.Add(float64(len(ranking.Skipped)))
	metrics.FoodsRanked.Observe(float64(len(ranking.Foods)))

	top := ranking.Top(limit)
	foods := make([]rankedFood, 0, len(top))
	for _, f := range top {
		foods = append(foods, rankedFood{ScoredFood: f, DailyValues: f.DailyValueFractions()})
	}

	c.JSON(http.StatusOK, rankResponse{
		Query:   query,
		Goal:    goal,
		TEE:     ranking.Estimate.TEE,
		Targets: ranking.Targets,
		Foods:   foods,
		Skipped: len(ranking.Skipped),
	})
}

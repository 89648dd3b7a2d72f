package main

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lg/nutrition-go-api/internal/exercise"
	"lg/nutrition-go-api/internal/nutrition"
)

// getEnergy returns BMR, TEE and BMI for the stored profile, the per-meal
// macro targets, and how much exercise burns one meal's calories.
// GET /api/energy.
func (h *Handler) getEnergy(c *gin.Context) {
	stored, ok := h.loadProfile(c)
	if !ok {
		return
	}
	p := stored.toProfile()

	est := nutrition.Estimate(p)
	bmi := exercise.BMI(p.WeightKG, p.HeightCM)
	mealKcal := est.TEE / nutrition.MealsPerDay

	c.JSON(http.StatusOK, energyResponse{
		BMR:          est.BMR,
		TEE:          est.TEE,
		BMI:          bmi,
		MealsPerDay:  nutrition.MealsPerDay,
		Targets:      nutrition.ComputeTargetMacrosPerMeal(est.TEE),
		BurnOneMeal:  exercise.CaloriesToExercise(mealKcal, bmi, p.Age),
		ActivityUsed: string(p.ActivityLevel),
	})
}

// getExerciseEquivalents converts a calorie amount into time and distance per
// activity, adjusted for the user's BMI and age.
// GET /api/exercise/equivalents?calories=N.
func (h *Handler) getExerciseEquivalents(c *gin.Context) {
	calories, err := strconv.ParseFloat(c.Query("calories"), 64)
	if err != nil || !(calories >= 0) || math.IsInf(calories, 1) {
		apiError(c, http.StatusBadRequest, "calories must be a non-negative number")
		return
	}

	stored, ok := h.loadProfile(c)
	if !ok {
		return
	}
	bmi := exercise.BMI(stored.WeightKG, stored.HeightCM)

	c.JSON(http.StatusOK, gin.H{
		"calories":    calories,
		"bmi":         bmi,
		"equivalents": exercise.CaloriesToExercise(calories, bmi, stored.Age),
	})
}

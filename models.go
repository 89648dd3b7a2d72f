package main

import (
	"time"

	"lg/nutrition-go-api/internal/exercise"
	"lg/nutrition-go-api/internal/nutrition"
)

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles. One row per user; the anthropometric
// fields feed the energy model and Goal picks the scoring weights.
type userProfile struct {
	UserID        int        `json:"user_id"        db:"user_id"`
	Sex           string     `json:"sex"            db:"sex"`
	Age           int        `json:"age"            db:"age"`
	HeightCM      float64    `json:"height_cm"      db:"height_cm"`
	WeightKG      float64    `json:"weight_kg"      db:"weight_kg"`
	ActivityLevel string     `json:"activity_level" db:"activity_level"`
	Goal          string     `json:"goal"           db:"goal"`
	UpdatedAt     *time.Time `json:"updated_at"     db:"updated_at"`
}

// toProfile converts the stored row into the energy model's input.
func (p userProfile) toProfile() nutrition.Profile {
	return nutrition.Profile{
		Sex:           nutrition.ParseSex(p.Sex),
		Age:           p.Age,
		HeightCM:      p.HeightCM,
		WeightKG:      p.WeightKG,
		ActivityLevel: nutrition.ParseActivityLevel(p.ActivityLevel),
	}
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// profileRequest is the profile part of POST /api/register.
type profileRequest struct {
	Sex           string  `json:"sex"`
	Age           int     `json:"age"`
	HeightCM      float64 `json:"height_cm"`
	WeightKG      float64 `json:"weight_kg"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
}

// registerRequest is the request body for POST /api/register.
type registerRequest struct {
	Username        string         `json:"username"`
	Password        string         `json:"password"`
	ConfirmPassword string         `json:"confirm_password"`
	Email           string         `json:"email"`
	Profile         profileRequest `json:"profile"`
}

// patchProfileRequest is the request body for PATCH /api/profile.
// All fields are pointers: only non-nil fields get written to the database.
type patchProfileRequest struct {
	Sex           *string  `json:"sex"`
	Age           *int     `json:"age"`
	HeightCM      *float64 `json:"height_cm"`
	WeightKG      *float64 `json:"weight_kg"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
}

/* ─── Responses ──────────────────────────────────────────────────────── */

// energyResponse is the response shape for GET /api/energy.
type energyResponse struct {
	BMR          float64                `json:"bmr"`
	TEE          float64                `json:"tee"`
	BMI          float64                `json:"bmi"`
	MealsPerDay  int                    `json:"meals_per_day"`
	Targets      nutrition.MacroTargets `json:"targets"`
	BurnOneMeal  []exercise.Equivalent  `json:"burn_one_meal"`
	ActivityUsed string                 `json:"activity_level"`
}

// rankedFood is one entry of the GET /api/foods/rank response.
type rankedFood struct {
	nutrition.ScoredFood
	DailyValues map[nutrition.NutrientKey]float64 `json:"daily_values"`
}

// rankResponse is the response shape for GET /api/foods/rank.
type rankResponse struct {
	Query   string                 `json:"query"`
	Goal    nutrition.Goal         `json:"goal"`
	TEE     float64                `json:"tee"`
	Targets nutrition.MacroTargets `json:"targets"`
	Foods   []rankedFood           `json:"foods"`
	Skipped int                    `json:"skipped_nutrients"`
}

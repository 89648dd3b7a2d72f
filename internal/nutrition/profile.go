// Package nutrition estimates daily energy needs and ranks foods against
// per-meal macro targets derived from them.
//
// Everything in this package is a pure function of its arguments: no I/O, no
// logging, no shared state. It is safe to call from any number of goroutines.
package nutrition

import "strings"

// Sex selects the formula family used by the energy model.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// IsMale reports whether the male formulas apply. Every other value uses the
// female formulas.
func (s Sex) IsMale() bool { return s == Male }

// ParseSex normalizes case and whitespace. Anything that is not "male" maps to
// Female, matching the energy model's non-male branch.
func ParseSex(s string) Sex {
	if strings.EqualFold(strings.TrimSpace(s), string(Male)) {
		return Male
	}
	return Female
}

// ActivityLevel selects the TEE equation for youth and adult profiles.
type ActivityLevel string

const (
	Inactive   ActivityLevel = "inactive"
	LowActive  ActivityLevel = "low_active"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

// ActivityLevels lists the recognized levels, least to most active.
var ActivityLevels = []ActivityLevel{Inactive, LowActive, Active, VeryActive}

// ParseActivityLevel accepts "low active", "low-active" and "low_active"
// spellings. Unrecognized input falls into VeryActive, the same branch the
// TEE table uses for unknown levels.
func ParseActivityLevel(s string) ActivityLevel {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch ActivityLevel(norm) {
	case Inactive, LowActive, Active:
		return ActivityLevel(norm)
	}
	return VeryActive
}

// Goal selects the weight vector used by the scorer.
type Goal string

const (
	MuscleGain Goal = "muscle_gain"
	FatLoss    Goal = "fat_loss"
)

// Profile is the anthropometric input to the energy model. Ranges are not
// validated here; degenerate inputs produce degenerate but finite outputs.
type Profile struct {
	Sex           Sex           `json:"sex"`
	Age           int           `json:"age"`
	HeightCM      float64       `json:"height_cm"`
	WeightKG      float64       `json:"weight_kg"`
	ActivityLevel ActivityLevel `json:"activity_level"`
}

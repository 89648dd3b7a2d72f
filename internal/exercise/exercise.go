// Package exercise converts a calorie amount into the time and distance of
// common activities, adjusted for the person's BMI and age.
package exercise

import "math"

// Activity names one exercise option.
type Activity string

const (
	Running  Activity = "Running"
	Swimming Activity = "Swimming"
	Cycling  Activity = "Cycling"
	Walking  Activity = "Walking"
)

// Activities is the fixed output order of CaloriesToExercise.
var Activities = []Activity{Running, Swimming, Cycling, Walking}

// baseSpeedKMH is the unadjusted speed per activity. Unknown activities move
// at walking pace.
var baseSpeedKMH = map[Activity]float64{
	Running:  9.0,
	Swimming: 3.0,
	Cycling:  15.0,
	Walking:  5.0,
}

// kcalPerMinute is the burn rate per activity.
var kcalPerMinute = map[Activity]float64{
	Running:  10,
	Swimming: 14,
	Cycling:  8,
	Walking:  4,
}

const (
	overweightBMI    = 25
	overweightFactor = 0.9
	olderAge         = 40
	olderFactor      = 0.95
)

// Equivalent is how long and how far one activity takes to burn the amount.
type Equivalent struct {
	Activity   Activity `json:"activity"`
	TimeMin    int      `json:"time_min"`
	DistanceKM float64  `json:"distance_km"`
	SpeedKMH   float64  `json:"speed_kmh"`
}

// BMI returns weight / height² with height given in centimetres. A
// non-positive height returns 0.
func BMI(weightKG, heightCM float64) float64 {
	if heightCM <= 0 {
		return 0
	}
	m := heightCM / 100
	return weightKG / (m * m)
}

// EstimateSpeed returns the km/h for activity, slowed by 10% above BMI 25 and
// by 5% above age 40, rounded to two decimals.
func EstimateSpeed(activity Activity, bmi float64, age int) float64 {
	speed, ok := baseSpeedKMH[activity]
	if !ok {
		speed = baseSpeedKMH[Walking]
	}
	if bmi > overweightBMI {
		speed *= overweightFactor
	}
	if age > olderAge {
		speed *= olderFactor
	}
	return round2(speed)
}

// CaloriesToExercise returns one Equivalent per activity in Activities order.
// Minutes round half to even; distance is rounded to two decimals.
func CaloriesToExercise(calories, bmi float64, age int) []Equivalent {
	out := make([]Equivalent, 0, len(Activities))
	for _, a := range Activities {
		minutes := calories / kcalPerMinute[a]
		speed := EstimateSpeed(a, bmi, age)
		distance := minutes / 60 * speed
		out = append(out, Equivalent{
			Activity:   a,
			TimeMin:    int(math.RoundToEven(minutes)),
			DistanceKM: round2(distance),
			SpeedKMH:   speed,
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

package mortality

import (
	"math"
	"time"

	"weathermort.app/internal/core/observation"
)

// AgeGroup selects the age stratum of the assessed population
type AgeGroup string

const (
	AgeAll     AgeGroup = "all"
	AgeUnder20 AgeGroup = "under20"
	Age20To74  AgeGroup = "20to74"
	Age75Plus  AgeGroup = "75plus"
)

// Gender selects the gender stratum of the assessed population
type Gender string

const (
	GenderAll    Gender = "all"
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Risk levels ordered from least to most severe
const (
	LevelLow      = "low"
	LevelModerate = "moderate"
	LevelHigh     = "high"
	LevelVeryHigh = "very_high"
)

// BaseRate is the reference mortality rate per 100k population
const BaseRate = 5.0

// Temperature follows a U-shaped exposure curve: risk grows linearly below
// the cold threshold and faster above the heat threshold, each capped.
const (
	coldThreshold = 10.0
	heatThreshold = 30.0
	coldSlope     = 0.1
	heatSlope     = 0.15
	coldCap       = 1.5
	heatCap       = 2.0
)

const (
	humidityLowThreshold  = 30.0
	humidityHighThreshold = 80.0
	humiditySlope         = 0.01
	humidityLowCap        = 1.2
	humidityHighCap       = 1.3
)

var seasonalFactors = map[observation.Season]float64{
	observation.SeasonSpring: 1.0,
	observation.SeasonSummer: 1.1,
	observation.SeasonAutumn: 1.0,
	observation.SeasonWinter: 1.2,
}

var regionalFactors = map[string]float64{
	"Seoul":   1.0,
	"Busan":   0.9,
	"Daegu":   1.1,
	"Incheon": 1.0,
	"Gwangju": 0.95,
	"Daejeon": 0.95,
	"Ulsan":   0.9,
	"Jeju":    0.85,
}

var ageFactors = map[AgeGroup]float64{
	AgeAll:     1.0,
	AgeUnder20: 0.3,
	Age20To74:  1.0,
	Age75Plus:  2.5,
}

var genderFactors = map[Gender]float64{
	GenderAll:    1.0,
	GenderMale:   1.1,
	GenderFemale: 0.9,
}

var monthlyFactors = map[time.Month]float64{
	time.January:   1.2,
	time.February:  1.1,
	time.March:     1.0,
	time.April:     0.95,
	time.May:       0.9,
	time.June:      0.95,
	time.July:      1.0,
	time.August:    1.05,
	time.September: 0.95,
	time.October:   1.0,
	time.November:  1.05,
	time.December:  1.15,
}

func temperatureRisk(temp float64) float64 {
	switch {
	case temp < coldThreshold:
		return math.Min(1+(coldThreshold-temp)*coldSlope, coldCap)
	case temp > heatThreshold:
		return math.Min(1+(temp-heatThreshold)*heatSlope, heatCap)
	default:
		return 1.0
	}
}

func humidityRisk(humidity float64) float64 {
	switch {
	case humidity < humidityLowThreshold:
		return math.Min(1+(humidityLowThreshold-humidity)*humiditySlope, humidityLowCap)
	case humidity > humidityHighThreshold:
		return math.Min(1+(humidity-humidityHighThreshold)*humiditySlope, humidityHighCap)
	default:
		return 1.0
	}
}

func lookupFactor[K comparable](factors map[K]float64, key K) float64 {
	if f, ok := factors[key]; ok {
		return f
	}
	return 1.0
}

func riskLevel(rate float64) string {
	switch {
	case rate < 3:
		return LevelLow
	case rate < 5:
		return LevelModerate
	case rate < 8:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

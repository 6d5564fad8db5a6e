package mortality

import (
	"context"
	"math"
	"time"

	"weathermort.app/internal/core/observation"
	"weathermort.app/internal/ports"
	apperrors "weathermort.app/pkg/errors"
)

// Input carries the conditions for a single mortality assessment
type Input struct {
	City        string
	Date        time.Time
	Temperature float64
	Humidity    float64
	AgeGroup    AgeGroup
	Gender      Gender
}

// Factors is the multiplicative breakdown of one assessment
type Factors struct {
	Temperature float64 `json:"temperature_risk"`
	Humidity    float64 `json:"humidity_risk"`
	Seasonal    float64 `json:"seasonal_risk"`
	Regional    float64 `json:"regional_risk"`
	Age         float64 `json:"age_risk"`
	Gender      float64 `json:"gender_risk"`
	Monthly     float64 `json:"monthly_risk"`
	Total       float64 `json:"total_risk"`
}

// Assessment is the mortality-risk estimate for one day and population.
// Rate is deaths per 100k; bounds are a fixed ±20% interval around it.
type Assessment struct {
	Rate       float64 `json:"mortality_rate"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
	Level      string  `json:"risk_level"`
	Factors    Factors `json:"risk_factors"`
}

// TrendPoint pairs one day's weather with its assessment
type TrendPoint struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Season      string  `json:"season"`
	Rate        float64 `json:"mortality_rate"`
	Level       string  `json:"risk_level"`
	IsForecast  bool    `json:"is_forecast"`
}

// UseCase computes mortality-risk assessments from weather conditions.
type UseCase struct {
	logger  ports.Logger
	metrics ports.MetricsCollector
}

// UseCaseDependencies contains all dependencies for the mortality use case
type UseCaseDependencies struct {
	Logger  ports.Logger
	Metrics ports.MetricsCollector
}

// NewUseCase creates a mortality use case with validated dependencies
func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Logger == nil {
		return nil, apperrors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, apperrors.NewValidationError("metrics collector is required")
	}

	return &UseCase{
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}, nil
}

// Calculate produces the assessment for one set of conditions. Unknown
// cities and strata contribute a neutral factor of 1.0, matching the
// lookup-with-default semantics of the underlying model.
func (uc *UseCase) Calculate(ctx context.Context, input Input) (*Assessment, error) {
	if input.City == "" {
		return nil, apperrors.NewValidationError("city is required")
	}
	if input.Date.IsZero() {
		return nil, apperrors.NewValidationError("date is required")
	}

	factors := Factors{
		Temperature: temperatureRisk(input.Temperature),
		Humidity:    humidityRisk(input.Humidity),
		Seasonal:    lookupFactor(seasonalFactors, observation.SeasonOfMonth(input.Date.Month())),
		Regional:    lookupFactor(regionalFactors, input.City),
		Age:         lookupFactor(ageFactors, normalizeAge(input.AgeGroup)),
		Gender:      lookupFactor(genderFactors, normalizeGender(input.Gender)),
		Monthly:     lookupFactor(monthlyFactors, input.Date.Month()),
	}
	factors.Total = factors.Temperature * factors.Humidity * factors.Seasonal *
		factors.Regional * factors.Age * factors.Gender * factors.Monthly

	rate := BaseRate * factors.Total

	assessment := &Assessment{
		Rate:       round2(rate),
		LowerBound: round2(math.Max(0, rate*0.8)),
		UpperBound: round2(rate * 1.2),
		Level:      riskLevel(rate),
		Factors:    roundFactors(factors),
	}

	uc.logger.Debug("mortality assessment computed",
		ports.F("city", input.City),
		ports.F("date", input.Date.Format("2006-01-02")),
		ports.F("rate", assessment.Rate),
		ports.F("level", assessment.Level))

	return assessment, nil
}

// Trend computes a per-day assessment for every row of the series. Rows
// marked as forecasts keep their flag so callers can split the horizon.
func (uc *UseCase) Trend(ctx context.Context, series *observation.Series, age AgeGroup, gender Gender) ([]TrendPoint, error) {
	if series == nil || series.IsEmpty() {
		return nil, apperrors.NewInsufficientDataError("no observations for mortality trend")
	}

	points := make([]TrendPoint, 0, series.Len())
	for _, row := range series.Rows {
		assessment, err := uc.Calculate(ctx, Input{
			City:        series.City,
			Date:        row.Date,
			Temperature: row.Temperature,
			Humidity:    row.Humidity,
			AgeGroup:    age,
			Gender:      gender,
		})
		if err != nil {
			return nil, err
		}
		points = append(points, TrendPoint{
			Date:        row.Date.Format("2006-01-02"),
			Temperature: row.Temperature,
			Humidity:    row.Humidity,
			Season:      string(row.Season()),
			Rate:        assessment.Rate,
			Level:       assessment.Level,
			IsForecast:  row.IsForecast,
		})
	}

	uc.logger.Debug("mortality trend computed",
		ports.F("city", series.City),
		ports.F("points", len(points)))

	return points, nil
}

func normalizeAge(age AgeGroup) AgeGroup {
	if age == "" {
		return AgeAll
	}
	return age
}

func normalizeGender(gender Gender) Gender {
	if gender == "" {
		return GenderAll
	}
	return gender
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func roundFactors(f Factors) Factors {
	return Factors{
		Temperature: round3(f.Temperature),
		Humidity:    round3(f.Humidity),
		Seasonal:    round3(f.Seasonal),
		Regional:    round3(f.Regional),
		Age:         round3(f.Age),
		Gender:      round3(f.Gender),
		Monthly:     round3(f.Monthly),
		Total:       round3(f.Total),
	}
}

package analysis

import (
	"context"
	"math"
	"time"

	"weathermort.app/internal/core/observation"
	"weathermort.app/internal/core/stats"
	"weathermort.app/internal/ports"
	apperrors "weathermort.app/pkg/errors"
)

const (
	defaultOutlierThreshold = 2.0
	defaultCoverageTarget   = 30
)

// UseCase computes the statistical analysis report for an observation series.
type UseCase struct {
	config  ports.ConfigProvider
	logger  ports.Logger
	metrics ports.MetricsCollector
}

// UseCaseDependencies contains all dependencies for the analysis use case
type UseCaseDependencies struct {
	Config  ports.ConfigProvider
	Logger  ports.Logger
	Metrics ports.MetricsCollector
}

// NewUseCase creates an analysis use case with validated dependencies
func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Config == nil {
		return nil, apperrors.NewValidationError("config provider is required")
	}
	if deps.Logger == nil {
		return nil, apperrors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, apperrors.NewValidationError("metrics collector is required")
	}

	return &UseCase{
		config:  deps.Config,
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}, nil
}

// Analyze builds the full report for the given series.
func (uc *UseCase) Analyze(ctx context.Context, series *observation.Series) (*Report, error) {
	start := time.Now()

	report, err := uc.analyze(series)

	city := ""
	if series != nil {
		city = series.City
	}
	uc.metrics.RecordAnalysis(ctx, city, time.Since(start), err == nil)

	if err != nil {
		uc.logger.Warn("analysis failed",
			ports.F("city", city),
			ports.F("error", err.Error()))
		return nil, err
	}

	uc.logger.Debug("analysis completed",
		ports.F("city", city),
		ports.F("days", report.BasicInfo.TotalDays),
		ports.F("duration", time.Since(start).String()))

	return report, nil
}

func (uc *UseCase) analyze(series *observation.Series) (*Report, error) {
	if series == nil || series.IsEmpty() {
		return nil, apperrors.NewInsufficientDataError("no observations to analyze")
	}

	cfg := uc.config.GetAnalysisConfig()
	threshold := cfg.OutlierThreshold
	if threshold <= 0 {
		threshold = defaultOutlierThreshold
	}
	coverageTarget := cfg.CoverageTarget
	if coverageTarget <= 0 {
		coverageTarget = defaultCoverageTarget
	}

	temps := series.Temperatures()
	hums := series.Humidities()

	report := &Report{
		BasicInfo:   basicInfo(series, coverageTarget),
		Temperature: quantityAnalysis(temps, stats.TemperatureTrend),
		Humidity:    quantityAnalysis(hums, stats.HumidityTrend),
		Monthly:     monthlyAnalysis(series),
		Outliers:    outlierAnalysis(series, threshold),
		Trend:       trendAnalysis(temps, hums),
		Correlation: correlationAnalysis(temps, hums),
		Volatility:  volatilityAnalysis(temps, hums),
	}

	return report, nil
}

func basicInfo(series *observation.Series, coverageTarget int) BasicInfo {
	first := series.FirstDate()
	last := series.LastDate()
	daysCovered := int(last.Sub(first).Hours()/24) + 1

	return BasicInfo{
		TotalDays:       series.Len(),
		EarliestDate:    first.Format("2006-01-02"),
		LatestDate:      last.Format("2006-01-02"),
		DaysCovered:     daysCovered,
		CompletenessPct: float64(series.Len()) / float64(coverageTarget) * 100,
	}
}

func quantityAnalysis(values []float64, thresholds stats.TrendThresholds) QuantityAnalysis {
	slope := stats.TrendSlope(values)

	return QuantityAnalysis{
		Mean:           stats.Mean(values),
		Std:            stats.Std(values),
		Min:            stats.Min(values),
		Max:            stats.Max(values),
		Median:         stats.Median(values),
		Q25:            stats.Quantile(values, 0.25),
		Q75:            stats.Quantile(values, 0.75),
		Range:          stats.Max(values) - stats.Min(values),
		TrendSlope:     slope,
		TrendDirection: thresholds.Direction(slope),
		TrendStrength:  thresholds.Strength(slope),
		Volatility:     stats.CoefficientOfVariation(values),
	}
}

func monthlyAnalysis(series *observation.Series) MonthlyAnalysis {
	byMonth := map[int][]observation.Observation{}
	for _, row := range series.Rows {
		m := int(row.Month())
		byMonth[m] = append(byMonth[m], row)
	}

	total := series.Len()
	primary := 0
	primaryCount := 0
	months := make([]MonthStats, 0, len(byMonth))
	for m := 1; m <= 12; m++ {
		rows, ok := byMonth[m]
		if !ok {
			continue
		}
		temps := make([]float64, len(rows))
		hums := make([]float64, len(rows))
		for i, r := range rows {
			temps[i] = r.Temperature
			hums[i] = r.Humidity
		}
		months = append(months, MonthStats{
			Month:        m,
			Count:        len(rows),
			Percentage:   float64(len(rows)) / float64(total) * 100,
			TempMean:     stats.Mean(temps),
			TempStd:      stats.Std(temps),
			HumidityMean: stats.Mean(hums),
			HumidityStd:  stats.Std(hums),
		})
		if len(rows) > primaryCount {
			primaryCount = len(rows)
			primary = m
		}
	}

	return MonthlyAnalysis{
		PrimaryMonth: primary,
		MonthCount:   len(months),
		Months:       months,
	}
}

func outlierAnalysis(series *observation.Series, threshold float64) OutlierAnalysis {
	tempSet := outlierSet(series, series.Temperatures(), threshold)
	humSet := outlierSet(series, series.Humidities(), threshold)
	total := tempSet.Count + humSet.Count

	pct := 0.0
	if series.Len() > 0 {
		pct = float64(total) / float64(2*series.Len()) * 100
	}

	return OutlierAnalysis{
		Temperature:   tempSet,
		Humidity:      humSet,
		TotalOutliers: total,
		OutlierPct:    pct,
	}
}

func outlierSet(series *observation.Series, values []float64, threshold float64) OutlierSet {
	outliers := stats.ZScoreOutliers(values, threshold)

	set := OutlierSet{
		Count:   len(outliers),
		Indices: make([]int, 0, len(outliers)),
		Values:  make([]float64, 0, len(outliers)),
		Dates:   make([]string, 0, len(outliers)),
	}
	for _, o := range outliers {
		set.Indices = append(set.Indices, o.Index)
		set.Values = append(set.Values, o.Value)
		set.Dates = append(set.Dates, series.Rows[o.Index].Date.Format("2006-01-02"))
	}
	return set
}

func trendAnalysis(temps, hums []float64) TrendAnalysis {
	return TrendAnalysis{
		Temperature: trendResult(temps, stats.TemperatureTrend),
		Humidity:    trendResult(hums, stats.HumidityTrend),
	}
}

func trendResult(values []float64, thresholds stats.TrendThresholds) TrendResult {
	slope := stats.TrendSlope(values)
	r2 := stats.RSquared(values)

	return TrendResult{
		Slope:        slope,
		Direction:    thresholds.Direction(slope),
		Strength:     thresholds.Strength(slope),
		RSquared:     r2,
		Significance: stats.Significance(r2),
	}
}

func correlationAnalysis(temps, hums []float64) CorrelationAnalysis {
	days := make([]float64, len(temps))
	for i := range days {
		days[i] = float64(i)
	}

	return CorrelationAnalysis{
		TemperatureHumidity: correlationResult(stats.PearsonCorrelation(temps, hums)),
		TimeTemperature:     correlationResult(stats.PearsonCorrelation(days, temps)),
		TimeHumidity:        correlationResult(stats.PearsonCorrelation(days, hums)),
	}
}

func correlationResult(r float64) CorrelationResult {
	return CorrelationResult{
		Correlation: r,
		Strength:    stats.CorrelationStrength(r),
		Direction:   stats.CorrelationDirection(r),
	}
}

func volatilityAnalysis(temps, hums []float64) VolatilityAnalysis {
	return VolatilityAnalysis{
		Temperature: volatilityResult(temps, stats.TemperatureVolatility),
		Humidity:    volatilityResult(hums, stats.HumidityVolatility),
	}
}

func volatilityResult(values []float64, thresholds stats.VolatilityThresholds) VolatilityResult {
	cv := stats.CoefficientOfVariation(values)

	return VolatilityResult{
		Std:          stats.Std(values),
		CV:           cv,
		Level:        thresholds.Level(math.Abs(cv)),
		DailyChanges: dailyChanges(values),
	}
}

func dailyChanges(values []float64) DailyChanges {
	if len(values) < 2 {
		return DailyChanges{}
	}

	changes := make([]float64, 0, len(values)-1)
	dc := DailyChanges{MaxIncrease: math.Inf(-1), MaxDecrease: math.Inf(1)}
	for i := 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		changes = append(changes, d)
		switch {
		case d > 0:
			dc.PositiveChanges++
		case d < 0:
			dc.NegativeChanges++
		default:
			dc.NoChange++
		}
		if d > dc.MaxIncrease {
			dc.MaxIncrease = d
		}
		if d < dc.MaxDecrease {
			dc.MaxDecrease = d
		}
	}
	dc.MeanChange = stats.Mean(changes)

	return dc
}

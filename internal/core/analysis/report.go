package analysis

// Report is the fixed-shape analysis bundle for one observation window.
// A pure snapshot: recomputed whenever requested, never mutated partially.
type Report struct {
	BasicInfo   BasicInfo           `json:"basic_info"`
	Temperature QuantityAnalysis    `json:"temperature_analysis"`
	Humidity    QuantityAnalysis    `json:"humidity_analysis"`
	Monthly     MonthlyAnalysis     `json:"monthly_analysis"`
	Outliers    OutlierAnalysis     `json:"outlier_analysis"`
	Trend       TrendAnalysis       `json:"trend_analysis"`
	Correlation CorrelationAnalysis `json:"correlation_analysis"`
	Volatility  VolatilityAnalysis  `json:"volatility_analysis"`
}

// BasicInfo describes the observation window itself
type BasicInfo struct {
	TotalDays       int     `json:"total_days"`
	EarliestDate    string  `json:"earliest_date"`
	LatestDate      string  `json:"latest_date"`
	DaysCovered     int     `json:"days_covered"`
	CompletenessPct float64 `json:"data_completeness"`
}

// QuantityAnalysis holds descriptive statistics for one measured quantity
type QuantityAnalysis struct {
	Mean           float64 `json:"mean"`
	Std            float64 `json:"std"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	Median         float64 `json:"median"`
	Q25            float64 `json:"q25"`
	Q75            float64 `json:"q75"`
	Range          float64 `json:"range"`
	TrendSlope     float64 `json:"trend_slope"`
	TrendDirection string  `json:"trend_direction"`
	TrendStrength  string  `json:"trend_strength"`
	Volatility     float64 `json:"volatility"`
}

// MonthStats holds the per-month breakdown of one window
type MonthStats struct {
	Month        int     `json:"month"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
	TempMean     float64 `json:"temp_mean"`
	TempStd      float64 `json:"temp_std"`
	HumidityMean float64 `json:"humidity_mean"`
	HumidityStd  float64 `json:"humidity_std"`
}

// MonthlyAnalysis aggregates the per-month breakdowns
type MonthlyAnalysis struct {
	PrimaryMonth int          `json:"primary_month"`
	MonthCount   int          `json:"month_count"`
	Months       []MonthStats `json:"month_stats"`
}

// OutlierSet lists the flagged readings of one quantity
type OutlierSet struct {
	Count   int       `json:"count"`
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
	Dates   []string  `json:"dates"`
}

// OutlierAnalysis aggregates z-score outliers across both quantities
type OutlierAnalysis struct {
	Temperature   OutlierSet `json:"temperature_outliers"`
	Humidity      OutlierSet `json:"humidity_outliers"`
	TotalOutliers int        `json:"total_outliers"`
	OutlierPct    float64    `json:"outlier_percentage"`
}

// TrendResult describes the linear trend of one quantity
type TrendResult struct {
	Slope        float64 `json:"slope"`
	Direction    string  `json:"direction"`
	Strength     string  `json:"strength"`
	RSquared     float64 `json:"r_squared"`
	Significance string  `json:"significance"`
}

// TrendAnalysis pairs the per-quantity trend results
type TrendAnalysis struct {
	Temperature TrendResult `json:"temperature"`
	Humidity    TrendResult `json:"humidity"`
}

// CorrelationResult describes one Pearson correlation
type CorrelationResult struct {
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"`
	Direction   string  `json:"direction"`
}

// CorrelationAnalysis holds the pairwise correlations of the window
type CorrelationAnalysis struct {
	TemperatureHumidity CorrelationResult `json:"temperature_humidity"`
	TimeTemperature     CorrelationResult `json:"time_temperature"`
	TimeHumidity        CorrelationResult `json:"time_humidity"`
}

// DailyChanges summarizes day-over-day differences of one quantity
type DailyChanges struct {
	MeanChange      float64 `json:"mean_change"`
	MaxIncrease     float64 `json:"max_increase"`
	MaxDecrease     float64 `json:"max_decrease"`
	PositiveChanges int     `json:"positive_changes"`
	NegativeChanges int     `json:"negative_changes"`
	NoChange        int     `json:"no_change"`
}

// VolatilityResult describes the dispersion of one quantity
type VolatilityResult struct {
	Std          float64      `json:"std"`
	CV           float64      `json:"coefficient_of_variation"`
	Level        string       `json:"level"`
	DailyChanges DailyChanges `json:"daily_changes"`
}

// VolatilityAnalysis pairs the per-quantity volatility results
type VolatilityAnalysis struct {
	Temperature VolatilityResult `json:"temperature"`
	Humidity    VolatilityResult `json:"humidity"`
}

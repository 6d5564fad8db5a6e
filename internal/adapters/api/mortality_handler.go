package api

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"weathermort.app/internal/core/mortality"
	"weathermort.app/internal/core/observation"
	"weathermort.app/pkg/errors"
)

const defaultTrendDays = 7

// MortalityRequest represents the HTTP request for a mortality assessment
type MortalityRequest struct {
	City     string `json:"city" binding:"required"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	AgeGroup string `json:"age_group" binding:"omitempty,oneof=all under20 20to74 75plus"`
	Gender   string `json:"gender" binding:"omitempty,oneof=all male female"`
}

// MortalityResponse represents the HTTP response for a mortality assessment
type MortalityResponse struct {
	City        string                `json:"city"`
	Date        string                `json:"date"`
	AgeGroup    string                `json:"age_group"`
	Gender      string                `json:"gender"`
	Temperature float64               `json:"temperature"`
	Humidity    float64               `json:"humidity"`
	IsForecast  bool                  `json:"is_forecast"`
	Assessment  *mortality.Assessment `json:"assessment"`
}

// TrendResponse represents the HTTP response for a mortality trend
type TrendResponse struct {
	City     string                 `json:"city"`
	Days     int                    `json:"days"`
	AgeGroup string                 `json:"age_group"`
	Gender   string                 `json:"gender"`
	Trend    []mortality.TrendPoint `json:"trend"`
}

type trendQuery struct {
	Days     int    `form:"days,default=7" binding:"omitempty,min=1"`
	AgeGroup string `form:"age_group" binding:"omitempty,oneof=all under20 20to74 75plus"`
	Gender   string `form:"gender" binding:"omitempty,oneof=all male female"`
}

// calculateMortality handles POST /api/mortality requests.
// The weather for the requested date comes from stored observations when the
// date is in the past and from the forecaster when it is ahead of the data.
func (s *HTTPServerAdapter) calculateMortality(c *gin.Context) {
	var httpReq MortalityRequest
	slog.Debug("Handling mortality request")

	if err := c.ShouldBindJSON(&httpReq); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, errors.NewValidationError(bindingErrorMessage(err, "invalid request format")))
		return
	}

	date, err := time.ParseInLocation("2006-01-02", httpReq.Date, time.UTC)
	if err != nil {
		s.handleError(c, errors.NewValidationError("date must use the 2006-01-02 layout"))
		return
	}

	row, err := s.weatherForDate(c, httpReq.City, date)
	if err != nil {
		slog.Error("Weather resolution error", "error", err, "city", httpReq.City, "date", httpReq.Date)
		s.handleError(c, err)
		return
	}

	assessment, err := s.mortalityUC.Calculate(c.Request.Context(), mortality.Input{
		City:        httpReq.City,
		Date:        date,
		Temperature: row.Temperature,
		Humidity:    row.Humidity,
		AgeGroup:    mortality.AgeGroup(httpReq.AgeGroup),
		Gender:      mortality.Gender(httpReq.Gender),
	})
	if err != nil {
		slog.Error("Mortality calculation error", "error", err, "city", httpReq.City)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MortalityResponse{
		City:        httpReq.City,
		Date:        httpReq.Date,
		AgeGroup:    string(normalizedAge(httpReq.AgeGroup)),
		Gender:      string(normalizedGender(httpReq.Gender)),
		Temperature: row.Temperature,
		Humidity:    row.Humidity,
		IsForecast:  row.IsForecast,
		Assessment:  assessment,
	})
}

// getMortalityTrend handles GET /api/weather/:city/mortality-trend requests.
// The trend covers the trailing observed window plus the same number of
// forecast days ahead.
func (s *HTTPServerAdapter) getMortalityTrend(c *gin.Context) {
	city := c.Param("city")

	var q trendQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.handleError(c, errors.NewValidationError(bindingErrorMessage(err, "invalid query parameters")))
		return
	}
	if q.Days == 0 {
		q.Days = defaultTrendDays
	}
	if s.forecastDefaults.MaxHorizon > 0 && q.Days > s.forecastDefaults.MaxHorizon {
		s.handleError(c, errors.NewValidationError("days exceeds the forecast horizon"))
		return
	}

	slog.Debug("Computing mortality trend", "city", city, "days", q.Days)

	window := s.trainWindow()
	if window < q.Days {
		window = q.Days
	}
	series, err := s.observationUC.Load(c.Request.Context(), city, window)
	if err != nil {
		slog.Error("Observation load error", "error", err, "city", city)
		s.handleError(c, err)
		return
	}

	forecastRows, err := s.forecastUC.Predict(c.Request.Context(), series, q.Days)
	if err != nil {
		slog.Error("Forecast error", "error", err, "city", city)
		s.handleError(c, err)
		return
	}

	combined := series.Tail(q.Days)
	for _, row := range forecastRows {
		combined.Append(row)
	}

	points, err := s.mortalityUC.Trend(c.Request.Context(), combined,
		mortality.AgeGroup(q.AgeGroup), mortality.Gender(q.Gender))
	if err != nil {
		slog.Error("Mortality trend error", "error", err, "city", city)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, TrendResponse{
		City:     city,
		Days:     q.Days,
		AgeGroup: string(normalizedAge(q.AgeGroup)),
		Gender:   string(normalizedGender(q.Gender)),
		Trend:    points,
	})
}

// weatherForDate resolves the weather row for a date, forecasting ahead of
// the stored data when needed
func (s *HTTPServerAdapter) weatherForDate(c *gin.Context, city string, date time.Time) (*observation.Observation, error) {
	date = observation.DayOf(date)

	series, err := s.observationUC.Load(c.Request.Context(), city, s.trainWindow())
	if err != nil {
		return nil, err
	}

	if !date.After(series.LastDate()) {
		for i := range series.Rows {
			if series.Rows[i].Date.Equal(date) {
				return &series.Rows[i], nil
			}
		}
		return nil, errors.NewNotFoundError("no observation for the requested date")
	}

	daysAhead := int(date.Sub(series.LastDate()).Hours() / 24)
	if s.forecastDefaults.MaxHorizon > 0 && daysAhead > s.forecastDefaults.MaxHorizon {
		return nil, errors.NewValidationError("date is beyond the forecast horizon")
	}

	rows, err := s.forecastUC.Predict(c.Request.Context(), series, daysAhead)
	if err != nil {
		return nil, err
	}

	return &rows[len(rows)-1], nil
}

func normalizedAge(raw string) mortality.AgeGroup {
	if raw == "" {
		return mortality.AgeAll
	}
	return mortality.AgeGroup(raw)
}

func normalizedGender(raw string) mortality.Gender {
	if raw == "" {
		return mortality.GenderAll
	}
	return mortality.Gender(raw)
}

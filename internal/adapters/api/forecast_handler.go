package api

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultForecastDays = 7

// ForecastRow represents one forecast day in the HTTP response
type ForecastRow struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// ForecastResponse represents the HTTP response for a forecast request
type ForecastResponse struct {
	ForecastID string        `json:"forecast_id"`
	City       string        `json:"city"`
	Days       int           `json:"days"`
	Rows       []ForecastRow `json:"rows"`
}

// getForecast handles GET /api/weather/:city/forecast requests
func (s *HTTPServerAdapter) getForecast(c *gin.Context) {
	city := c.Param("city")

	days, err := parseDaysQuery(c, defaultForecastDays, s.forecastDefaults.MaxHorizon)
	if err != nil {
		s.handleError(c, err)
		return
	}

	slog.Debug("Forecasting", "city", city, "days", days)

	series, err := s.observationUC.Load(c.Request.Context(), city, s.trainWindow())
	if err != nil {
		slog.Error("Observation load error", "error", err, "city", city)
		s.handleError(c, err)
		return
	}

	forecastRows, err := s.forecastUC.Predict(c.Request.Context(), series, days)
	if err != nil {
		slog.Error("Forecast error", "error", err, "city", city, "days", days)
		s.handleError(c, err)
		return
	}

	rows := make([]ForecastRow, len(forecastRows))
	for i, row := range forecastRows {
		rows[i] = ForecastRow{
			Date:        row.Date.Format("2006-01-02"),
			Temperature: row.Temperature,
			Humidity:    row.Humidity,
		}
	}

	c.JSON(http.StatusOK, ForecastResponse{
		ForecastID: uuid.NewString(),
		City:       city,
		Days:       days,
		Rows:       rows,
	})
}

// trainWindow returns the configured training window for forecast input
func (s *HTTPServerAdapter) trainWindow() int {
	if s.forecastDefaults.TrainWindow > 0 {
		return s.forecastDefaults.TrainWindow
	}
	return defaultAnalysisDays
}

package api

import (
	"net/http"
	"strconv"

	"log/slog"

	"github.com/gin-gonic/gin"
	"weathermort.app/internal/core/analysis"
	"weathermort.app/pkg/errors"
)

const (
	defaultAnalysisDays = 30
	maxAnalysisDays     = 365
)

// AnalysisResponse represents the HTTP response for an analysis report
type AnalysisResponse struct {
	City   string           `json:"city"`
	Days   int              `json:"days"`
	Report *analysis.Report `json:"report"`
}

// getAnalysis handles GET /api/weather/:city/analysis requests
func (s *HTTPServerAdapter) getAnalysis(c *gin.Context) {
	city := c.Param("city")

	days, err := parseDaysQuery(c, defaultAnalysisDays, maxAnalysisDays)
	if err != nil {
		s.handleError(c, err)
		return
	}

	slog.Debug("Analyzing observations", "city", city, "days", days)

	series, err := s.observationUC.Load(c.Request.Context(), city, days)
	if err != nil {
		slog.Error("Observation load error", "error", err, "city", city)
		s.handleError(c, err)
		return
	}

	report, err := s.analysisUC.Analyze(c.Request.Context(), series)
	if err != nil {
		slog.Error("Analysis error", "error", err, "city", city)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalysisResponse{
		City:   city,
		Days:   days,
		Report: report,
	})
}

// parseDaysQuery reads the optional days query parameter
func parseDaysQuery(c *gin.Context, defaultDays, maxDays int) (int, error) {
	raw := c.Query("days")
	if raw == "" {
		return defaultDays, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		return 0, errors.NewValidationError("days must be a positive integer")
	}
	if maxDays > 0 && days > maxDays {
		return 0, errors.NewValidationError(
			"days cannot exceed " + strconv.Itoa(maxDays))
	}

	return days, nil
}

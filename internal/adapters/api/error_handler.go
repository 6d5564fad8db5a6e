package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	errorspkg "weathermort.app/pkg/errors"
)

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleError maps application error types to HTTP status codes
func (s *HTTPServerAdapter) handleError(c *gin.Context, err error) {
	var appErr *errorspkg.AppError
	var statusCode int
	var message string

	if !errors.As(err, &appErr) {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
		c.JSON(statusCode, ErrorResponse{Error: message})
		return
	}

	switch appErr.Type {
	case errorspkg.ErrorTypeValidation:
		statusCode = http.StatusBadRequest
		message = appErr.Message
	case errorspkg.ErrorTypeNotFound:
		statusCode = http.StatusNotFound
		message = appErr.Message
	case errorspkg.ErrorTypeInsufficientData:
		statusCode = http.StatusUnprocessableEntity
		message = appErr.Message
	case errorspkg.ErrorTypeModelNotTrained:
		statusCode = http.StatusUnprocessableEntity
		message = appErr.Message
	case errorspkg.ErrorTypeExternalAPI:
		statusCode = http.StatusServiceUnavailable
		message = "External service unavailable"
	case errorspkg.ErrorTypeDatabase:
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	case errorspkg.ErrorTypeCache:
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	default:
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, ErrorResponse{Error: message})
}

// bindingErrorMessage names the fields that failed request validation
func bindingErrorMessage(err error, fallback string) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fallback
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return "invalid request fields: " + strings.Join(fields, ", ")
}

// getHealth handles GET /api/health requests
func (s *HTTPServerAdapter) getHealth(c *gin.Context) {
	slog.Debug("Health endpoint called")

	if s.healthChecker == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		return
	}

	results := s.healthChecker.CheckAll(c.Request.Context())

	overall := "healthy"
	statusCode := http.StatusOK
	for _, result := range results {
		if result.Status != "healthy" {
			overall = "unhealthy"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(statusCode, gin.H{
		"status":     overall,
		"components": results,
	})
}

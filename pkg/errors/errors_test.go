package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorFormatting(t *testing.T) {
	t.Run("WithoutCause", func(t *testing.T) {
		err := NewInsufficientDataError("need at least 30 observations")
		assert.Equal(t, "INSUFFICIENT_DATA_ERROR: need at least 30 observations", err.Error())
	})

	t.Run("WithCause", func(t *testing.T) {
		cause := stderrors.New("connection refused")
		err := NewExternalAPIError("station fetch failed", cause)
		assert.Equal(t, "EXTERNAL_API_ERROR: station fetch failed (caused by: connection refused)", err.Error())
		assert.Equal(t, cause, stderrors.Unwrap(err))
	})
}

func TestErrorTypeCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{"ValidationMatches", NewValidationError("bad city"), IsValidationError, true},
		{"NotFoundMatches", NewNotFoundError("no observations"), IsNotFoundError, true},
		{"InsufficientDataMatches", NewInsufficientDataError("too few rows"), IsInsufficientDataError, true},
		{"ModelNotTrainedMatches", NewModelNotTrainedError("fit first"), IsModelNotTrainedError, true},
		{"DatabaseMatches", NewDatabaseError("query failed", nil), IsDatabaseError, true},
		{"ExternalAPIMatches", NewExternalAPIError("timeout", nil), IsExternalAPIError, true},
		{"CacheMatches", NewCacheError("redis down", nil), IsCacheError, true},
		{"ConfigurationMatches", NewConfigurationError("missing key", nil), IsConfigurationError, true},
		{"WrongType", NewValidationError("bad city"), IsDatabaseError, false},
		{"PlainError", stderrors.New("plain"), IsValidationError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.checker(tt.err))
		})
	}
}

package infrastructure

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weathermort.app/internal/ports"
)

func TestFileLoggerAdapter_NewFileLoggerAdapter(t *testing.T) {
	t.Run("ValidPath", func(t *testing.T) {
		tempDir := t.TempDir()
		logPath := filepath.Join(tempDir, "observations.log")

		logger, err := NewFileLoggerAdapter(logPath)
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer func() { _ = logger.Close() }()

		assert.FileExists(t, logPath)
	})

	t.Run("NestedPath", func(t *testing.T) {
		tempDir := t.TempDir()
		logPath := filepath.Join(tempDir, "deep", "nested", "observations.log")

		logger, err := NewFileLoggerAdapter(logPath)
		require.NoError(t, err)
		defer func() { _ = logger.Close() }()

		assert.DirExists(t, filepath.Dir(logPath))
		assert.FileExists(t, logPath)
	})

	t.Run("EmptyPath", func(t *testing.T) {
		logger, err := NewFileLoggerAdapter("")
		assert.Error(t, err)
		assert.Nil(t, logger)
		assert.Contains(t, err.Error(), "log file path cannot be empty")
	})
}

func TestFileLoggerAdapter_LogLevels(t *testing.T) {
	tests := []struct {
		level   string
		message string
		fields  []ports.Field
	}{
		{
			level:   "DEBUG",
			message: "Fetching observation range",
			fields:  []ports.Field{ports.F("source", "kma")},
		},
		{
			level:   "INFO",
			message: "Observations fetched",
			fields:  []ports.Field{ports.F("source", "kma"), ports.F("city", "Seoul")},
		},
		{
			level:   "WARN",
			message: "Source failed",
			fields:  []ports.Field{ports.F("city", "Busan"), ports.F("error", "timeout")},
		},
		{
			level:   "ERROR",
			message: "All sources failed",
			fields:  []ports.Field{ports.F("source", "fallback"), ports.F("duration_ms", 5000)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			tempDir := t.TempDir()
			logPath := filepath.Join(tempDir, "test.log")

			logger, err := NewFileLoggerAdapter(logPath)
			require.NoError(t, err)
			defer func() { _ = logger.Close() }()

			switch tt.level {
			case "DEBUG":
				logger.Debug(tt.message, tt.fields...)
			case "INFO":
				logger.Info(tt.message, tt.fields...)
			case "WARN":
				logger.Warn(tt.message, tt.fields...)
			case "ERROR":
				logger.Error(tt.message, tt.fields...)
			}

			content, err := os.ReadFile(logPath)
			require.NoError(t, err)

			var logEntry map[string]interface{}
			err = json.Unmarshal(content, &logEntry)
			require.NoError(t, err)

			assert.Equal(t, tt.level, logEntry["level"])
			assert.Equal(t, tt.message, logEntry["message"])

			timestamp, ok := logEntry["timestamp"].(string)
			require.True(t, ok)
			_, err = time.Parse(time.RFC3339, timestamp)
			assert.NoError(t, err)

			for _, field := range tt.fields {
				// JSON unmarshaling converts all numbers to float64
				if expectedInt, ok := field.Value.(int); ok {
					assert.Equal(t, float64(expectedInt), logEntry[field.Key])
				} else {
					assert.Equal(t, field.Value, logEntry[field.Key])
				}
			}
		})
	}
}

func TestFileLoggerAdapter_StructuredLogging(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "test.log")

	logger, err := NewFileLoggerAdapter(logPath)
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	logger.Info("Observation source response",
		ports.F("source", "kma"),
		ports.F("city", "Seoul"),
		ports.F("event", "response"),
		ports.F("duration_ms", 1250),
		ports.F("temperature", 15.5),
		ports.F("humidity", 76.0))

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var logEntry map[string]interface{}
	err = json.Unmarshal(content, &logEntry)
	require.NoError(t, err)

	assert.Equal(t, "INFO", logEntry["level"])
	assert.Equal(t, "Observation source response", logEntry["message"])
	assert.Equal(t, "kma", logEntry["source"])
	assert.Equal(t, "Seoul", logEntry["city"])
	assert.Equal(t, "response", logEntry["event"])
	assert.Equal(t, float64(1250), logEntry["duration_ms"])
	assert.Equal(t, 15.5, logEntry["temperature"])
	assert.Equal(t, 76.0, logEntry["humidity"])
}

func TestFileLoggerAdapter_ConcurrentLogging(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "concurrent.log")

	logger, err := NewFileLoggerAdapter(logPath)
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	numGoroutines := 10
	messagesPerGoroutine := 5

	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(goroutineID int) {
			for j := 0; j < messagesPerGoroutine; j++ {
				logger.Info(fmt.Sprintf("Message from goroutine %d", goroutineID),
					ports.F("goroutine_id", goroutineID),
					ports.F("message_id", j))
			}
			done <- true
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Equal(t, numGoroutines*messagesPerGoroutine, len(lines))

	for i, line := range lines {
		var logEntry map[string]interface{}
		err = json.Unmarshal([]byte(line), &logEntry)
		assert.NoError(t, err, "Line %d should be valid JSON: %s", i, line)

		assert.Equal(t, "INFO", logEntry["level"])
		assert.Contains(t, logEntry["message"], "Message from goroutine")
		assert.Contains(t, logEntry, "goroutine_id")
		assert.Contains(t, logEntry, "message_id")
	}
}

func TestFileLoggerAdapter_AppendMode(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "append.log")

	logger, err := NewFileLoggerAdapter(logPath)
	require.NoError(t, err)

	logger.Info("First message")
	logger.Info("Second message")
	require.NoError(t, logger.Close())

	// Reopening must append, not truncate
	reopened, err := NewFileLoggerAdapter(logPath)
	require.NoError(t, err)
	reopened.Info("Third message")
	require.NoError(t, reopened.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Equal(t, 3, len(lines))

	var firstEntry, lastEntry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &firstEntry))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &lastEntry))

	assert.Equal(t, "First message", firstEntry["message"])
	assert.Equal(t, "Third message", lastEntry["message"])
}

func TestFileLoggerAdapter_InvalidJSONHandling(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "invalid.log")

	logger, err := NewFileLoggerAdapter(logPath)
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	// Channels cannot be marshaled to JSON
	ch := make(chan int)
	logger.Info("Test message", ports.F("channel", ch))

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	assert.Contains(t, string(content), "failed to marshal log entry")
}

func BenchmarkFileLoggerAdapter_Info(b *testing.B) {
	tempDir := b.TempDir()
	logPath := filepath.Join(tempDir, "benchmark.log")

	logger, err := NewFileLoggerAdapter(logPath)
	require.NoError(b, err)
	defer func() { _ = logger.Close() }()

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			logger.Info("Benchmark message",
				ports.F("source", "kma"),
				ports.F("city", "Seoul"),
				ports.F("temperature", 15.5))
		}
	})
}

package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldApp is the structured log field key for the application name.
	FieldApp = "app"
	// FieldRequestID is the structured log field key for the HTTP request identifier.
	FieldRequestID = "request_id"
	// FieldRunID is the structured log field key for the screening run identifier.
	FieldRunID = "run_id"
	// FieldFileName is the structured log field key for the screened document.
	FieldFileName = "file_name"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the fields to the logger.
// A nil logger is replaced by a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ScreeningFields returns the run and document fields. Empty values are skipped.
func ScreeningFields(runID, fileName string) []zap.Field {
	return StringFields(
		StringField{Key: FieldRunID, Value: runID},
		StringField{Key: FieldFileName, Value: fileName},
	)
}

// WithScreeningFields attaches the screening fields to the logger.
func WithScreeningFields(logger *zap.Logger, runID, fileName string) *zap.Logger {
	return WithFields(logger, ScreeningFields(runID, fileName)...)
}

package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared across packages.
const (
	FieldProvider       = "ai_provider"
	FieldModel          = "ai_model"
	FieldSearchProvider = "search_provider"
	FieldRunID          = "run_id"
	FieldStage          = "stage"
)

// Pairs converts alternating key/value strings into zap fields. Pairs with a
// blank key or value are skipped, as is a trailing key without a value.
func Pairs(kv ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, value := strings.TrimSpace(kv[i]), strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// Attach returns l with fields added. A nil logger becomes a no-op one.
func Attach(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// ForGenerator tags a logger with the llm provider and model.
func ForGenerator(l *zap.Logger, provider, model string) *zap.Logger {
	return Attach(l, Pairs(FieldProvider, provider, FieldModel, model)...)
}

// ForSearch tags a logger with the people search backend.
func ForSearch(l *zap.Logger, provider string) *zap.Logger {
	return Attach(l, Pairs(FieldSearchProvider, provider)...)
}

// WithRun scopes a logger to one workflow run.
func WithRun(l *zap.Logger, runID string) *zap.Logger {
	return Attach(l, Pairs(FieldRunID, runID)...)
}

// WithStage tags a logger with the workflow stage.
func WithStage(l *zap.Logger, stage string) *zap.Logger {
	return Attach(l, Pairs(FieldStage, stage)...)
}

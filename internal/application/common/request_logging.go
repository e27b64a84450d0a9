package common

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/colony-engine/internal/application/mediator"
)

// RequestLoggingMiddleware injects logger into the context of every request,
// bound to the request's player when it carries a PlayerKey field, and logs
// the outcome of the request.
func RequestLoggingMiddleware(logger Logger) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		requestLogger := logger
		if playerKey := extractPlayerKey(request); playerKey != "" {
			requestLogger = WithFields(logger, map[string]interface{}{"player": strings.ToLower(playerKey)})
		}
		ctx = WithLogger(ctx, requestLogger)

		name := requestName(request)
		start := time.Now()

		response, err := next(ctx, request)

		metadata := map[string]interface{}{
			"request":     name,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if err != nil {
			metadata["error"] = err.Error()
			requestLogger.Log(LevelWarn, "Request failed", metadata)
			return response, err
		}
		requestLogger.Log(LevelDebug, "Request handled", metadata)
		return response, nil
	}
}

// WithFields returns a logger that adds fields to every entry.
// Fields already present in an entry win.
func WithFields(logger Logger, fields map[string]interface{}) Logger {
	return &fieldLogger{next: logger, fields: fields}
}

type fieldLogger struct {
	next   Logger
	fields map[string]interface{}
}

func (l *fieldLogger) Log(level, message string, metadata map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(metadata))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range metadata {
		merged[k] = v
	}
	l.next.Log(level, message, merged)
}

// extractPlayerKey reads a string PlayerKey field off a request struct
func extractPlayerKey(request mediator.Request) string {
	value := reflect.ValueOf(request)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return ""
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return ""
	}

	field := value.FieldByName("PlayerKey")
	if !field.IsValid() || field.Kind() != reflect.String {
		return ""
	}
	return strings.TrimSpace(field.String())
}

func requestName(request mediator.Request) string {
	if request == nil {
		return "unknown"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Package logger builds the process-wide zap logger and carries request
// fields through context.
package logger

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	userKey      contextKey = "logger_user"
	scopeKey     contextKey = "logger_scope"
)

// requestScope is shared by every context derived from one request, so a user
// authenticated deep in the handler chain is visible to outer middleware.
type requestScope struct {
	mu   sync.Mutex
	user string
}

// New builds a JSON production logger, or a console logger when env is
// "development", and installs it as the zap global.
func New(env string) (*zap.Logger, error) {
	return build(env, zapcore.InfoLevel)
}

// NewConsole is New for the interactive console: outside development only
// warnings and errors reach stderr, so the REPL output stays readable.
func NewConsole(env string) (*zap.Logger, error) {
	return build(env, zapcore.WarnLevel)
}

func build(env string, level zapcore.Level) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(env, "development") || strings.EqualFold(env, "dev") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}

// WithRequestID stores the request id for FromContext and opens the request
// scope that WithUser fills in.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	if _, ok := ctx.Value(scopeKey).(*requestScope); !ok {
		ctx = context.WithValue(ctx, scopeKey, &requestScope{})
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request id, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithUser stores the authenticated username for FromContext, and records it
// in the enclosing request scope.
func WithUser(ctx context.Context, username string) context.Context {
	if ctx == nil || username == "" {
		return ctx
	}
	if sc, ok := ctx.Value(scopeKey).(*requestScope); ok {
		sc.mu.Lock()
		sc.user = username
		sc.mu.Unlock()
	}
	return context.WithValue(ctx, userKey, username)
}

// UserFromContext returns the authenticated username, including one set on a
// context derived from ctx within the same request, or "".
func UserFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, _ := ctx.Value(userKey).(string); v != "" {
		return v
	}
	if sc, ok := ctx.Value(scopeKey).(*requestScope); ok {
		sc.mu.Lock()
		defer sc.mu.Unlock()
		return sc.user
	}
	return ""
}

// FromContext returns the global logger with request_id and user attached when present.
func FromContext(ctx context.Context) *zap.Logger {
	l := zap.L()
	var fields []zap.Field
	if id := RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if user := UserFromContext(ctx); user != "" {
		fields = append(fields, zap.String("user", user))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

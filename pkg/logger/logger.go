package logger

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Init configures the process-wide logger. Production environments get JSON
// output at info level, everything else the development console encoder.
func Init(env string) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		zapLogger = zap.NewExample()
	}

	mu.Lock()
	sugar = zapLogger.Sugar()
	mu.Unlock()
}

// Replace swaps the process-wide logger and returns a func restoring the
// previous one.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	prev := sugar
	sugar = l.Sugar()
	mu.Unlock()

	return func() {
		mu.Lock()
		sugar = prev
		mu.Unlock()
	}
}

// Sync flushes buffered entries, call it before the process exits.
func Sync() {
	_ = current().Sync()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Debug(msg string, keysAndValues ...interface{}) {
	current().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	current().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	current().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	current().Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...interface{}) {
	current().Fatalw(msg, keysAndValues...)
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Package logging wraps zap behind a small context-aware interface.
package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger used across the application.
type Logger interface {
	Debug(ctx context.Context, args ...any)
	Debugf(ctx context.Context, format string, args ...any)
	Info(ctx context.Context, args ...any)
	Infof(ctx context.Context, format string, args ...any)
	Warn(ctx context.Context, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Error(ctx context.Context, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
	Sync() error
}

// Config selects level, encoding and preset.
type Config struct {
	Level    string // debug, info, warn, error
	Encoding string // console or json
	Mode     string // development or production
}

type opKey struct{}

// WithOp tags ctx with the name of the running operation. Log lines written
// with that ctx carry it as the "op" field.
func WithOp(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey{}, op)
}

// Op returns the operation name stored by WithOp.
func Op(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	op, _ := ctx.Value(opKey{}).(string)
	return op
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a zap-backed Logger writing to stderr.
func New(cfg Config) (Logger, error) {
	var zc zap.Config
	if strings.EqualFold(cfg.Mode, "development") {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}

	switch strings.ToLower(cfg.Encoding) {
	case "", "console":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		zc.Encoding = "json"
	default:
		return nil, fmt.Errorf("unknown log encoding %q", cfg.Encoding)
	}

	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return &zapLogger{sugar: l.Sugar()}, nil
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

// NewZap adapts an existing zap logger, e.g. one built by zaptest.
func NewZap(l *zap.Logger) Logger {
	return &zapLogger{sugar: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *zapLogger) with(ctx context.Context) *zap.SugaredLogger {
	if op := Op(ctx); op != "" {
		return l.sugar.With("op", op)
	}
	return l.sugar
}

func (l *zapLogger) Debug(ctx context.Context, args ...any) { l.with(ctx).Debug(args...) }
func (l *zapLogger) Debugf(ctx context.Context, format string, args ...any) {
	l.with(ctx).Debugf(format, args...)
}
func (l *zapLogger) Info(ctx context.Context, args ...any) { l.with(ctx).Info(args...) }
func (l *zapLogger) Infof(ctx context.Context, format string, args ...any) {
	l.with(ctx).Infof(format, args...)
}
func (l *zapLogger) Warn(ctx context.Context, args ...any) { l.with(ctx).Warn(args...) }
func (l *zapLogger) Warnf(ctx context.Context, format string, args ...any) {
	l.with(ctx).Warnf(format, args...)
}
func (l *zapLogger) Error(ctx context.Context, args ...any) { l.with(ctx).Error(args...) }
func (l *zapLogger) Errorf(ctx context.Context, format string, args ...any) {
	l.with(ctx).Errorf(format, args...)
}

func (l *zapLogger) Sync() error { return l.sugar.Sync() }

// Package logger предоставляет единый интерфейс логирования поверх zap.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger — интерфейс, который используют все слои приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
	Sync() error
}

// Options описывает параметры zap-логгера.
type Options struct {
	Level             string // debug, info, warn, error
	Encoding          string // json или console
	DisableCaller     bool
	DisableStacktrace bool
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger создает логгер с заданными параметрами.
// При некорректном уровне используется info.
func NewZapLogger(opts Options) Logger {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(opts.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if opts.Encoding == "console" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.NewAtomicLevelAt(level))

	zapOpts := []zap.Option{zap.AddCallerSkip(1)}
	if !opts.DisableCaller {
		zapOpts = append(zapOpts, zap.AddCaller())
	}
	if !opts.DisableStacktrace {
		zapOpts = append(zapOpts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return &zapLogger{sugar: zap.New(core, zapOpts...).Sugar()}
}

// NewDefault возвращает логгер для старта приложения, до загрузки конфигурации.
func NewDefault() Logger {
	return NewZapLogger(Options{Level: "info", Encoding: "json", DisableStacktrace: true})
}

// NewNop возвращает логгер, который ничего не пишет. Используется в тестах.
func NewNop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

// FromZap оборачивает готовый zap-логгер.
func FromZap(l *zap.Logger) Logger {
	return &zapLogger{sugar: l.Sugar()}
}

func (l *zapLogger) Debugf(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

func (l *zapLogger) Infof(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *zapLogger) Warnf(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *zapLogger) Errorf(err error, format string, args ...any) {
	l.sugar.Errorw(fmt.Sprintf(format, args...), zap.Error(err))
}

func (l *zapLogger) Sync() error {
	return l.sugar.Sync()
}

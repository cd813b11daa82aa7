package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig configures the GORM zap logger.
type GormLoggerConfig struct {
	Level                gormlogger.LogLevel
	SlowThreshold        time.Duration
	IgnoreRecordNotFound bool
}

// DefaultGormLoggerConfig logs errors and slow queries only.
func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{
		Level:                gormlogger.Warn,
		SlowThreshold:        200 * time.Millisecond,
		IgnoreRecordNotFound: true,
	}
}

// GormLogger routes GORM output through zap, enriched with request fields.
type GormLogger struct {
	base   *zap.Logger
	config GormLoggerConfig
}

func NewGormLogger(base *zap.Logger, cfg GormLoggerConfig) *GormLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &GormLogger{base: base.With(zap.String("component", "gorm")), config: cfg}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.config.Level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) message(ctx context.Context, min gormlogger.LogLevel, level zapcore.Level, msg string, data []interface{}) {
	if l.config.Level < min {
		return
	}
	if len(data) > 0 {
		msg = fmt.Sprintf(msg, data...)
	}
	if ce := WithContext(ctx, l.base).Check(level, msg); ce != nil {
		ce.Write()
	}
}

// Trace logs failed statements at error, slow statements at warn and the rest at debug.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.config.Level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	notFound := errors.Is(err, gormlogger.ErrRecordNotFound)
	switch {
	case err != nil && l.config.Level >= gormlogger.Error && !(notFound && l.config.IgnoreRecordNotFound):
		l.query(ctx, zapcore.ErrorLevel, fc, elapsed, err)
	case l.config.SlowThreshold > 0 && elapsed > l.config.SlowThreshold && l.config.Level >= gormlogger.Warn:
		l.query(ctx, zapcore.WarnLevel, fc, elapsed, nil)
	case l.config.Level >= gormlogger.Info:
		l.query(ctx, zapcore.DebugLevel, fc, elapsed, nil)
	}
}

// ParamsFilter keeps bound values (emails, notes) out of the log.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

func (l *GormLogger) query(ctx context.Context, level zapcore.Level, fc func() (string, int64), elapsed time.Duration, err error) {
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", strings.TrimSpace(sql)),
		zap.String("operation", operationFromSQL(sql)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if ce := WithContext(ctx, l.base).Check(level, "gorm.query"); ce != nil {
		ce.Write(fields...)
	}
}

func operationFromSQL(sql string) string {
	for _, token := range strings.Fields(strings.ToUpper(sql)) {
		token = strings.Trim(token, "();")
		switch token {
		case "SELECT", "INSERT", "UPDATE", "DELETE":
			return token
		}
	}
	return "UNKNOWN"
}

var _ gormlogger.Interface = (*GormLogger)(nil)

package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// maxSQLLength bounds the statement text written to a single entry.
const maxSQLLength = 1000

// GormLogger forwards gorm's statement log to zap, tagged with the
// request id of the query's context.
type GormLogger struct {
	log           *zap.Logger
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger creates a bridge whose verbosity follows the service log
// level: every statement at debug, failures and slow statements at warn,
// failures only at error.
func NewGormLogger(l *zap.Logger, slowQuerySeconds float64, logLevel string) *GormLogger {
	return &GormLogger{
		log:           l.Named("gorm"),
		slowThreshold: time.Duration(slowQuerySeconds * float64(time.Second)),
		level:         gormLevel(logLevel),
	}
}

func gormLevel(logLevel string) gormlogger.LogLevel {
	switch logLevel {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	}
	return gormlogger.Warn
}

// Level reports the current gorm log level.
func (g *GormLogger) Level() gormlogger.LogLevel { return g.level }

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *g
	c.level = level
	return &c
}

func (g *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Info {
		WithContext(ctx, g.log).Sugar().Infof(msg, data...)
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Warn {
		WithContext(ctx, g.log).Sugar().Warnf(msg, data...)
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Error {
		WithContext(ctx, g.log).Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement. A missing row is not a failure.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := g.slowThreshold > 0 && elapsed > g.slowThreshold

	var msg string
	switch {
	case failed && g.level >= gormlogger.Error:
		msg = "store statement failed"
	case slow && g.level >= gormlogger.Warn:
		msg = "slow store statement"
	case g.level >= gormlogger.Info:
		msg = "store statement"
	default:
		return
	}

	sql, rows := fc()
	fields := []zap.Field{zap.Int64("rows", rows), zap.Duration("elapsed", elapsed)}
	if len(sql) > maxSQLLength {
		sql = sql[:maxSQLLength] + "..."
		fields = append(fields, zap.Bool("sql_truncated", true))
	}
	fields = append(fields, zap.String("sql", sql))

	l := WithContext(ctx, g.log)
	switch {
	case failed:
		l.Error(msg, append(fields, zap.Error(err))...)
	case slow && g.level >= gormlogger.Warn:
		l.Warn(msg, append(fields, zap.Duration("threshold", g.slowThreshold))...)
	default:
		l.Debug(msg, fields...)
	}
}

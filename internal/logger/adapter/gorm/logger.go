// Package gorm routes gorm statement logging through zerolog.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/logger"
)

// Logger implements gorm's logger.Interface on a zerolog.Logger.
type Logger struct {
	log                  zerolog.Logger
	level                gormlogger.LogLevel
	slowThreshold        time.Duration
	ignoreRecordNotFound bool
}

// New returns a gorm logger writing to zl. Statements are logged at debug
// level only if cfg.Enabled, failing and slow statements always.
func New(cfg logger.SQL, zl zerolog.Logger) *Logger {
	level := gormlogger.Warn
	if cfg.Enabled {
		level = gormlogger.Info
	}

	return &Logger{
		log:                  zl,
		level:                level,
		slowThreshold:        cfg.SlowThreshold,
		ignoreRecordNotFound: cfg.IgnoreRecordNotFound,
	}
}

// LogMode returns a copy of l using level.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level

	return &c
}

func (l *Logger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.log.Info().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *Logger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.log.Warn().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *Logger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.log.Error().Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace logs one executed statement.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && l.level >= gormlogger.Error &&
		!(l.ignoreRecordNotFound && errors.Is(err, gorm.ErrRecordNotFound)):
		event = l.log.Error().Err(err)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		event = l.log.Warn().Dur("threshold", l.slowThreshold)
	case l.level >= gormlogger.Info:
		event = l.log.Debug()
	default:
		return
	}

	sql, rows := fc()

	event = event.Str("sql", sql).Dur("elapsed", elapsed)
	if rows >= 0 {
		event = event.Int64("rows", rows)
	}

	switch {
	case err != nil:
		event.Msg("sql statement failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		event.Msg("slow sql statement")
	default:
		event.Msg("sql statement")
	}
}

package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "SELECT", operationFromSQL("select * from customers"))
	assert.Equal(t, "INSERT", operationFromSQL("  INSERT INTO customers (id) VALUES (1)"))
	assert.Equal(t, "SELECT", operationFromSQL("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.Equal(t, "UNKNOWN", operationFromSQL("PRAGMA foreign_keys"))
	assert.Equal(t, "UNKNOWN", operationFromSQL(""))
}

func TestTraceLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewGormLogger(zap.New(core), GormLoggerConfig{
		Level:                gormlogger.Warn,
		SlowThreshold:        10 * time.Millisecond,
		IgnoreRecordNotFound: true,
	})
	sql := func() (string, int64) { return "SELECT * FROM customers", 1 }

	l.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	l.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
	l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	l.Trace(context.Background(), time.Now(), sql, nil)

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
	}
}

func TestParamsFilterDropsValues(t *testing.T) {
	l := NewGormLogger(nil, DefaultGormLoggerConfig())
	sql, params := l.ParamsFilter(context.Background(), "SELECT ?", "secret@example.com")
	assert.Equal(t, "SELECT ?", sql)
	assert.Nil(t, params)
}

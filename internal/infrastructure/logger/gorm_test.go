package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newGormTestLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func receiptQuery() (string, int64) {
	return `SELECT * FROM "goods_receipt_notes" WHERE tenant_id = $1`, 3
}

func TestGormLogger_TraceQuery(t *testing.T) {
	gl, recorded := newGormTestLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), receiptQuery, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "sql query", logs[0].Message)
	assert.Equal(t, zapcore.DebugLevel, logs[0].Level)

	fields := logFields(logs[0])
	assert.Contains(t, fields["sql"].String, "goods_receipt_notes")
	assert.Equal(t, int64(3), fields["rows"].Integer)
}

func TestGormLogger_TraceError(t *testing.T) {
	gl, recorded := newGormTestLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), receiptQuery, errors.New("connection reset"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "sql error", logs[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
}

func TestGormLogger_IgnoresRecordNotFound(t *testing.T) {
	gl, recorded := newGormTestLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), receiptQuery, gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_ReportsRecordNotFoundWhenConfigured(t *testing.T) {
	gl, recorded := newGormTestLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

	gl.Trace(context.Background(), time.Now(), receiptQuery, gormlogger.ErrRecordNotFound)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "sql error", logs[0].Message)
}

func TestGormLogger_SlowQuery(t *testing.T) {
	gl, recorded := newGormTestLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

	gl.Trace(context.Background(), time.Now().Add(-50*time.Millisecond), receiptQuery, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "slow sql")
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
}

func TestGormLogger_Silent(t *testing.T) {
	gl, recorded := newGormTestLogger(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), receiptQuery, errors.New("connection reset"))
	gl.Info(context.Background(), "ignored")
	gl.Warn(context.Background(), "ignored")
	gl.Error(context.Background(), "ignored")

	assert.Empty(t, recorded.All())
}

func TestGormLogger_TraceCarriesCorrelationIDs(t *testing.T) {
	gl, recorded := newGormTestLogger(gormlogger.Info)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-7f3a")
	ctx = context.WithValue(ctx, TenantIDKey, "sak-mfg")
	gl.Trace(ctx, time.Now(), receiptQuery, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)

	fields := logFields(logs[0])
	require.Contains(t, fields, "request_id")
	assert.Equal(t, "req-7f3a", fields["request_id"].String)
	require.Contains(t, fields, "tenant_id")
	assert.Equal(t, "sak-mfg", fields["tenant_id"].String)
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, recorded := newGormTestLogger(gormlogger.Silent)

	verbose := gl.LogMode(gormlogger.Info)
	verbose.Trace(context.Background(), time.Now(), receiptQuery, nil)

	// The original keeps its own level.
	gl.Trace(context.Background(), time.Now(), receiptQuery, nil)

	assert.Len(t, recorded.All(), 1)
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected gormlogger.LogLevel
	}{
		{input: "silent", expected: gormlogger.Silent},
		{input: "error", expected: gormlogger.Error},
		{input: "warn", expected: gormlogger.Warn},
		{input: "info", expected: gormlogger.Info},
		{input: "debug", expected: gormlogger.Info},
		{input: "unknown", expected: gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.input))
		})
	}
}

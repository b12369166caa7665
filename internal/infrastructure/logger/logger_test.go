package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config uses defaults", nil},
		{"console", DefaultConfig()},
		{"json", ProductionConfig()},
		{"stderr debug", &Config{Level: "debug", Format: "json", Output: "stderr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_TeesExtraCores(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	l, err := New(&Config{Level: "error", Format: "json", Output: "stderr"}, core)
	require.NoError(t, err)

	l.Info("bill saved")
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "bill saved", recorded.All()[0].Message)
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		l, err := NewForEnvironment(env)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.level))
		})
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.log")

	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	l.Info("receipt printed", zap.String("bill_number", "BILL-000001"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"receipt printed"`)
	assert.Contains(t, string(data), `"bill_number":"BILL-000001"`)
}

func TestContextHelpers(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx := context.Background()
	assert.NotNil(t, FromContext(ctx))
	assert.Empty(t, GetRequestID(ctx))

	ctx, _ = WithRequestID(ctx, base, "req-1")
	ctx, _ = WithCashierID(ctx, FromContext(ctx), "cashier-7")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "cashier-7", GetCashierID(ctx))

	L(ctx).Info("hello")
	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "cashier-7", fields["cashier_id"])
	assert.NotContains(t, fields, "trace_id")
}

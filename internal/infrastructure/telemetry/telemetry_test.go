package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Enabled: false, ServiceName: "test"}

	tp, err := NewTracerProvider(ctx, cfg, nil)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestMeterProvider_RequiresMetricsFlag(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), Config{Enabled: true, MetricsEnabled: false}, nil)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
}

func TestLoggerProvider_BridgeDisabledReturnsBase(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	lp, err := NewLoggerProvider(context.Background(), Config{})
	require.NoError(t, err)

	bridged := lp.Bridge(base, zapcore.InfoLevel)
	assert.Same(t, base, bridged)
	bridged.Info("still logged")
	assert.Equal(t, 1, recorded.Len())

	assert.False(t, lp.Core(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := tp.Tracer("test").Start(context.Background(), "bill.create")
	RecordError(span, nil)
	RecordError(span, errors.New("insert failed"))
	span.End()

	_, okSpan := tp.Tracer("test").Start(context.Background(), "bill.get")
	SetOK(okSpan)
	okSpan.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1)
	assert.Equal(t, codes.Ok, spans[1].Status().Code)
}

func TestStartServiceSpan(t *testing.T) {
	ctx, span := StartServiceSpan(context.Background(), "receipt", "render")
	defer span.End()
	assert.NotNil(t, ctx)
}

func TestNewPOSMetrics_NilMeter(t *testing.T) {
	_, err := NewPOSMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestPOSMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *POSMetrics
	assert.NotPanics(t, func() {
		m.RecordBillSaved(context.Background(), decimal.NewFromInt(1))
		m.RecordBillSaveFailed(context.Background(), "header")
		m.RecordReceiptRendered(context.Background(), "html", "A4", time.Millisecond, nil)
	})
}

func TestPOSMetrics_Record(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewPOSMetrics(provider.Meter("test"))
	require.NoError(t, err)

	m.RecordBillSaved(ctx, decimal.RequireFromString("120.50"))
	m.RecordBillSaved(ctx, decimal.RequireFromString("79.50"))
	m.RecordBillSaveFailed(ctx, "items")
	m.RecordReceiptRendered(ctx, "pdf", "RECEIPT_80MM", 300*time.Millisecond, nil)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	found := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			found[metric.Name] = metric.Data
		}
	}

	saved, ok := found["pos_bill_saved_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, saved.DataPoints, 1)
	assert.Equal(t, int64(2), saved.DataPoints[0].Value)

	amount, ok := found["pos_bill_amount_total"].(metricdata.Sum[float64])
	require.True(t, ok)
	assert.InDelta(t, 200.0, amount.DataPoints[0].Value, 0.001)

	assert.Contains(t, found, "pos_bill_save_failed_total")
	assert.Contains(t, found, "pos_receipt_rendered_total")
	assert.Contains(t, found, "pos_receipt_render_duration_seconds")
}

func TestDBTracingPlugin_DisabledIsNoop(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, nil)
	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
	assert.NoError(t, p.Register(nil))
}

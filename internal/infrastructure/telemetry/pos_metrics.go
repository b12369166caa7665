package telemetry

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// POSMetrics holds the business counters of the till.
type POSMetrics struct {
	billSaved       *Counter
	billSaveFailed  *Counter
	billAmount      *FloatCounter
	receiptRendered *Counter
	renderDuration  *Histogram
}

// NewPOSMetrics registers the point-of-sale instruments on meter.
func NewPOSMetrics(meter metric.Meter) (*POSMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &POSMetrics{}
	var err error

	if m.billSaved, err = NewCounter(meter, "pos_bill_saved_total", "Bills stored with all their items", "{bills}"); err != nil {
		return nil, err
	}
	if m.billSaveFailed, err = NewCounter(meter, "pos_bill_save_failed_total", "Bills that failed to store", "{bills}"); err != nil {
		return nil, err
	}
	if m.billAmount, err = NewFloatCounter(meter, "pos_bill_amount_total", "Sum of stored bill totals", "INR"); err != nil {
		return nil, err
	}
	if m.receiptRendered, err = NewCounter(meter, "pos_receipt_rendered_total", "Receipts rendered to HTML or PDF", "{receipts}"); err != nil {
		return nil, err
	}
	if m.renderDuration, err = NewHistogram(meter, "pos_receipt_render_duration_seconds", "Receipt rendering latency", "s",
		0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordBillSaved counts a stored bill and adds its total.
func (m *POSMetrics) RecordBillSaved(ctx context.Context, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.billSaved.Inc(ctx)
	m.billAmount.Add(ctx, total.InexactFloat64())
}

// RecordBillSaveFailed counts a failed save. stage is "header" or "items".
func (m *POSMetrics) RecordBillSaveFailed(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.billSaveFailed.Inc(ctx, attribute.String("stage", stage))
}

// RecordReceiptRendered counts a rendering and its latency. format is "html" or "pdf".
func (m *POSMetrics) RecordReceiptRendered(ctx context.Context, format, paperSize string, d time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("format", format),
		attribute.String("paper_size", paperSize),
		attribute.Bool("success", err == nil),
	}
	m.receiptRendered.Inc(ctx, attrs...)
	m.renderDuration.RecordDuration(ctx, d, attrs...)
}

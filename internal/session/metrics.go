package session

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/quickmart/internal/receipt"
)

type metrics struct {
	checkouts     metric.Int64Counter
	itemsSold     metric.Int64Counter
	revenue       metric.Float64Counter
	cancellations metric.Int64Counter
	rejected      metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	var (
		m   metrics
		err error
	)
	if m.checkouts, err = meter.Int64Counter("quickmart.checkouts",
		metric.WithDescription("Completed checkouts"),
	); err != nil {
		return nil, errors.Wrap(err, "checkouts")
	}
	if m.itemsSold, err = meter.Int64Counter("quickmart.items_sold",
		metric.WithDescription("Distinct items printed on receipts"),
	); err != nil {
		return nil, errors.Wrap(err, "items_sold")
	}
	if m.revenue, err = meter.Float64Counter("quickmart.revenue",
		metric.WithDescription("Receipt totals including tax"),
		metric.WithUnit("USD"),
	); err != nil {
		return nil, errors.Wrap(err, "revenue")
	}
	if m.cancellations, err = meter.Int64Counter("quickmart.cancellations",
		metric.WithDescription("Canceled transactions"),
	); err != nil {
		return nil, errors.Wrap(err, "cancellations")
	}
	if m.rejected, err = meter.Int64Counter("quickmart.rejected_operations",
		metric.WithDescription("Cart operations refused by stock or lookup checks"),
	); err != nil {
		return nil, errors.Wrap(err, "rejected_operations")
	}
	return &m, nil
}

func (m *metrics) checkout(ctx context.Context, member bool, s *receipt.Summary) {
	attrs := metric.WithAttributes(attribute.Bool("rewards_member", member))
	m.checkouts.Add(ctx, 1, attrs)
	m.itemsSold.Add(ctx, int64(s.ItemsSold), attrs)
	m.revenue.Add(ctx, s.Total.InexactFloat64(), attrs)
}

func (m *metrics) reject(ctx context.Context, reason string) {
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

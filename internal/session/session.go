// Package session ties one inventory, one cart and one customer together
// and exposes the operations a point-of-sale driver performs on them.
package session

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/quickmart/internal/domain/cart"
	"github.com/xenking/quickmart/internal/domain/customer"
	"github.com/xenking/quickmart/internal/domain/inventory"
	"github.com/xenking/quickmart/internal/receipt"
)

const instrumentationName = "github.com/xenking/quickmart/internal/session"

// InvalidQuantityError indicates a non-positive quantity for an item.
type InvalidQuantityError struct {
	Item     string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for %s, got %d", e.Item, e.Quantity)
}

// ReceiptGenerator prices a cart and records the receipt for a transaction.
type ReceiptGenerator interface {
	Generate(ctx context.Context, txn int, c *cart.Cart, p cart.Pricer, member bool) (*receipt.Summary, error)
}

// Options configures a Session.
type Options struct {
	// TransactionNo is the number printed on receipts. Zero means 1.
	TransactionNo int
	// AdvanceTransactionNo increments the number after each checkout.
	AdvanceTransactionNo bool
	// RewardsMember is the initial customer classification.
	RewardsMember bool

	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
}

func (o *Options) setDefaults() {
	if o.TransactionNo <= 0 {
		o.TransactionNo = 1
	}
	if o.MeterProvider == nil {
		o.MeterProvider = metricnoop.NewMeterProvider()
	}
	if o.TracerProvider == nil {
		o.TracerProvider = tracenoop.NewTracerProvider()
	}
}

// CheckoutResult describes a completed transaction.
type CheckoutResult struct {
	TransactionNo int
	Summary       receipt.Summary
}

// Session is a single shopper's point-of-sale state. It is not safe for
// concurrent use.
type Session struct {
	id        string
	store     *inventory.Store
	cart      *cart.Cart
	customer  *customer.Customer
	inventory inventory.Repository
	receipts  ReceiptGenerator
	txn       int
	advance   bool

	tracer  trace.Tracer
	metrics *metrics
}

// Open loads the inventory from repo and starts a session with an empty
// cart.
func Open(ctx context.Context, repo inventory.Repository, receipts ReceiptGenerator, opts Options) (*Session, error) {
	opts.setDefaults()

	m, err := newMetrics(opts.MeterProvider.Meter(instrumentationName))
	if err != nil {
		return nil, errors.Wrap(err, "create metrics")
	}

	records, err := repo.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load inventory")
	}

	s := &Session{
		id:        uuid.New().String(),
		store:     inventory.NewStore(records),
		cart:      cart.New(),
		customer:  customer.New(opts.RewardsMember),
		inventory: repo,
		receipts:  receipts,
		txn:       opts.TransactionNo,
		advance:   opts.AdvanceTransactionNo,
		tracer:    opts.TracerProvider.Tracer(instrumentationName),
		metrics:   m,
	}

	zctx.From(ctx).Info("Session opened",
		zap.String("session_id", s.id),
		zap.Int("items", s.store.Len()),
	)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Customer returns the session customer.
func (s *Session) Customer() *customer.Customer {
	return s.customer
}

// SetRewardsMember changes the customer classification. It persists across
// transactions.
func (s *Session) SetRewardsMember(v bool) {
	s.customer.SetRewardsMember(v)
}

// Quantity returns the in-memory stock of item.
func (s *Session) Quantity(item string) (int, error) {
	return s.store.Quantity(item)
}

// Lines returns the cart contents in the order they were added.
func (s *Session) Lines() []cart.Line {
	return s.cart.Lines()
}

// Breakdown prices the current cart for the current customer.
func (s *Session) Breakdown() (*cart.Breakdown, error) {
	return s.cart.PriceBreakdown(s.store, s.customer.RewardsMember())
}

// AddItem checks stock, appends qty units of item to the cart and deducts
// them from the inventory.
func (s *Session) AddItem(ctx context.Context, item string, qty int) error {
	if qty <= 0 {
		s.metrics.reject(ctx, "invalid_quantity")
		return &InvalidQuantityError{Item: item, Quantity: qty}
	}
	if err := s.store.CheckAvailable(item, qty); err != nil {
		s.metrics.reject(ctx, rejectReason(err))
		return err
	}

	s.cart.Add(item, qty)
	if err := s.store.Deduct(item, qty); err != nil {
		return errors.Wrapf(err, "deduct %s", item)
	}

	zctx.From(ctx).Debug("Item added",
		zap.String("session_id", s.id),
		zap.String("item", item),
		zap.Int("quantity", qty),
	)
	return nil
}

// RemoveItem removes the first cart line for item. Stock already deducted
// for the line is not returned to the inventory.
func (s *Session) RemoveItem(ctx context.Context, item string) error {
	if err := s.cart.Remove(item); err != nil {
		s.metrics.reject(ctx, rejectReason(err))
		return err
	}
	zctx.From(ctx).Debug("Item removed",
		zap.String("session_id", s.id),
		zap.String("item", item),
	)
	return nil
}

// RemoveAll empties the cart.
func (s *Session) RemoveAll(ctx context.Context) {
	s.cart.Clear()
	zctx.From(ctx).Debug("Cart emptied", zap.String("session_id", s.id))
}

// Cancel abandons the current transaction. Only the cart is cleared.
func (s *Session) Cancel(ctx context.Context) {
	n := s.cart.Len()
	s.cart.Clear()
	s.metrics.cancellations.Add(ctx, 1)
	zctx.From(ctx).Info("Transaction canceled",
		zap.String("session_id", s.id),
		zap.Int("lines", n),
	)
}

// Checkout writes the receipt for the current cart, persists the inventory
// and clears the cart. Nothing is rolled back when a later step fails.
func (s *Session) Checkout(ctx context.Context) (_ *CheckoutResult, rerr error) {
	txn := s.txn
	ctx, span := s.tracer.Start(ctx, "session.Checkout",
		trace.WithAttributes(
			attribute.String("session.id", s.id),
			attribute.Int("transaction.no", txn),
			attribute.Int("cart.lines", s.cart.Len()),
		),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	member := s.customer.RewardsMember()
	summary, err := s.receipts.Generate(ctx, txn, s.cart, s.store, member)
	if err != nil {
		return nil, errors.Wrap(err, "generate receipt")
	}

	if err := s.inventory.Save(ctx, s.store.Records()); err != nil {
		return nil, errors.Wrap(err, "save inventory")
	}

	s.cart.Clear()
	if s.advance {
		s.txn++
	}
	s.metrics.checkout(ctx, member, summary)

	zctx.From(ctx).Info("Checkout complete",
		zap.String("session_id", s.id),
		zap.String("transaction", receipt.TransactionNumber(txn)),
		zap.Bool("rewards_member", member),
		zap.Int("items_sold", summary.ItemsSold),
		zap.String("total", receipt.Money(summary.Total)),
		zap.String("taxes", receipt.Money(summary.Taxes)),
	)
	return &CheckoutResult{TransactionNo: txn, Summary: *summary}, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, inventory.ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, inventory.ErrInsufficientQuantity):
		return "insufficient_quantity"
	default:
		return "other"
	}
}

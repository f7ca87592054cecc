package receipt

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/quickmart/internal/domain/cart"
)

// Writer generates receipts into a file at a fixed path, replacing the
// previous receipt.
type Writer struct {
	path string
	now  func() time.Time
}

// NewWriter creates a Writer that writes to path.
func NewWriter(path string) *Writer {
	return &Writer{path: path, now: time.Now}
}

// Path returns the receipt file location.
func (w *Writer) Path() string {
	return w.path
}

// Generate prices c against p and writes the receipt for transaction txn.
func (w *Writer) Generate(ctx context.Context, txn int, c *cart.Cart, p cart.Pricer, member bool) (*Summary, error) {
	b, err := c.PriceBreakdown(p, member)
	if err != nil {
		return nil, errors.Wrap(err, "price cart")
	}

	if dir := filepath.Dir(w.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create receipt dir %s", dir)
		}
	}

	f, err := os.Create(w.path)
	if err != nil {
		return nil, errors.Wrapf(err, "create receipt %s", w.path)
	}
	defer func() { _ = f.Close() }()

	s, err := Format(f, Header{
		Date:          w.now(),
		TransactionNo: txn,
		RewardsMember: member,
	}, b)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrapf(err, "close receipt %s", w.path)
	}

	zctx.From(ctx).Debug("Receipt written",
		zap.String("path", w.path),
		zap.String("transaction", TransactionNumber(txn)),
		zap.Int("items_sold", s.ItemsSold),
	)
	return &s, nil
}

// Package receipt renders a priced cart as the plain-text transaction record
// handed to the customer at checkout.
package receipt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/quickmart/internal/domain/cart"
	"github.com/xenking/quickmart/internal/domain/customer"
)

const (
	dateLayout  = "January 02, 2006"
	columns     = "Item      Quantity      Unit Price    Tax       Total"
	separator   = "**************************"
	moneyPlaces = 2
)

// Header holds the receipt fields that do not come from the cart.
type Header struct {
	Date          time.Time
	TransactionNo int
	RewardsMember bool
}

// Summary holds the aggregate figures printed at the bottom of a receipt.
type Summary struct {
	ItemsSold int
	Taxes     decimal.Decimal
	Total     decimal.Decimal
}

// Format writes the receipt for b to w and returns its totals.
func Format(w io.Writer, h Header, b *cart.Breakdown) (Summary, error) {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, h.Date.Format(dateLayout))
	fmt.Fprintf(bw, "Transaction No. %s\n", TransactionNumber(h.TransactionNo))
	fmt.Fprintln(bw, customer.StatusLine(h.RewardsMember))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, columns)
	fmt.Fprintln(bw)

	var s Summary
	s.Taxes = decimal.Zero
	s.Total = decimal.Zero
	for _, l := range b.Lines() {
		s.Total = s.Total.Add(l.Total)
		s.Taxes = s.Taxes.Add(l.Tax)
		s.ItemsSold++
		fmt.Fprintf(bw, "%s:        %d       x    $%s  +   $%s  =   $%s\n",
			l.Item, l.Quantity, UnitPrice(l.UnitPrice), Money(l.Tax), Money(l.Total))
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, separator)
	fmt.Fprintf(bw, "Items sold: %d\n", s.ItemsSold)
	fmt.Fprintf(bw, "Taxes: $%s\n", Money(s.Taxes))
	fmt.Fprintf(bw, "Total: $%s\n", Money(s.Total))

	if err := bw.Flush(); err != nil {
		return Summary{}, errors.Wrap(err, "write receipt")
	}
	return s, nil
}

// TransactionNumber renders n zero-padded to six digits.
func TransactionNumber(n int) string {
	return fmt.Sprintf("%06d", n)
}

// Money renders v with two decimal places.
func Money(v decimal.Decimal) string {
	return v.StringFixed(moneyPlaces)
}

// UnitPrice renders the shortest exact form of v with at least one
// fractional digit: 3.75, 3.5, 4.0.
func UnitPrice(v decimal.Decimal) string {
	s := v.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

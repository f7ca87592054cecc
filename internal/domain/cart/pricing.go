package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/quickmart/internal/domain/inventory"
)

// TaxRate is the flat sales tax applied to taxable items.
var TaxRate = decimal.RequireFromString("0.065")

var taxMultiplier = decimal.NewFromInt(1).Add(TaxRate)

// Pricer answers the price and tax questions needed to price a cart.
// *inventory.Store implements it.
type Pricer interface {
	PriceOf(item string, member bool) (decimal.Decimal, error)
	TaxStatusOf(item string) (inventory.TaxStatus, error)
}

// PricedLine is the computed price of one item. Tax is the tax charged on
// the whole line and Total includes it.
type PricedLine struct {
	Item      string
	Quantity  int
	UnitPrice decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// Breakdown maps each distinct item to its priced line, in the order the
// item first appeared in the cart.
type Breakdown struct {
	lines []PricedLine
	index map[string]int
}

func newBreakdown(n int) *Breakdown {
	return &Breakdown{
		lines: make([]PricedLine, 0, n),
		index: make(map[string]int, n),
	}
}

// put inserts pl or overwrites the existing entry for the same item.
func (b *Breakdown) put(pl PricedLine) {
	if i, ok := b.index[pl.Item]; ok {
		b.lines[i] = pl
		return
	}
	b.index[pl.Item] = len(b.lines)
	b.lines = append(b.lines, pl)
}

// Lines returns the priced lines in order.
func (b *Breakdown) Lines() []PricedLine {
	out := make([]PricedLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// Get returns the priced line for item.
func (b *Breakdown) Get(item string) (PricedLine, bool) {
	i, ok := b.index[item]
	if !ok {
		return PricedLine{}, false
	}
	return b.lines[i], true
}

// Len returns the number of distinct items priced.
func (b *Breakdown) Len() int {
	return len(b.lines)
}

// Total returns the sum of line totals.
func (b *Breakdown) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range b.lines {
		sum = sum.Add(l.Total)
	}
	return sum
}

// Tax returns the sum of line taxes.
func (b *Breakdown) Tax() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range b.lines {
		sum = sum.Add(l.Tax)
	}
	return sum
}

// PriceBreakdown prices every line of the cart. Lines are processed in cart
// order and a later line for an item replaces the earlier result for that
// item instead of adding to it.
func (c *Cart) PriceBreakdown(p Pricer, member bool) (*Breakdown, error) {
	b := newBreakdown(len(c.lines))
	for _, l := range c.lines {
		pl, err := priceLine(p, l, member)
		if err != nil {
			return nil, errors.Wrapf(err, "price %s", l.Item)
		}
		b.put(pl)
	}
	return b, nil
}

func priceLine(p Pricer, l Line, member bool) (PricedLine, error) {
	price, err := p.PriceOf(l.Item, member)
	if err != nil {
		return PricedLine{}, err
	}
	status, err := p.TaxStatusOf(l.Item)
	if err != nil {
		return PricedLine{}, err
	}

	subtotal := price.Mul(decimal.NewFromInt(int64(l.Quantity)))
	tax := decimal.Zero
	total := subtotal
	if status == inventory.Taxable {
		tax = subtotal.Mul(TaxRate)
		total = subtotal.Mul(taxMultiplier)
	}

	return PricedLine{
		Item:      l.Item,
		Quantity:  l.Quantity,
		UnitPrice: price,
		Tax:       tax,
		Total:     total,
	}, nil
}

package cart

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/quickmart/internal/domain/inventory"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newTestStore() *inventory.Store {
	return inventory.NewStore([]inventory.Record{
		{Item: "Milk", Quantity: 5, RegularPrice: d("3.75"), MemberPrice: d("3.50"), TaxStatus: inventory.TaxExempt},
		{Item: "Red Bull", Quantity: 30, RegularPrice: d("4.30"), MemberPrice: d("4.00"), TaxStatus: inventory.Taxable},
	})
}

// failingPricer knows prices but has lost track of tax status.
type failingPricer struct{}

func (failingPricer) PriceOf(_ string, _ bool) (decimal.Decimal, error) {
	return d("1.00"), nil
}

func (failingPricer) TaxStatusOf(_ string) (inventory.TaxStatus, error) {
	return "", errors.New("catalog unavailable")
}

func TestCart_Add(t *testing.T) {
	c := New()
	c.Add("Milk", 2)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, Line{Item: "Milk", Quantity: 2}, lines[0])
}

func TestCart_Remove(t *testing.T) {
	c := New()
	c.Add("Milk", 2)

	require.NoError(t, c.Remove("Milk"))
	assert.Equal(t, 0, c.Len())
}

func TestCart_Remove_FirstMatchOnly(t *testing.T) {
	c := New()
	c.Add("Milk", 1)
	c.Add("Red Bull", 2)
	c.Add("Milk", 3)

	require.NoError(t, c.Remove("Milk"))

	assert.Equal(t, []Line{
		{Item: "Red Bull", Quantity: 2},
		{Item: "Milk", Quantity: 3},
	}, c.Lines())
}

func TestCart_Remove_NotFound(t *testing.T) {
	c := New()
	c.Add("Milk", 2)

	err := c.Remove("Water")

	require.ErrorIs(t, err, inventory.ErrItemNotFound)
	var nf *inventory.ItemNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, inventory.LocationCart, nf.Location)
	assert.Equal(t, 1, c.Len(), "failed removal must not change the cart")
}

func TestCart_Clear(t *testing.T) {
	c := New()
	c.Add("Milk", 2)
	c.Add("Red Bull", 1)

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Lines())
}

func TestCart_PriceBreakdown_Totals(t *testing.T) {
	tests := []struct {
		name      string
		member    bool
		milkTax   bool
		wantTotal decimal.Decimal
	}{
		{name: "regular customer", member: false, wantTotal: d("21.2385")},
		{name: "rewards member", member: true, wantTotal: d("19.78")},
		{name: "regular customer with taxable milk", member: false, milkTax: true, wantTotal: d("21.726")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := newTestStore().Records()
			if tt.milkTax {
				records[0].TaxStatus = inventory.Taxable
			}
			store := inventory.NewStore(records)

			c := New()
			c.Add("Milk", 2)
			c.Add("Red Bull", 3)

			b, err := c.PriceBreakdown(store, tt.member)
			require.NoError(t, err)
			assert.True(t, tt.wantTotal.Equal(b.Total()),
				"expected total %s, got %s", tt.wantTotal, b.Total())
		})
	}
}

func TestCart_PriceBreakdown_Lines(t *testing.T) {
	c := New()
	c.Add("Milk", 2)
	c.Add("Red Bull", 3)

	b, err := c.PriceBreakdown(newTestStore(), false)
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())

	milk, ok := b.Get("Milk")
	require.True(t, ok)
	assert.Equal(t, 2, milk.Quantity)
	assert.True(t, d("3.75").Equal(milk.UnitPrice))
	assert.True(t, milk.Tax.IsZero(), "tax exempt line carries no tax")
	assert.True(t, d("7.50").Equal(milk.Total))

	rb, ok := b.Get("Red Bull")
	require.True(t, ok)
	assert.True(t, d("0.8385").Equal(rb.Tax), "tax is 6.5%% of the line subtotal, got %s", rb.Tax)
	assert.True(t, d("13.7385").Equal(rb.Total))

	assert.True(t, d("0.8385").Equal(b.Tax()))
	assert.Equal(t, []string{"Milk", "Red Bull"}, []string{b.Lines()[0].Item, b.Lines()[1].Item})
}

// Duplicate lines for the same item are not summed: the last line wins but
// keeps the position of the first.
func TestCart_PriceBreakdown_DuplicateItemLastWriteWins(t *testing.T) {
	c := New()
	c.Add("Milk", 2)
	c.Add("Red Bull", 1)
	c.Add("Milk", 3)

	b, err := c.PriceBreakdown(newTestStore(), false)
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())

	lines := b.Lines()
	assert.Equal(t, "Milk", lines[0].Item)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, d("11.25").Equal(lines[0].Total))
}

func TestCart_PriceBreakdown_Empty(t *testing.T) {
	b, err := New().PriceBreakdown(newTestStore(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
	assert.True(t, b.Total().IsZero())
	assert.True(t, b.Tax().IsZero())
}

func TestCart_PriceBreakdown_UnknownItem(t *testing.T) {
	c := New()
	c.Add("Water", 1)

	_, err := c.PriceBreakdown(newTestStore(), false)
	require.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestCart_PriceBreakdown_PricerError(t *testing.T) {
	c := New()
	c.Add("Milk", 1)

	_, err := c.PriceBreakdown(failingPricer{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog unavailable")
}

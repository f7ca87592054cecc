// Package cart holds the customer's in-progress transaction and prices it
// against the store inventory.
package cart

import (
	"github.com/xenking/quickmart/internal/domain/inventory"
)

// Line is one "add item" entry in the cart.
type Line struct {
	Item     string
	Quantity int
}

// Cart is an ordered list of lines. The same item may appear on several
// lines; the cart does not consult inventory when lines are added.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends a line for qty units of item.
func (c *Cart) Add(item string, qty int) {
	c.lines = append(c.lines, Line{Item: item, Quantity: qty})
}

// Remove deletes the first line whose item matches. The cart is left
// unchanged when no line matches.
func (c *Cart) Remove(item string) error {
	for i, l := range c.lines {
		if l.Item == item {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return &inventory.ItemNotFoundError{Item: item, Location: inventory.LocationCart}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

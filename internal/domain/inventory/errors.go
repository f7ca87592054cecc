package inventory

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrItemNotFound         = errors.New("item not found")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
)

// Locations reported by ItemNotFoundError.
const (
	LocationInventory = "inventory"
	LocationCart      = "cart"
)

// ItemNotFoundError indicates a lookup against a name that is absent from
// the inventory or the cart.
type ItemNotFoundError struct {
	Item     string
	Location string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("%s not found in the %s", e.Item, e.Location)
}

// Is reports whether target is ErrItemNotFound.
func (e *ItemNotFoundError) Is(target error) bool {
	return target == ErrItemNotFound
}

// InsufficientQuantityError indicates a request for more units than are in
// stock.
type InsufficientQuantityError struct {
	Item      string
	Requested int
	Available int
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity available for %s: requested %d, have %d",
		e.Item, e.Requested, e.Available)
}

// Is reports whether target is ErrInsufficientQuantity.
func (e *InsufficientQuantityError) Is(target error) bool {
	return target == ErrInsufficientQuantity
}

package inventory

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Store owns the catalog for one session. Records keep the order in which
// they were loaded so that saving reproduces the source layout.
//
// Store is not safe for concurrent use.
type Store struct {
	records []Record
	index   map[string]int
}

// NewStore builds a Store from records. A later record with the same item
// name replaces the earlier one in place.
func NewStore(records []Record) *Store {
	s := &Store{
		records: make([]Record, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		if i, ok := s.index[r.Item]; ok {
			s.records[i] = r
			continue
		}
		s.index[r.Item] = len(s.records)
		s.records = append(s.records, r)
	}
	return s
}

func (s *Store) lookup(item string) (*Record, error) {
	i, ok := s.index[item]
	if !ok {
		return nil, &ItemNotFoundError{Item: item, Location: LocationInventory}
	}
	return &s.records[i], nil
}

// PriceOf returns the member price when member is true and the regular
// price otherwise.
func (s *Store) PriceOf(item string, member bool) (decimal.Decimal, error) {
	r, err := s.lookup(item)
	if err != nil {
		return decimal.Zero, err
	}
	return r.Price(member), nil
}

// TaxStatusOf returns the tax status of item.
func (s *Store) TaxStatusOf(item string) (TaxStatus, error) {
	r, err := s.lookup(item)
	if err != nil {
		return "", err
	}
	return r.TaxStatus, nil
}

// Quantity returns the units of item currently in stock.
func (s *Store) Quantity(item string) (int, error) {
	r, err := s.lookup(item)
	if err != nil {
		return 0, err
	}
	return r.Quantity, nil
}

// CheckAvailable succeeds when at least qty units of item are in stock.
// It never mutates the store.
func (s *Store) CheckAvailable(item string, qty int) error {
	r, err := s.lookup(item)
	if err != nil {
		return err
	}
	if qty > r.Quantity {
		return &InsufficientQuantityError{Item: item, Requested: qty, Available: r.Quantity}
	}
	return nil
}

// Deduct removes qty units of item from stock. Callers are expected to call
// CheckAvailable first; Deduct still refuses to drive the quantity negative.
func (s *Store) Deduct(item string, qty int) error {
	if qty < 0 {
		return errors.Errorf("deduct %s: negative quantity %d", item, qty)
	}
	r, err := s.lookup(item)
	if err != nil {
		return err
	}
	if qty > r.Quantity {
		return &InsufficientQuantityError{Item: item, Requested: qty, Available: r.Quantity}
	}
	r.Quantity -= qty
	return nil
}

// Records returns a copy of the catalog in load order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of distinct items in the catalog.
func (s *Store) Len() int {
	return len(s.records)
}

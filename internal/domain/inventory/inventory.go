package inventory

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// TaxStatus tells whether sales tax applies to an item.
type TaxStatus string

const (
	// Taxable items are charged sales tax on their subtotal.
	Taxable TaxStatus = "Taxable"
	// TaxExempt items are sold without tax.
	TaxExempt TaxStatus = "Tax-Exempt"
)

// ParseTaxStatus converts the persisted literal into a TaxStatus.
func ParseTaxStatus(s string) (TaxStatus, error) {
	switch TaxStatus(s) {
	case Taxable, TaxExempt:
		return TaxStatus(s), nil
	default:
		return "", errors.Errorf("unknown tax status %q", s)
	}
}

// Record is a single catalog entry keyed by its item name.
type Record struct {
	Item         string
	Quantity     int
	RegularPrice decimal.Decimal
	MemberPrice  decimal.Decimal
	TaxStatus    TaxStatus
}

// Price returns the member price for rewards members and the regular price
// otherwise.
func (r Record) Price(member bool) decimal.Decimal {
	if member {
		return r.MemberPrice
	}
	return r.RegularPrice
}

// Repository loads and persists the whole inventory at once.
type Repository interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
}

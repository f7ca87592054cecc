// Package flatfile persists the inventory as one text record per line:
//
//	Milk: 10, $3.75, $3.50, Tax-Exempt
package flatfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/quickmart/internal/domain/inventory"
)

const (
	fieldSep    = ", "
	itemSep     = ": "
	currency    = "$"
	pricePlaces = 2
)

// ParseError describes a record line that does not match the inventory
// format.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("inventory line %d %q: %s", e.Line, e.Text, e.Reason)
}

// Decode reads inventory records from r. Blank lines are skipped.
func Decode(r io.Reader) ([]inventory.Record, error) {
	var (
		records []inventory.Record
		lineNo  int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		rec, err := parseRecord(text)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: text, Reason: err.Error()}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan inventory")
	}
	return records, nil
}

func parseRecord(text string) (inventory.Record, error) {
	fields := strings.Split(text, fieldSep)
	if len(fields) != 4 {
		return inventory.Record{}, errors.Errorf("expected 4 fields, got %d", len(fields))
	}

	head := strings.Split(strings.TrimSpace(fields[0]), itemSep)
	if len(head) != 2 {
		return inventory.Record{}, errors.New(`expected "<item>: <quantity>"`)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(head[1]))
	if err != nil {
		return inventory.Record{}, errors.Wrap(err, "quantity")
	}
	if qty < 0 {
		return inventory.Record{}, errors.Errorf("negative quantity %d", qty)
	}

	regular, err := parsePrice(fields[1])
	if err != nil {
		return inventory.Record{}, errors.Wrap(err, "regular price")
	}
	member, err := parsePrice(fields[2])
	if err != nil {
		return inventory.Record{}, errors.Wrap(err, "member price")
	}
	status, err := inventory.ParseTaxStatus(strings.TrimSpace(fields[3]))
	if err != nil {
		return inventory.Record{}, err
	}

	return inventory.Record{
		Item:         strings.TrimSpace(head[0]),
		Quantity:     qty,
		RegularPrice: regular,
		MemberPrice:  member,
		TaxStatus:    status,
	}, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, currency) {
		return decimal.Zero, errors.Errorf("price %q must start with %q", s, currency)
	}
	v, err := decimal.NewFromString(strings.TrimPrefix(s, currency))
	if err != nil {
		return decimal.Zero, err
	}
	if v.IsNegative() {
		return decimal.Zero, errors.Errorf("negative price %s", v)
	}
	return v, nil
}

// Encode writes records to w in the inventory format with two-decimal
// prices.
func Encode(w io.Writer, records []inventory.Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if strings.Contains(r.Item, fieldSep) || strings.Contains(r.Item, itemSep) {
			return errors.Errorf("item name %q cannot be stored in the inventory format", r.Item)
		}
		if _, err := fmt.Fprintf(bw, "%s: %d, $%s, $%s, %s\n",
			r.Item,
			r.Quantity,
			r.RegularPrice.StringFixed(pricePlaces),
			r.MemberPrice.StringFixed(pricePlaces),
			r.TaxStatus,
		); err != nil {
			return errors.Wrapf(err, "write %s", r.Item)
		}
	}
	return bw.Flush()
}

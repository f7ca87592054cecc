// Package menu implements the interactive text front end of the store.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/quickmart/internal/receipt"
	"github.com/xenking/quickmart/internal/session"
)

const title = "===== Jerrys Quick Mart ====="

// Option is a menu entry.
type Option struct {
	Key         string
	Description string
}

// Options lists the menu entries in display order.
var Options = []Option{
	{Key: "1", Description: "Select customer type"},
	{Key: "2", Description: "Add item to cart"},
	{Key: "3", Description: "Remove item"},
	{Key: "4", Description: "View cart"},
	{Key: "5", Description: "Checkout and print receipt"},
	{Key: "6", Description: "Cancel transaction"},
	{Key: "7", Description: "Exit"},
}

const (
	choiceCustomer = "1"
	choiceAdd      = "2"
	choiceRemove   = "3"
	choiceView     = "4"
	choiceCheckout = "5"
	choiceCancel   = "6"
	choiceExit     = "7"
)

// removeAll is the remove-item answer that empties the whole cart.
const removeAll = "all"

// ErrInvalidInput is matched by InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

var errInputClosed = errors.New("input closed")

// InvalidInputError reports input outside the accepted set: an unknown menu
// choice or a quantity that is not a positive integer.
type InvalidInputError struct {
	Input string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Input)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validate checks that choice is one of the menu keys.
func Validate(choice string) error {
	for _, o := range Options {
		if o.Key == choice {
			return nil
		}
	}
	return &InvalidInputError{Input: choice}
}

// Menu drives a session from line-oriented input.
type Menu struct {
	in      io.Reader
	lines   <-chan string
	out     io.Writer
	session *session.Session
}

// New creates a Menu reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer, s *session.Session) *Menu {
	return &Menu{
		in:      in,
		out:     out,
		session: s,
	}
}

// readLines feeds lines of r into a channel that is closed at EOF or once
// ctx is done, so prompts can also be abandoned on cancellation.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// Run shows the menu until the user exits, input ends or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.lines = readLines(readCtx, m.in)

	for {
		m.display()
		choice, err := m.prompt(ctx, "Enter your choice: ")
		if err != nil {
			return m.stop(ctx, err)
		}

		exit, err := m.handle(ctx, choice)
		if err != nil {
			if errors.Is(err, errInputClosed) || ctx.Err() != nil {
				return m.stop(ctx, err)
			}
			m.report(ctx, choice, err)
			continue
		}
		if exit {
			fmt.Fprintln(m.out, "Exiting...")
			return nil
		}
	}
}

func (m *Menu) stop(ctx context.Context, err error) error {
	if errors.Is(err, errInputClosed) || errors.Is(err, context.Canceled) {
		zctx.From(ctx).Info("Menu closed", zap.String("reason", err.Error()))
		return nil
	}
	return err
}

func (m *Menu) display() {
	fmt.Fprintln(m.out, title)
	for _, o := range Options {
		fmt.Fprintf(m.out, "%s. %s\n", o.Key, o.Description)
	}
}

func (m *Menu) prompt(ctx context.Context, text string) (string, error) {
	fmt.Fprint(m.out, text)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			return "", errInputClosed
		}
		return strings.TrimSpace(line), nil
	}
}

func (m *Menu) handle(ctx context.Context, choice string) (exit bool, err error) {
	if err := Validate(choice); err != nil {
		return false, err
	}
	switch choice {
	case choiceCustomer:
		return false, m.selectCustomerType(ctx)
	case choiceAdd:
		return false, m.addItem(ctx)
	case choiceRemove:
		return false, m.removeItem(ctx)
	case choiceView:
		m.viewCart()
		return false, nil
	case choiceCheckout:
		return false, m.checkout(ctx)
	case choiceCancel:
		m.session.Cancel(ctx)
		fmt.Fprintln(m.out, "Transaction canceled. Cart cleared.")
		return false, nil
	case choiceExit:
		return true, nil
	}
	return false, nil
}

func (m *Menu) selectCustomerType(ctx context.Context) error {
	answer, err := m.prompt(ctx, "Are you a rewards member? (Y/N): ")
	if err != nil {
		return err
	}
	m.session.SetRewardsMember(strings.EqualFold(answer, "y"))
	fmt.Fprintln(m.out, m.session.Customer())
	return nil
}

func (m *Menu) addItem(ctx context.Context) error {
	item, err := m.prompt(ctx, "Enter the item: ")
	if err != nil {
		return err
	}
	qtyText, err := m.prompt(ctx, "Enter the quantity: ")
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(qtyText)
	if err != nil || qty <= 0 {
		return &InvalidInputError{Input: qtyText}
	}
	if err := m.session.AddItem(ctx, item, qty); err != nil {
		return err
	}
	fmt.Fprintf(m.out, "%d %s(s) added to the cart.\n", qty, item)
	return nil
}

func (m *Menu) removeItem(ctx context.Context) error {
	item, err := m.prompt(ctx, "Enter the name of the item to remove (All for empty cart): ")
	if err != nil {
		return err
	}
	if strings.EqualFold(item, removeAll) {
		m.session.RemoveAll(ctx)
		fmt.Fprintln(m.out, "Cart emptied.")
		return nil
	}
	if err := m.session.RemoveItem(ctx, item); err != nil {
		return err
	}
	fmt.Fprintf(m.out, "%s removed from the cart.\n", item)
	return nil
}

func (m *Menu) viewCart() {
	fmt.Fprintln(m.out, "--- Cart ---")
	for _, l := range m.session.Lines() {
		fmt.Fprintf(m.out, "%s: %d\n", l.Item, l.Quantity)
	}
}

func (m *Menu) checkout(ctx context.Context) error {
	res, err := m.session.Checkout(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Checkout successful!")
	fmt.Fprintf(m.out, "Total amount: $%s, Taxes: $%s\n",
		receipt.Money(res.Summary.Total), receipt.Money(res.Summary.Taxes))
	return nil
}

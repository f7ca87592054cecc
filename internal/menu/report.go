package menu

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/quickmart/internal/domain/inventory"
	"github.com/xenking/quickmart/internal/session"
)

// report prints a recoverable error for the user and records it in the
// error log. The menu then prompts again.
func (m *Menu) report(ctx context.Context, choice string, err error) {
	lg := zctx.From(ctx).With(
		zap.String("session_id", m.session.ID()),
		zap.String("choice", choice),
	)

	msg, recoverable := describe(err)
	if !recoverable {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		lg.Error("Operation failed", zap.Error(err))
		return
	}

	var inv *InvalidInputError
	if errors.As(err, &inv) {
		fmt.Fprintf(m.out, "%s, please try again!!\n", msg)
	} else {
		fmt.Fprintln(m.out, msg)
	}
	lg.Warn(msg)
}

// describe renders the user-facing message for the recoverable error kinds.
func describe(err error) (string, bool) {
	var (
		inv *InvalidInputError
		iq  *session.InvalidQuantityError
	)
	switch {
	case errors.As(err, &inv):
		return fmt.Sprintf("Invalid input: %s", inv.Input), true
	case errors.As(err, &iq):
		return fmt.Sprintf("Invalid input: %d", iq.Quantity), true
	case errors.Is(err, inventory.ErrItemNotFound):
		return fmt.Sprintf("Item not found error: %v", err), true
	case errors.Is(err, inventory.ErrInsufficientQuantity):
		return fmt.Sprintf("Insufficient Quantity Error: %v", err), true
	default:
		return "", false
	}
}

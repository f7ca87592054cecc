package menu

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xenking/quickmart/internal/receipt"
	"github.com/xenking/quickmart/internal/session"
	"github.com/xenking/quickmart/internal/storage/flatfile"
)

const inventoryFixture = "Milk: 5, $3.75, $3.50, Tax-Exempt\n" +
	"Red Bull: 30, $4.30, $4.00, Taxable\n"

type env struct {
	inventoryPath string
	receiptPath   string
	logs          *observer.ObservedLogs
	ctx           context.Context
	session       *session.Session
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{
		inventoryPath: filepath.Join(dir, "inventory.txt"),
		receiptPath:   filepath.Join(dir, "receipt.txt"),
	}
	require.NoError(t, os.WriteFile(e.inventoryPath, []byte(inventoryFixture), 0o600))

	core, logs := observer.New(zapcore.DebugLevel)
	e.logs = logs
	e.ctx = zctx.Base(context.Background(), zap.New(core))

	s, err := session.Open(e.ctx,
		flatfile.NewInventoryRepository(e.inventoryPath),
		receipt.NewWriter(e.receiptPath),
		session.Options{},
	)
	require.NoError(t, err)
	e.session = s
	return e
}

func (e *env) run(t *testing.T, input ...string) string {
	t.Helper()
	var out bytes.Buffer
	m := New(strings.NewReader(strings.Join(input, "\n")+"\n"), &out, e.session)
	require.NoError(t, m.Run(e.ctx))
	return out.String()
}

func TestValidate(t *testing.T) {
	for _, o := range Options {
		require.NoError(t, Validate(o.Key))
	}

	err := Validate("9")
	require.ErrorIs(t, err, ErrInvalidInput)
	var inv *InvalidInputError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "9", inv.Input)
}

func TestMenu_DisplayAndExit(t *testing.T) {
	e := newEnv(t)

	out := e.run(t, "7")

	assert.Contains(t, out, "===== Jerrys Quick Mart =====\n")
	assert.Contains(t, out, "1. Select customer type\n")
	assert.Contains(t, out, "5. Checkout and print receipt\n")
	assert.Contains(t, out, "7. Exit\n")
	assert.Contains(t, out, "Exiting...\n")
}

func TestMenu_EndOfInputStops(t *testing.T) {
	e := newEnv(t)

	var out bytes.Buffer
	m := New(strings.NewReader(""), &out, e.session)
	require.NoError(t, m.Run(e.ctx))
}

func TestMenu_ContextCanceledStops(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(e.ctx)
	cancel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = w.Close()
		_ = r.Close()
	})

	var out bytes.Buffer
	require.NoError(t, New(r, &out, e.session).Run(ctx))
}

func TestReadLines_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := readLines(ctx, strings.NewReader("7\n2\nMilk\n1\n"))

	assert.Equal(t, "7", <-lines)
	cancel()

	require.Eventually(t, func() bool {
		_, ok := <-lines
		return !ok
	}, time.Second, 10*time.Millisecond, "reader exits with input still pending")
}

func TestMenu_InvalidChoice(t *testing.T) {
	e := newEnv(t)

	out := e.run(t, "42", "7")

	assert.Contains(t, out, "Invalid input: 42, please try again!!\n")
	warnings := e.logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "Invalid input: 42", warnings[0].Message)
}

func TestMenu_AddViewRemove(t *testing.T) {
	e := newEnv(t)

	out := e.run(t,
		"2", "Milk", "2",
		"2", "Red Bull", "1",
		"4",
		"3", "Milk",
		"4",
		"7",
	)

	assert.Contains(t, out, "2 Milk(s) added to the cart.\n")
	assert.Contains(t, out, "1 Red Bull(s) added to the cart.\n")
	assert.Contains(t, out, "--- Cart ---\nMilk: 2\nRed Bull: 1\n")
	assert.Contains(t, out, "Milk removed from the cart.\n")
	assert.Contains(t, out, "--- Cart ---\nRed Bull: 1\n")
}

func TestMenu_RemoveAll(t *testing.T) {
	e := newEnv(t)

	e.run(t,
		"2", "Milk", "1",
		"2", "Red Bull", "1",
		"3", "ALL",
		"7",
	)

	assert.Empty(t, e.session.Lines())
}

func TestMenu_RecoverableErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  string
	}{
		{
			name:  "unknown item",
			input: []string{"2", "Water", "1"},
			want:  "Item not found error: Water not found in the inventory\n",
		},
		{
			name:  "too many units",
			input: []string{"2", "Milk", "10"},
			want:  "Insufficient Quantity Error: insufficient quantity available for Milk: requested 10, have 5\n",
		},
		{
			name:  "non-numeric quantity",
			input: []string{"2", "Milk", "two"},
			want:  "Invalid input: two, please try again!!\n",
		},
		{
			name:  "zero quantity",
			input: []string{"2", "Milk", "0"},
			want:  "Invalid input: 0, please try again!!\n",
		},
		{
			name:  "remove item not in cart",
			input: []string{"3", "Milk"},
			want:  "Item not found error: Milk not found in the cart\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)

			out := e.run(t, append(tt.input, "7")...)

			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "Exiting...\n", "menu keeps running after the error")
			assert.Equal(t, 1, e.logs.FilterLevelExact(zapcore.WarnLevel).Len())
		})
	}
}

func TestMenu_SelectCustomerType(t *testing.T) {
	e := newEnv(t)

	out := e.run(t, "1", "y", "7")
	assert.Contains(t, out, "Client is a rewards member\n")
	assert.True(t, e.session.Customer().RewardsMember())

	out = e.run(t, "1", "nope", "7")
	assert.Contains(t, out, "Client is not a rewards member\n")
	assert.False(t, e.session.Customer().RewardsMember())
}

func TestMenu_Checkout(t *testing.T) {
	e := newEnv(t)

	out := e.run(t,
		"2", "Milk", "2",
		"2", "Red Bull", "3",
		"5",
		"4",
		"7",
	)

	assert.Contains(t, out, "Checkout successful!\n")
	assert.Contains(t, out, "Total amount: $21.24, Taxes: $0.84\n")
	assert.Contains(t, out, "--- Cart ---\n"+title+"\n", "cart is empty after checkout")

	inv, err := os.ReadFile(e.inventoryPath)
	require.NoError(t, err)
	assert.Equal(t,
		"Milk: 3, $3.75, $3.50, Tax-Exempt\nRed Bull: 27, $4.30, $4.00, Taxable\n",
		string(inv))

	rcpt, err := os.ReadFile(e.receiptPath)
	require.NoError(t, err)
	assert.Contains(t, string(rcpt), "Transaction No. 000001\n")
	assert.Contains(t, string(rcpt), "Items sold: 2\nTaxes: $0.84\nTotal: $21.24\n")
}

func TestMenu_Cancel(t *testing.T) {
	e := newEnv(t)

	out := e.run(t, "2", "Milk", "2", "6", "7")

	assert.Contains(t, out, "Transaction canceled. Cart cleared.\n")
	assert.Empty(t, e.session.Lines())

	inv, err := os.ReadFile(e.inventoryPath)
	require.NoError(t, err)
	assert.Equal(t, inventoryFixture, string(inv), "cancel does not persist the inventory")
}

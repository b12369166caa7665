// Package testutil provides common test utilities for the POS backend.
// It contains fixtures for bills and receipts, HTTP helpers for driving a
// gin engine, and polling assertions for asynchronous work.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	billingapp "github.com/techverse-private-limited/stock-blueprints-54/internal/application/billing"
	infra "github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/printing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestUUID generates a deterministic UUID for testing.
// The same seed always gives the same UUID.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestCashierID returns a standard cashier ID for tests.
func TestCashierID() uuid.UUID {
	return NewTestUUID("test-cashier")
}

// TestShop returns the receipt header used across tests.
func TestShop() infra.ShopInfo {
	return infra.ShopInfo{
		Name:         "TASTY BITE",
		AddressLines: []string{"MARAIKAR PALLIVASAL 2nd STREET", "TENKASI"},
		Phones:       []string{"7358921445"},
		CompanyName:  "Techverse infotech Private Limited",
	}
}

// Line is a compact cart line for building bill requests.
type Line struct {
	Name      string
	Quantity  int
	UnitPrice int64
}

// BillRequest builds a create-bill request whose totals add up. The items
// get deterministic food item IDs derived from their names.
func BillRequest(billNumber, customer string, lines ...Line) billingapp.CreateBillRequest {
	req := billingapp.CreateBillRequest{
		BillNumber:   billNumber,
		CustomerName: customer,
		Items:        make([]billingapp.CreateBillItemReq, len(lines)),
	}
	subtotal := decimal.Zero
	for i, l := range lines {
		unit := decimal.NewFromInt(l.UnitPrice)
		total := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
		req.Items[i] = billingapp.CreateBillItemReq{
			FoodItemID:   NewTestUUID("food:" + l.Name),
			FoodItemName: l.Name,
			Quantity:     l.Quantity,
			UnitPrice:    unit,
			TotalPrice:   total,
		}
		subtotal = subtotal.Add(total)
	}
	req.Subtotal = subtotal
	req.TaxAmount = decimal.Zero
	req.TotalAmount = subtotal
	return req
}

// DefaultBillRequest is a two-line bill totalling 375 rupees.
func DefaultBillRequest(billNumber string) billingapp.CreateBillRequest {
	return BillRequest(billNumber, "Anbu",
		Line{Name: "Chicken Biryani", Quantity: 2, UnitPrice: 180},
		Line{Name: "Tea", Quantity: 1, UnitPrice: 15},
	)
}

// ContextWithTimeout creates a context that is cancelled when the test ends.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually polls condition until it holds or fails the test.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}

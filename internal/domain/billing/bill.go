package billing

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
)

// MaxCustomerNameLength limits the stored customer name
const MaxCustomerNameLength = 200

// Bill is a finalised sale at the counter
type Bill struct {
	shared.BaseAggregateRoot
	BillNumber    string
	CustomerName  string
	CustomerPhone string
	CreatedBy     *uuid.UUID // Cashier who rang up the bill
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Items         []BillItem
}

// NewBill creates a new bill header. Totals are kept as supplied.
func NewBill(
	billNumber string,
	customerName string,
	customerPhone string,
	createdBy *uuid.UUID,
	subtotal, taxAmount, totalAmount decimal.Decimal,
) (*Bill, error) {
	billNumber = strings.TrimSpace(billNumber)
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot be empty")
	}
	if len(billNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot exceed 50 characters")
	}
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if utf8.RuneCountInString(customerName) > MaxCustomerNameLength {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot exceed 200 characters")
	}
	if subtotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Subtotal cannot be negative")
	}
	if taxAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Tax amount cannot be negative")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}

	bill := &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillNumber:        billNumber,
		CustomerName:      customerName,
		CustomerPhone:     strings.TrimSpace(customerPhone),
		CreatedBy:         createdBy,
		Subtotal:          subtotal,
		TaxAmount:         taxAmount,
		TotalAmount:       totalAmount,
		Items:             make([]BillItem, 0),
	}

	bill.AddDomainEvent(NewBillCreatedEvent(bill))

	return bill, nil
}

// AddItem appends a validated line item
func (b *Bill) AddItem(foodItemID uuid.UUID, foodItemName string, quantity int, unitPrice, totalPrice decimal.Decimal) (*BillItem, error) {
	item, err := NewBillItem(b.ID, foodItemID, foodItemName, quantity, unitPrice, totalPrice)
	if err != nil {
		return nil, err
	}
	item.LineNo = len(b.Items) + 1

	b.Items = append(b.Items, *item)
	b.UpdatedAt = time.Now()

	// keep the pending creation event in step with the lines
	for _, event := range b.GetDomainEvents() {
		if created, ok := event.(*BillCreatedEvent); ok {
			created.ItemCount = len(b.Items)
		}
	}

	return item, nil
}

// ItemCount returns the number of lines on the bill
func (b *Bill) ItemCount() int {
	return len(b.Items)
}

// CalculatedSubtotal sums the line totals. It may differ from Subtotal,
// which is recorded exactly as the till sent it.
func (b *Bill) CalculatedSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range b.Items {
		sum = sum.Add(item.TotalPrice)
	}
	return sum
}

// SubtotalMatches reports whether the recorded subtotal equals the line sum
func (b *Bill) SubtotalMatches() bool {
	return b.CalculatedSubtotal().Equal(b.Subtotal)
}

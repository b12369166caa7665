package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
)

// BillItem is one line of a bill. Name and price are snapshots taken at sale time.
type BillItem struct {
	ID           uuid.UUID
	BillID       uuid.UUID
	LineNo       int
	FoodItemID   uuid.UUID
	FoodItemName string
	Quantity     int
	UnitPrice    decimal.Decimal
	TotalPrice   decimal.Decimal
	CreatedAt    time.Time
}

// NewBillItem creates a new bill line
func NewBillItem(billID, foodItemID uuid.UUID, foodItemName string, quantity int, unitPrice, totalPrice decimal.Decimal) (*BillItem, error) {
	if foodItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FOOD_ITEM", "Food item ID cannot be empty")
	}
	foodItemName = strings.TrimSpace(foodItemName)
	if foodItemName == "" {
		return nil, shared.NewDomainError("INVALID_FOOD_ITEM_NAME", "Food item name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if totalPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Total price cannot be negative")
	}

	return &BillItem{
		ID:           uuid.New(),
		BillID:       billID,
		FoodItemID:   foodItemID,
		FoodItemName: foodItemName,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		TotalPrice:   totalPrice,
		CreatedAt:    time.Now(),
	}, nil
}

// ExpectedTotal returns quantity * unit price
func (i *BillItem) ExpectedTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

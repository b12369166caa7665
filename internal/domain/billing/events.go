package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
)

// AggregateTypeBill names the bill aggregate in event envelopes
const AggregateTypeBill = "Bill"

// EventTypeBillCreated is raised when a bill has been recorded
const EventTypeBillCreated = "BillCreated"

// BillCreatedEvent is published once the header and its items are stored
type BillCreatedEvent struct {
	shared.BaseDomainEvent
	BillID       uuid.UUID       `json:"bill_id"`
	BillNumber   string          `json:"bill_number"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ItemCount    int             `json:"item_count"`
	CreatedBy    *uuid.UUID      `json:"created_by,omitempty"`
}

// NewBillCreatedEvent creates a new BillCreatedEvent
func NewBillCreatedEvent(bill *Bill) *BillCreatedEvent {
	return &BillCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillCreated, AggregateTypeBill, bill.ID),
		BillID:          bill.ID,
		BillNumber:      bill.BillNumber,
		CustomerName:    bill.CustomerName,
		TotalAmount:     bill.TotalAmount,
		ItemCount:       len(bill.Items),
		CreatedBy:       bill.CreatedBy,
	}
}

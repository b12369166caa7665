package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
)

// BillModel is the GORM model for the bills table
type BillModel struct {
	AggregateModel
	BillNumber    string          `gorm:"column:bill_number;type:varchar(50);not null;index"`
	CustomerName  string          `gorm:"column:customer_name;type:varchar(200);not null"`
	CustomerPhone string          `gorm:"column:customer_phone;type:varchar(20)"`
	CreatedBy     *uuid.UUID      `gorm:"column:created_by;type:uuid;index"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount     decimal.Decimal `gorm:"column:tax_amount;type:decimal(18,2);not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null;default:0"`
	Items         []BillItemModel `gorm:"foreignKey:BillID;references:ID"`
}

// TableName returns the table name for BillModel
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the model to a domain Bill, including any loaded items
func (m *BillModel) ToDomain() *billing.Bill {
	bill := &billing.Bill{
		BaseAggregateRoot: m.ToAggregateRoot(),
		BillNumber:        m.BillNumber,
		CustomerName:      m.CustomerName,
		CustomerPhone:     m.CustomerPhone,
		CreatedBy:         m.CreatedBy,
		Subtotal:          m.Subtotal,
		TaxAmount:         m.TaxAmount,
		TotalAmount:       m.TotalAmount,
		Items:             make([]billing.BillItem, len(m.Items)),
	}
	for i := range m.Items {
		bill.Items[i] = m.Items[i].ToDomain()
	}
	return bill
}

// BillModelFromDomain maps the bill header. Items are persisted separately.
func BillModelFromDomain(b *billing.Bill) *BillModel {
	m := &BillModel{
		BillNumber:    b.BillNumber,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		CreatedBy:     b.CreatedBy,
		Subtotal:      b.Subtotal,
		TaxAmount:     b.TaxAmount,
		TotalAmount:   b.TotalAmount,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

// BillItemModel is the GORM model for the bill_items table
type BillItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	BillID       uuid.UUID       `gorm:"column:bill_id;type:uuid;not null;index"`
	LineNo       int             `gorm:"column:line_no;not null;default:0"`
	FoodItemID   uuid.UUID       `gorm:"column:food_item_id;type:uuid;not null"`
	FoodItemName string          `gorm:"column:food_item_name;type:varchar(200);not null"`
	Quantity     int             `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:decimal(18,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:decimal(18,2);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for BillItemModel
func (BillItemModel) TableName() string {
	return "bill_items"
}

// ToDomain converts the model to a domain BillItem
func (m *BillItemModel) ToDomain() billing.BillItem {
	return billing.BillItem{
		ID:           m.ID,
		BillID:       m.BillID,
		LineNo:       m.LineNo,
		FoodItemID:   m.FoodItemID,
		FoodItemName: m.FoodItemName,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		TotalPrice:   m.TotalPrice,
		CreatedAt:    m.CreatedAt,
	}
}

// BillItemModelFromDomain creates a row for the given bill.
// index is the item's position in the bill and numbers the line when the item has none.
func BillItemModelFromDomain(billID uuid.UUID, index int, item billing.BillItem) *BillItemModel {
	lineNo := item.LineNo
	if lineNo <= 0 {
		lineNo = index + 1
	}
	id := item.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &BillItemModel{
		ID:           id,
		BillID:       billID,
		LineNo:       lineNo,
		FoodItemID:   item.FoodItemID,
		FoodItemName: item.FoodItemName,
		Quantity:     item.Quantity,
		UnitPrice:    item.UnitPrice,
		TotalPrice:   item.TotalPrice,
		CreatedAt:    createdAt,
	}
}

package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
)

// =============================================================================
// Bill DTOs
// =============================================================================

// CreateBillRequest is what the till sends when a sale is finalised
type CreateBillRequest struct {
	BillNumber    string              `json:"bill_number" binding:"omitempty,max=50"`
	CustomerName  string              `json:"customer_name" binding:"required,max=200"`
	CustomerPhone string              `json:"customer_phone" binding:"omitempty,max=20"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	TaxAmount     decimal.Decimal     `json:"tax_amount"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Items         []CreateBillItemReq `json:"items" binding:"required,min=1,dive"`

	// CreatedBy is taken from the authenticated cashier, never from the body
	CreatedBy *uuid.UUID `json:"-"`
}

// CreateBillItemReq is one cart line of a new bill
type CreateBillItemReq struct {
	FoodItemID   uuid.UUID       `json:"food_item_id" binding:"required"`
	FoodItemName string          `json:"food_item_name" binding:"required,max=200"`
	Quantity     int             `json:"quantity" binding:"required,min=1"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// ListBillsRequest represents a request to list bills
type ListBillsRequest struct {
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string     `form:"search"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

// BillResponse represents a stored bill
type BillResponse struct {
	ID            string             `json:"id"`
	BillNumber    string             `json:"bill_number"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	CreatedBy     string             `json:"created_by,omitempty"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxAmount     decimal.Decimal    `json:"tax_amount"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	ItemCount     int                `json:"item_count"`
	Items         []BillItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// BillItemResponse represents one line of a stored bill
type BillItemResponse struct {
	ID           string          `json:"id"`
	FoodItemID   string          `json:"food_item_id"`
	FoodItemName string          `json:"food_item_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// ListBillsResponse represents a paginated list of bills
type ListBillsResponse struct {
	Items []BillResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// BillNumberResponse carries a suggested bill number
type BillNumberResponse struct {
	BillNumber string `json:"bill_number"`
}

func toBillResponse(b *billing.Bill) *BillResponse {
	resp := &BillResponse{
		ID:            b.ID.String(),
		BillNumber:    b.BillNumber,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		Subtotal:      b.Subtotal,
		TaxAmount:     b.TaxAmount,
		TotalAmount:   b.TotalAmount,
		ItemCount:     b.ItemCount(),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.CreatedBy != nil {
		resp.CreatedBy = b.CreatedBy.String()
	}
	if len(b.Items) > 0 {
		resp.Items = make([]BillItemResponse, len(b.Items))
		for i, item := range b.Items {
			resp.Items[i] = BillItemResponse{
				ID:           item.ID.String(),
				FoodItemID:   item.FoodItemID.String(),
				FoodItemName: item.FoodItemName,
				Quantity:     item.Quantity,
				UnitPrice:    item.UnitPrice,
				TotalPrice:   item.TotalPrice,
			}
		}
	}
	return resp
}

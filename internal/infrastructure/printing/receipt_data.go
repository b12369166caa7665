package printing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
)

// ItemNameDisplayLength is how many runes of an item name fit the receipt's product column
const ItemNameDisplayLength = 16

// ShopInfo is the header printed at the top of every receipt
type ShopInfo struct {
	Name         string   `json:"name"`
	AddressLines []string `json:"address_lines"`
	Phones       []string `json:"phones"`
	CompanyName  string   `json:"company_name"`
	GSTIN        string   `json:"gstin"`
}

// ReceiptLine is one caller-supplied line of a receipt
type ReceiptLine struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Total    decimal.Decimal
}

// ReceiptInput is the bill data a receipt is formatted from
type ReceiptInput struct {
	BillID        uuid.UUID
	InvoiceNumber string
	Date          string
	CustomerName  string
	CustomerPhone string
	Items         []ReceiptLine
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
}

// ReceiptItem is a receipt line as the template sees it
type ReceiptItem struct {
	Index       int
	Name        string
	DisplayName string
	Quantity    int
	Price       decimal.Decimal
	Total       decimal.Decimal
}

// ReceiptData is the fully populated payload handed to a receipt template
type ReceiptData struct {
	Shop          ShopInfo
	BillID        uuid.UUID
	InvoiceNumber string
	Date          string
	CustomerName  string
	CustomerPhone string
	Items         []ReceiptItem
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	AmountInWords string

	// Summary rows. GST, sale and savings are printed as zero.
	TotalGST     decimal.Decimal
	TotalSale    decimal.Decimal
	TotalSavings decimal.Decimal
	NetPayable   decimal.Decimal

	PaperSize printing.PaperSize
	AutoPrint bool
}

// ReceiptOptions selects how a receipt is laid out
type ReceiptOptions struct {
	PaperSize printing.PaperSize
	AutoPrint bool
}

// DataProvider builds receipt data for one document type
type DataProvider interface {
	// GetDocType returns the document type this provider handles
	GetDocType() printing.DocType
	// GetData loads the document and formats it for the template
	GetData(ctx context.Context, documentID uuid.UUID, opts ReceiptOptions) (*ReceiptData, error)
}

// BuildReceiptData formats input for printing. It fails with INVALID_AMOUNT
// when the total cannot be spelled out.
func BuildReceiptData(shop ShopInfo, in ReceiptInput, opts ReceiptOptions) (*ReceiptData, error) {
	words, err := printing.AmountInWords(in.TotalAmount)
	if err != nil {
		return nil, err
	}

	paperSize := opts.PaperSize
	if paperSize == "" {
		paperSize = printing.DefaultPaperSize
	}

	items := make([]ReceiptItem, len(in.Items))
	for i, line := range in.Items {
		items[i] = ReceiptItem{
			Index:       i + 1,
			Name:        line.Name,
			DisplayName: truncate(ItemNameDisplayLength, line.Name),
			Quantity:    line.Quantity,
			Price:       line.Price,
			Total:       line.Total,
		}
	}

	return &ReceiptData{
		Shop:          shop,
		BillID:        in.BillID,
		InvoiceNumber: in.InvoiceNumber,
		Date:          in.Date,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Items:         items,
		Subtotal:      in.Subtotal,
		TaxAmount:     in.TaxAmount,
		TotalAmount:   in.TotalAmount,
		AmountInWords: words,
		TotalGST:      decimal.Zero,
		TotalSale:     decimal.Zero,
		TotalSavings:  decimal.Zero,
		NetPayable:    in.TotalAmount,
		PaperSize:     paperSize,
		AutoPrint:     opts.AutoPrint,
	}, nil
}

// ReceiptInputFromBill maps a stored bill. The date is rendered in loc (local time when nil).
func ReceiptInputFromBill(bill *billing.Bill, loc *time.Location) ReceiptInput {
	if loc == nil {
		loc = time.Local
	}

	lines := make([]ReceiptLine, len(bill.Items))
	for i, item := range bill.Items {
		lines[i] = ReceiptLine{
			Name:     item.FoodItemName,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
			Total:    item.TotalPrice,
		}
	}

	return ReceiptInput{
		BillID:        bill.ID,
		InvoiceNumber: bill.BillNumber,
		Date:          formatDate(bill.CreatedAt.In(loc)),
		CustomerName:  bill.CustomerName,
		CustomerPhone: bill.CustomerPhone,
		Items:         lines,
		Subtotal:      bill.Subtotal,
		TaxAmount:     bill.TaxAmount,
		TotalAmount:   bill.TotalAmount,
	}
}

package printing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
)

// =============================================================================
// Receipt DTOs
// =============================================================================

// PreviewReceiptRequest selects the layout of a stored bill's receipt
type PreviewReceiptRequest struct {
	PaperSize string `form:"paper"`
	AutoPrint bool   `form:"autoprint"`
}

// RenderReceiptRequest carries a complete bill that is not stored locally
type RenderReceiptRequest struct {
	InvoiceNumber string               `json:"invoice_number" binding:"required,max=50"`
	Date          string               `json:"date" binding:"omitempty,max=40"`
	CustomerName  string               `json:"customer_name" binding:"required,max=200"`
	CustomerPhone string               `json:"customer_phone" binding:"omitempty,max=20"`
	Items         []ReceiptLineRequest `json:"items" binding:"required,min=1,dive"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	TaxAmount     decimal.Decimal      `json:"tax_amount"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	PaperSize     string               `json:"paper_size"`
	AutoPrint     bool                 `json:"auto_print"`
}

// ReceiptLineRequest is one line of a caller-supplied receipt
type ReceiptLineRequest struct {
	Name     string          `json:"name" binding:"required,max=200"`
	Quantity int             `json:"quantity" binding:"required,min=1"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// ReceiptResponse is a rendered receipt document
type ReceiptResponse struct {
	HTML          string `json:"html"`
	InvoiceNumber string `json:"invoice_number"`
	PaperSize     string `json:"paper_size"`
	AmountInWords string `json:"amount_in_words"`
}

// GeneratePDFRequest represents a request to print a bill receipt to PDF
type GeneratePDFRequest struct {
	PaperSize string `json:"paper_size"`
	Copies    *int   `json:"copies" binding:"omitempty,min=1,max=100"`
}

// AmountInWordsResponse spells out the integral part of an amount
type AmountInWordsResponse struct {
	Amount string `json:"amount"`
	Words  string `json:"words"`
}

// =============================================================================
// Print Job DTOs
// =============================================================================

// PrintJobResponse represents a print job response
type PrintJobResponse struct {
	ID           string     `json:"id"`
	DocumentType string     `json:"document_type"`
	BillID       string     `json:"bill_id"`
	BillNumber   string     `json:"bill_number"`
	PaperSize    string     `json:"paper_size"`
	Status       string     `json:"status"`
	Copies       int        `json:"copies"`
	PdfURL       string     `json:"pdf_url,omitempty"`
	FileSize     int64      `json:"file_size,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	PrintedAt    *time.Time `json:"printed_at,omitempty"`
	PrintedBy    string     `json:"printed_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// =============================================================================
// Reference Data DTOs
// =============================================================================

// PaperSizeResponse represents a paper size in millimetres
type PaperSizeResponse struct {
	Code      string `json:"code"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	IsReceipt bool   `json:"is_receipt"`
	IsDefault bool   `json:"is_default"`
}

func toJobResponse(j *printing.PrintJob) *PrintJobResponse {
	resp := &PrintJobResponse{
		ID:           j.ID.String(),
		DocumentType: string(j.DocumentType),
		BillID:       j.BillID.String(),
		BillNumber:   j.BillNumber,
		PaperSize:    string(j.PaperSize),
		Status:       string(j.Status),
		Copies:       j.Copies,
		PdfURL:       j.PdfURL,
		FileSize:     j.FileSize,
		ErrorMessage: j.ErrorMessage,
		PrintedAt:    j.PrintedAt,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	if j.PrintedBy != nil {
		resp.PrintedBy = j.PrintedBy.String()
	}
	return resp
}

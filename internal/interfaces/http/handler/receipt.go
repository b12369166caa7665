package handler

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	printingapp "github.com/techverse-private-limited/stock-blueprints-54/internal/application/printing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/logger"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// ReceiptFileReader opens stored receipt PDFs by their storage path
type ReceiptFileReader interface {
	Get(ctx context.Context, path string) (io.ReadCloser, error)
}

var (
	yearPattern     = regexp.MustCompile(`^\d{4}$`)
	monthPattern    = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	filenamePattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.pdf$`)
)

const (
	formatHTML = "html"
	formatJSON = "json"
)

// ReceiptHandler handles receipt rendering and print job endpoints
type ReceiptHandler struct {
	BaseHandler
	receiptService *printingapp.ReceiptService
	files          ReceiptFileReader
}

// NewReceiptHandler creates a new ReceiptHandler. files may be nil when
// receipts are served by the storage backend itself.
func NewReceiptHandler(receiptService *printingapp.ReceiptService, files ReceiptFileReader) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		files:          files,
	}
}

// =============================================================================
// Receipt Rendering
// =============================================================================

// Preview renders the receipt of a stored bill as a printable page.
//
// GET /api/v1/bills/:id/receipt?paper=RECEIPT_80MM&autoprint=true&format=html
func (h *ReceiptHandler) Preview(c *gin.Context) {
	billID, ok := h.parseUUIDParam(c, "id", "bill")
	if !ok {
		return
	}

	var req printingapp.PreviewReceiptRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.receiptService.PreviewReceipt(c.Request.Context(), billID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.writeReceipt(c, resp, formatHTML)
}

// Render renders a receipt for a bill supplied in the body. JSON is returned
// unless format=html is asked for.
//
// POST /api/v1/receipts/render
func (h *ReceiptHandler) Render(c *gin.Context) {
	var req printingapp.RenderReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.receiptService.RenderReceipt(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.writeReceipt(c, resp, formatJSON)
}

func (h *ReceiptHandler) writeReceipt(c *gin.Context, resp *printingapp.ReceiptResponse, defaultFormat string) {
	format := strings.ToLower(c.DefaultQuery("format", defaultFormat))
	if format != formatHTML {
		h.Success(c, resp)
		return
	}

	// the receipt carries its own inline styles and print script
	c.Header("Content-Security-Policy", middleware.ReceiptCSPDirective)
	c.Header("X-Invoice-Number", resp.InvoiceNumber)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(resp.HTML))
}

// AmountInWords spells out the rupees of an amount the way the receipt prints it.
//
// GET /api/v1/receipts/words?amount=375.50
func (h *ReceiptHandler) AmountInWords(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("amount"))
	if raw == "" {
		h.BadRequest(c, "amount is required")
		return
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		h.BadRequest(c, "amount must be a decimal number")
		return
	}

	resp, err := h.receiptService.AmountInWords(amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PaperSizes lists the supported paper sizes.
//
// GET /api/v1/receipts/paper-sizes
func (h *ReceiptHandler) PaperSizes(c *gin.Context) {
	h.Success(c, h.receiptService.PaperSizes())
}

// =============================================================================
// Print Jobs
// =============================================================================

// GeneratePDF renders the receipt of a stored bill to a PDF print job.
//
// POST /api/v1/bills/:id/receipt/pdf
func (h *ReceiptHandler) GeneratePDF(c *gin.Context) {
	billID, ok := h.parseUUIDParam(c, "id", "bill")
	if !ok {
		return
	}

	var req printingapp.GeneratePDFRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	job, err := h.receiptService.GenerateReceiptPDF(c.Request.Context(), billID, getCashierID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, job)
}

// ListJobs returns the print jobs of a bill, newest first.
//
// GET /api/v1/bills/:id/print-jobs
func (h *ReceiptHandler) ListJobs(c *gin.Context) {
	billID, ok := h.parseUUIDParam(c, "id", "bill")
	if !ok {
		return
	}

	jobs, err := h.receiptService.ListJobsForBill(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, jobs)
}

// GetJob returns a single print job.
//
// GET /api/v1/print-jobs/:id
func (h *ReceiptHandler) GetJob(c *gin.Context) {
	jobID, ok := h.parseUUIDParam(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.receiptService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// DownloadJob streams the PDF of a completed print job.
//
// GET /api/v1/print-jobs/:id/file
func (h *ReceiptHandler) DownloadJob(c *gin.Context) {
	jobID, ok := h.parseUUIDParam(c, "id", "job")
	if !ok {
		return
	}

	file, job, err := h.receiptService.OpenJobFile(c.Request.Context(), jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", `attachment; filename="receipt-`+safeFilename(job.BillNumber)+`.pdf"`)
	h.streamPDF(c, file, job.FileSize)
}

// ServePDF serves a stored receipt by its public path.
//
// GET /files/receipts/:year/:month/:filename
func (h *ReceiptHandler) ServePDF(c *gin.Context) {
	if h.files == nil {
		h.NotFound(c, "PDF file not found")
		return
	}

	year := c.Param("year")
	month := c.Param("month")
	filename := c.Param("filename")

	if !yearPattern.MatchString(year) {
		h.BadRequest(c, "Invalid year format")
		return
	}
	if !monthPattern.MatchString(month) {
		h.BadRequest(c, "Invalid month format")
		return
	}
	// file names are job ids, which also rules out traversal
	if !filenamePattern.MatchString(filename) {
		h.BadRequest(c, "Invalid filename format")
		return
	}

	file, err := h.files.Get(c.Request.Context(), "receipts/"+year+"/"+month+"/"+filename)
	if err != nil {
		h.NotFound(c, "PDF file not found")
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	h.streamPDF(c, file, -1)
}

func (h *ReceiptHandler) streamPDF(c *gin.Context, file io.Reader, size int64) {
	c.Header("Cache-Control", "private, max-age=3600")
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, "application/pdf", file, nil)
	if len(c.Errors) > 0 {
		logger.GetGinLogger(c).Warn("failed to stream PDF", zap.String("errors", c.Errors.String()))
	}
}

// safeFilename keeps letters, digits, dash and underscore
func safeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "bill"
	}
	return b.String()
}

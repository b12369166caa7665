package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
	infra "github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/printing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ReceiptDataLoader loads receipt data for a stored document
type ReceiptDataLoader interface {
	LoadData(ctx context.Context, docType printing.DocType, documentID uuid.UUID, opts infra.ReceiptOptions) (*infra.ReceiptData, error)
}

// ReceiptServiceConfig wires the collaborators of a ReceiptService
type ReceiptServiceConfig struct {
	Loader         ReceiptDataLoader
	Templates      *infra.TemplateStore
	Engine         *infra.TemplateEngine
	Renderer       infra.PDFRenderer
	Storage        infra.PDFStorage
	JobRepo        printing.PrintJobRepository
	EventPublisher shared.EventPublisher
	Metrics        *telemetry.POSMetrics
	Shop           infra.ShopInfo
	// DefaultPaperSize applies when a request names none
	DefaultPaperSize printing.PaperSize
	// Location is the time zone caller-supplied receipts are dated in
	Location *time.Location
	Logger   *zap.Logger
}

// ReceiptService handles receipt rendering and print jobs
type ReceiptService struct {
	loader         ReceiptDataLoader
	templates      *infra.TemplateStore
	engine         *infra.TemplateEngine
	renderer       infra.PDFRenderer
	storage        infra.PDFStorage
	jobRepo        printing.PrintJobRepository
	eventPublisher shared.EventPublisher
	metrics        *telemetry.POSMetrics
	shop           infra.ShopInfo
	defaultPaper   printing.PaperSize
	location       *time.Location
	logger         *zap.Logger
	now            func() time.Time
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(cfg ReceiptServiceConfig) *ReceiptService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := cfg.Engine
	if engine == nil {
		engine = infra.NewTemplateEngine()
	}
	defaultPaper := cfg.DefaultPaperSize
	if !defaultPaper.IsValid() {
		defaultPaper = printing.DefaultPaperSize
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	return &ReceiptService{
		loader:         cfg.Loader,
		templates:      cfg.Templates,
		engine:         engine,
		renderer:       cfg.Renderer,
		storage:        cfg.Storage,
		jobRepo:        cfg.JobRepo,
		eventPublisher: cfg.EventPublisher,
		metrics:        cfg.Metrics,
		shop:           cfg.Shop,
		defaultPaper:   defaultPaper,
		location:       location,
		logger:         logger,
		now:            time.Now,
	}
}

// =============================================================================
// Receipt Rendering
// =============================================================================

// PreviewReceipt renders the receipt of a stored bill as HTML
func (s *ReceiptService) PreviewReceipt(ctx context.Context, billID uuid.UUID, req PreviewReceiptRequest) (*ReceiptResponse, error) {
	paperSize, err := s.resolvePaperSize(req.PaperSize)
	if err != nil {
		return nil, err
	}

	data, err := s.loadBillReceipt(ctx, billID, infra.ReceiptOptions{PaperSize: paperSize, AutoPrint: req.AutoPrint})
	if err != nil {
		return nil, err
	}

	html, _, err := s.renderHTML(ctx, data)
	if err != nil {
		return nil, err
	}

	return &ReceiptResponse{
		HTML:          html,
		InvoiceNumber: data.InvoiceNumber,
		PaperSize:     string(data.PaperSize),
		AmountInWords: data.AmountInWords,
	}, nil
}

// RenderReceipt renders a receipt from a caller-supplied bill. The words of
// the total are computed here; callers never send them.
func (s *ReceiptService) RenderReceipt(ctx context.Context, req RenderReceiptRequest) (*ReceiptResponse, error) {
	paperSize, err := s.resolvePaperSize(req.PaperSize)
	if err != nil {
		return nil, err
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.now().In(s.location).Format(infra.ReceiptDateLayout)
	}

	lines := make([]infra.ReceiptLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = infra.ReceiptLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Total:    item.Total,
		}
	}

	data, err := infra.BuildReceiptData(s.shop, infra.ReceiptInput{
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		Date:          date,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Items:         lines,
		Subtotal:      req.Subtotal,
		TaxAmount:     req.TaxAmount,
		TotalAmount:   req.TotalAmount,
	}, infra.ReceiptOptions{PaperSize: paperSize, AutoPrint: req.AutoPrint})
	if err != nil {
		return nil, err
	}

	html, _, err := s.renderHTML(ctx, data)
	if err != nil {
		return nil, err
	}

	return &ReceiptResponse{
		HTML:          html,
		InvoiceNumber: data.InvoiceNumber,
		PaperSize:     string(data.PaperSize),
		AmountInWords: data.AmountInWords,
	}, nil
}

// GenerateReceiptPDF renders a stored bill's receipt to PDF and records the
// attempt as a print job. A failed attempt is persisted as a FAILED job and
// the cause is returned.
func (s *ReceiptService) GenerateReceiptPDF(ctx context.Context, billID uuid.UUID, userID *uuid.UUID, req GeneratePDFRequest) (*PrintJobResponse, error) {
	if s.renderer == nil || s.storage == nil || s.jobRepo == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "PDF generation is not configured")
	}

	paperSize, err := s.resolvePaperSize(req.PaperSize)
	if err != nil {
		return nil, err
	}

	data, err := s.loadBillReceipt(ctx, billID, infra.ReceiptOptions{PaperSize: paperSize})
	if err != nil {
		return nil, err
	}

	job, err := printing.NewPrintJob(billID, data.InvoiceNumber, paperSize, userID)
	if err != nil {
		return nil, err
	}
	if req.Copies != nil {
		if err := job.SetCopies(*req.Copies); err != nil {
			return nil, err
		}
	}

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save print job: %w", err)
	}
	if err := job.StartRendering(); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	start := s.now()

	html, tmpl, err := s.renderHTML(ctx, data)
	if err != nil {
		s.failJob(ctx, job, "Receipt template rendering failed.", err)
		return nil, err
	}

	pdfResult, err := s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:        html,
		PaperSize:   tmpl.PaperSize,
		Orientation: tmpl.Orientation,
		Margins:     tmpl.Margins,
		Title:       fmt.Sprintf("%s - %s", printing.DocTypeBillReceipt.DisplayName(), data.InvoiceNumber),
	})
	s.metrics.RecordReceiptRendered(ctx, "pdf", string(paperSize), s.now().Sub(start), err)
	if err != nil {
		s.failJob(ctx, job, "PDF generation failed. Please try again later.", err)
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	stored, err := s.storage.Store(ctx, &infra.StoreRequest{
		JobID:      job.ID,
		BillNumber: data.InvoiceNumber,
		PDFData:    pdfResult.PDFData,
	})
	if err != nil {
		s.failJob(ctx, job, "Failed to save PDF file. Please try again later.", err)
		return nil, fmt.Errorf("failed to store PDF: %w", err)
	}

	if err := job.Complete(stored.URL, stored.Path, stored.Size); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}
	s.publishEvents(ctx, job)

	s.logger.Info("receipt PDF generated",
		zap.String("jobId", job.ID.String()),
		zap.String("billNumber", job.BillNumber),
		zap.String("paperSize", string(paperSize)),
		zap.Int("pages", pdfResult.PageCount),
		zap.String("url", stored.URL))

	return toJobResponse(job), nil
}

// =============================================================================
// Print Job Operations
// =============================================================================

// GetJob retrieves a print job by ID
func (s *ReceiptService) GetJob(ctx context.Context, jobID uuid.UUID) (*PrintJobResponse, error) {
	job, err := s.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// ListJobsForBill retrieves the print jobs of a bill, newest first
func (s *ReceiptService) ListJobsForBill(ctx context.Context, billID uuid.UUID) ([]PrintJobResponse, error) {
	if s.jobRepo == nil {
		return []PrintJobResponse{}, nil
	}
	jobs, err := s.jobRepo.FindByBill(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}

	result := make([]PrintJobResponse, len(jobs))
	for i, j := range jobs {
		result[i] = *toJobResponse(j)
	}
	return result, nil
}

// OpenJobFile opens the PDF produced by a completed job. The caller closes the reader.
func (s *ReceiptService) OpenJobFile(ctx context.Context, jobID uuid.UUID) (io.ReadCloser, *PrintJobResponse, error) {
	if s.storage == nil {
		return nil, nil, shared.NewDomainError("INVALID_STATE", "PDF generation is not configured")
	}
	job, err := s.findJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if !job.IsCompleted() || !job.HasPDF() {
		return nil, nil, shared.NewDomainError("INVALID_STATE", "Print job has no PDF: status "+job.Status.String())
	}

	file, err := s.storage.Get(ctx, job.StoragePath)
	if err != nil {
		var renderErr *infra.RenderError
		if errors.As(err, &renderErr) && renderErr.Code == infra.ErrCodeFileNotFound {
			return nil, nil, shared.NewDomainError("NOT_FOUND", "Receipt PDF has been removed")
		}
		return nil, nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return file, toJobResponse(job), nil
}

// =============================================================================
// Reference Data
// =============================================================================

// AmountInWords spells out the integral part of amount
func (s *ReceiptService) AmountInWords(amount decimal.Decimal) (*AmountInWordsResponse, error) {
	words, err := printing.AmountInWords(amount)
	if err != nil {
		return nil, err
	}
	return &AmountInWordsResponse{
		Amount: amount.StringFixed(2),
		Words:  words,
	}, nil
}

// PaperSizes returns all supported paper sizes
func (s *ReceiptService) PaperSizes() []PaperSizeResponse {
	sizes := printing.AllPaperSizes()
	result := make([]PaperSizeResponse, len(sizes))
	for i, ps := range sizes {
		w, h := ps.Dimensions()
		result[i] = PaperSizeResponse{
			Code:      string(ps),
			Width:     w,
			Height:    h,
			IsReceipt: ps.IsReceipt(),
			IsDefault: ps == s.defaultPaper,
		}
	}
	return result
}

// =============================================================================
// Helper Functions
// =============================================================================

func (s *ReceiptService) resolvePaperSize(raw string) (printing.PaperSize, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return s.defaultPaper, nil
	}
	paperSize := printing.PaperSize(raw)
	if !paperSize.IsValid() {
		return "", shared.NewDomainError("INVALID_PAPER_SIZE", "Invalid paper size: "+raw)
	}
	return paperSize, nil
}

func (s *ReceiptService) loadBillReceipt(ctx context.Context, billID uuid.UUID, opts infra.ReceiptOptions) (*infra.ReceiptData, error) {
	data, err := s.loader.LoadData(ctx, printing.DocTypeBillReceipt, billID, opts)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Bill not found")
		}
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, fmt.Errorf("failed to load receipt data: %w", err)
	}
	return data, nil
}

// renderHTML executes the template matching data.PaperSize and returns it
// with the template so the PDF can reuse its page settings.
func (s *ReceiptService) renderHTML(ctx context.Context, data *infra.ReceiptData) (string, *infra.StaticTemplate, error) {
	start := s.now()

	tmpl, err := s.templates.ForPaperSize(data.PaperSize)
	if err == nil {
		var html string
		html, err = s.engine.Render(ctx, tmpl, data)
		s.metrics.RecordReceiptRendered(ctx, "html", string(data.PaperSize), s.now().Sub(start), err)
		if err == nil {
			return html, tmpl, nil
		}
	}

	s.logger.Error("receipt rendering failed",
		zap.String("invoiceNumber", data.InvoiceNumber),
		zap.String("paperSize", string(data.PaperSize)),
		zap.Error(err))

	var renderErr *infra.RenderError
	if errors.As(err, &renderErr) {
		return "", nil, shared.NewDomainError(renderErr.Code, renderErr.Message)
	}
	return "", nil, fmt.Errorf("failed to render receipt: %w", err)
}

func (s *ReceiptService) findJob(ctx context.Context, jobID uuid.UUID) (*printing.PrintJob, error) {
	if s.jobRepo == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Print job not found")
	}
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Print job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// failJob persists the failure; the original cause is logged, the job keeps a
// message fit for the cashier.
func (s *ReceiptService) failJob(ctx context.Context, job *printing.PrintJob, message string, cause error) {
	s.logger.Error("print job failed",
		zap.String("jobId", job.ID.String()),
		zap.String("billNumber", job.BillNumber),
		zap.Error(cause))

	if err := job.Fail(message); err != nil {
		s.logger.Error("failed to mark print job failed", zap.String("jobId", job.ID.String()), zap.Error(err))
		return
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		s.logger.Error("failed to persist failed print job", zap.String("jobId", job.ID.String()), zap.Error(err))
		return
	}
	s.publishEvents(ctx, job)
}

func (s *ReceiptService) publishEvents(ctx context.Context, job *printing.PrintJob) {
	events := job.GetDomainEvents()
	job.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish print job events",
			zap.String("jobId", job.ID.String()),
			zap.Error(err))
	}
}

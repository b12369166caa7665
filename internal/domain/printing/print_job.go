package printing

import (
	"time"

	"github.com/google/uuid"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
)

// MaxCopies bounds how many copies one job may request
const MaxCopies = 100

// PrintJob tracks one rendering of a bill receipt into a PDF.
type PrintJob struct {
	shared.BaseAggregateRoot
	DocumentType DocType    // Always BILL_RECEIPT today
	BillID       uuid.UUID  // Bill being printed
	BillNumber   string     // Bill number (for display)
	PaperSize    PaperSize  // Paper the receipt is laid out for
	Status       JobStatus  // Current job status
	Copies       int        // Number of copies to print
	PdfURL       string     // URL to the generated PDF file
	StoragePath  string     // Path of the PDF inside the storage backend
	FileSize     int64      // Size of the generated PDF in bytes
	ErrorMessage string     // Error message if job failed
	PrintedAt    *time.Time // When the PDF was produced
	PrintedBy    *uuid.UUID // Cashier who requested the print
}

// NewPrintJob creates a pending print job for a bill
func NewPrintJob(billID uuid.UUID, billNumber string, paperSize PaperSize, printedBy *uuid.UUID) (*PrintJob, error) {
	if billID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BILL", "Bill ID cannot be empty")
	}
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot be empty")
	}
	if paperSize == "" {
		paperSize = DefaultPaperSize
	}
	if !paperSize.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAPER_SIZE", "Invalid paper size: "+paperSize.String())
	}

	job := &PrintJob{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DocumentType:      DocTypeBillReceipt,
		BillID:            billID,
		BillNumber:        billNumber,
		PaperSize:         paperSize,
		Status:            JobStatusPending,
		Copies:            1,
		PrintedBy:         printedBy,
	}

	job.AddDomainEvent(NewPrintJobCreatedEvent(job))

	return job, nil
}

// SetCopies sets the number of copies to print
func (j *PrintJob) SetCopies(copies int) error {
	if copies < 1 {
		return shared.NewDomainError("INVALID_COPIES", "Number of copies must be at least 1")
	}
	if copies > MaxCopies {
		return shared.NewDomainError("INVALID_COPIES", "Number of copies cannot exceed 100")
	}

	j.Copies = copies
	j.UpdatedAt = time.Now()

	return nil
}

// StartRendering marks the job as rendering
func (j *PrintJob) StartRendering() error {
	if !j.Status.CanTransitionTo(JobStatusRendering) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot start rendering from status: "+j.Status.String())
	}

	j.Status = JobStatusRendering
	j.UpdatedAt = time.Now()
	j.IncrementVersion()

	return nil
}

// Complete marks the job as completed with the stored PDF location
func (j *PrintJob) Complete(pdfURL, storagePath string, size int64) error {
	if !j.Status.CanTransitionTo(JobStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot complete from status: "+j.Status.String())
	}
	if pdfURL == "" {
		return shared.NewDomainError("INVALID_PDF_URL", "PDF URL cannot be empty")
	}

	j.Status = JobStatusCompleted
	j.PdfURL = pdfURL
	j.StoragePath = storagePath
	j.FileSize = size
	now := time.Now()
	j.PrintedAt = &now
	j.UpdatedAt = now
	j.IncrementVersion()

	j.AddDomainEvent(NewPrintJobCompletedEvent(j))

	return nil
}

// Fail marks the job as failed with an error message
func (j *PrintJob) Fail(errorMessage string) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot fail a job that is already in terminal status: "+j.Status.String())
	}

	j.Status = JobStatusFailed
	j.ErrorMessage = errorMessage
	j.UpdatedAt = time.Now()
	j.IncrementVersion()

	j.AddDomainEvent(NewPrintJobFailedEvent(j))

	return nil
}

// IsPending returns true if the job is pending
func (j *PrintJob) IsPending() bool {
	return j.Status == JobStatusPending
}

// IsCompleted returns true if the job is completed
func (j *PrintJob) IsCompleted() bool {
	return j.Status == JobStatusCompleted
}

// IsFailed returns true if the job failed
func (j *PrintJob) IsFailed() bool {
	return j.Status == JobStatusFailed
}

// HasPDF returns true if a PDF has been generated
func (j *PrintJob) HasPDF() bool {
	return j.StoragePath != ""
}

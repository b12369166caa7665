package printing

import (
	"github.com/google/uuid"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
)

// AggregateTypePrintJob names the print job aggregate in event envelopes
const AggregateTypePrintJob = "PrintJob"

// Event type constants for PrintJob
const (
	EventTypePrintJobCreated   = "PrintJobCreated"
	EventTypePrintJobCompleted = "PrintJobCompleted"
	EventTypePrintJobFailed    = "PrintJobFailed"
)

// PrintJobCreatedEvent is published when a receipt print is requested
type PrintJobCreatedEvent struct {
	shared.BaseDomainEvent
	JobID      uuid.UUID `json:"job_id"`
	BillID     uuid.UUID `json:"bill_id"`
	BillNumber string    `json:"bill_number"`
	PaperSize  PaperSize `json:"paper_size"`
}

// NewPrintJobCreatedEvent creates a new PrintJobCreatedEvent
func NewPrintJobCreatedEvent(job *PrintJob) *PrintJobCreatedEvent {
	return &PrintJobCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePrintJobCreated, AggregateTypePrintJob, job.ID),
		JobID:           job.ID,
		BillID:          job.BillID,
		BillNumber:      job.BillNumber,
		PaperSize:       job.PaperSize,
	}
}

// PrintJobCompletedEvent is published when the receipt PDF has been stored
type PrintJobCompletedEvent struct {
	shared.BaseDomainEvent
	JobID      uuid.UUID `json:"job_id"`
	BillID     uuid.UUID `json:"bill_id"`
	BillNumber string    `json:"bill_number"`
	PdfURL     string    `json:"pdf_url"`
	Copies     int       `json:"copies"`
}

// NewPrintJobCompletedEvent creates a new PrintJobCompletedEvent
func NewPrintJobCompletedEvent(job *PrintJob) *PrintJobCompletedEvent {
	return &PrintJobCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePrintJobCompleted, AggregateTypePrintJob, job.ID),
		JobID:           job.ID,
		BillID:          job.BillID,
		BillNumber:      job.BillNumber,
		PdfURL:          job.PdfURL,
		Copies:          job.Copies,
	}
}

// PrintJobFailedEvent is published when rendering or storing the PDF failed
type PrintJobFailedEvent struct {
	shared.BaseDomainEvent
	JobID        uuid.UUID `json:"job_id"`
	BillID       uuid.UUID `json:"bill_id"`
	ErrorMessage string    `json:"error_message"`
}

// NewPrintJobFailedEvent creates a new PrintJobFailedEvent
func NewPrintJobFailedEvent(job *PrintJob) *PrintJobFailedEvent {
	return &PrintJobFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePrintJobFailed, AggregateTypePrintJob, job.ID),
		JobID:           job.ID,
		BillID:          job.BillID,
		ErrorMessage:    job.ErrorMessage,
	}
}

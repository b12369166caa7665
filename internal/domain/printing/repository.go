package printing

import (
	"context"

	"github.com/google/uuid"
)

// PrintJobRepository persists print jobs
type PrintJobRepository interface {
	// Save inserts or updates a print job
	Save(ctx context.Context, job *PrintJob) error

	// FindByID returns shared.ErrNotFound when the job does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*PrintJob, error)

	// FindByBill lists jobs for a bill, newest first
	FindByBill(ctx context.Context, billID uuid.UUID) ([]*PrintJob, error)
}

package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
)

// BillRepository defines the record store boundary for bills.
// Header and items are written by separate calls and are not atomic.
type BillRepository interface {
	// Create inserts the bill header only and returns the stored id
	Create(ctx context.Context, bill *Bill) (uuid.UUID, error)

	// AddItems inserts the line items of an existing bill
	AddItems(ctx context.Context, billID uuid.UUID, items []BillItem) error

	// FindByID loads a bill with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)

	// FindByNumber loads the most recent bill with the given number
	FindByNumber(ctx context.Context, billNumber string) (*Bill, error)

	// FindAll lists bill headers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Bill, error)

	// Count counts bills matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

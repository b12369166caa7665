package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
	infra "github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/printing"
)

// BillReceiptProvider loads a stored bill and formats it as a receipt
type BillReceiptProvider struct {
	billRepo billing.BillRepository
	shop     infra.ShopInfo
	location *time.Location
}

// NewBillReceiptProvider creates a provider. Dates print in loc, or local time when nil.
func NewBillReceiptProvider(billRepo billing.BillRepository, shop infra.ShopInfo, loc *time.Location) *BillReceiptProvider {
	return &BillReceiptProvider{
		billRepo: billRepo,
		shop:     shop,
		location: loc,
	}
}

// GetDocType returns the document type this provider handles
func (p *BillReceiptProvider) GetDocType() printing.DocType {
	return printing.DocTypeBillReceipt
}

// GetData loads the bill with its items and builds the receipt
func (p *BillReceiptProvider) GetData(ctx context.Context, billID uuid.UUID, opts infra.ReceiptOptions) (*infra.ReceiptData, error) {
	bill, err := p.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill %s: %w", billID, err)
	}

	return infra.BuildReceiptData(p.shop, infra.ReceiptInputFromBill(bill, p.location), opts)
}

// Ensure BillReceiptProvider implements DataProvider
var _ infra.DataProvider = (*BillReceiptProvider)(nil)

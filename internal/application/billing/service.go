// Package billing contains the use cases of the counter: storing a finalised
// bill and reading stored bills back.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// BillService handles bill business operations
type BillService struct {
	billRepo       billing.BillRepository
	eventPublisher shared.EventPublisher
	metrics        *telemetry.POSMetrics
	logger         *zap.Logger
	now            func() time.Time
}

// BillServiceOption configures a BillService
type BillServiceOption func(*BillService)

// WithEventPublisher publishes BillCreated after a bill is stored
func WithEventPublisher(publisher shared.EventPublisher) BillServiceOption {
	return func(s *BillService) {
		s.eventPublisher = publisher
	}
}

// WithMetrics records business metrics for stored bills
func WithMetrics(metrics *telemetry.POSMetrics) BillServiceOption {
	return func(s *BillService) {
		s.metrics = metrics
	}
}

// WithClock overrides the clock used for fallback bill numbers
func WithClock(now func() time.Time) BillServiceOption {
	return func(s *BillService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewBillService creates a new BillService
func NewBillService(billRepo billing.BillRepository, logger *zap.Logger, opts ...BillServiceOption) *BillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &BillService{
		billRepo: billRepo,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBill stores the bill header and then its items.
//
// The two writes are not atomic. When the items fail after the header was
// stored, the header stays behind; the error names its id so it can be
// repaired by hand.
func (s *BillService) CreateBill(ctx context.Context, req CreateBillRequest) (*BillResponse, error) {
	billNumber := strings.TrimSpace(req.BillNumber)
	if billNumber == "" {
		billNumber = billing.GenerateBillNumber(s.now())
	}

	bill, err := billing.NewBill(
		billNumber,
		req.CustomerName,
		req.CustomerPhone,
		req.CreatedBy,
		req.Subtotal,
		req.TaxAmount,
		req.TotalAmount,
	)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		line, err := bill.AddItem(item.FoodItemID, item.FoodItemName, item.Quantity, item.UnitPrice, item.TotalPrice)
		if err != nil {
			return nil, err
		}
		// line totals are stored as sent; discounts at the till make them differ
		if expected := line.ExpectedTotal(); !expected.Equal(line.TotalPrice) {
			s.logger.Warn("bill line total differs from quantity times unit price",
				zap.String("billNumber", bill.BillNumber),
				zap.Int("lineNo", line.LineNo),
				zap.String("foodItem", line.FoodItemName),
				zap.String("totalPrice", line.TotalPrice.StringFixed(2)),
				zap.String("expected", expected.StringFixed(2)))
		}
	}

	if !bill.SubtotalMatches() {
		s.logger.Warn("bill subtotal differs from the sum of its lines",
			zap.String("billNumber", bill.BillNumber),
			zap.String("subtotal", bill.Subtotal.StringFixed(2)),
			zap.String("lineTotal", bill.CalculatedSubtotal().StringFixed(2)))
	}

	billID, err := s.billRepo.Create(ctx, bill)
	if err != nil {
		s.metrics.RecordBillSaveFailed(ctx, "header")
		s.logger.Error("failed to save bill header",
			zap.String("billNumber", bill.BillNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}
	if billID != uuid.Nil && billID != bill.ID {
		bill.ID = billID
		for i := range bill.Items {
			bill.Items[i].BillID = billID
		}
	}

	if err := s.billRepo.AddItems(ctx, bill.ID, bill.Items); err != nil {
		s.metrics.RecordBillSaveFailed(ctx, "items")
		s.logger.Error("failed to save bill items, header left without items",
			zap.String("billId", bill.ID.String()),
			zap.String("billNumber", bill.BillNumber),
			zap.Int("itemCount", len(bill.Items)),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save items of bill %s: %w", bill.ID, err)
	}

	s.metrics.RecordBillSaved(ctx, bill.TotalAmount)
	s.publishEvents(ctx, bill)

	s.logger.Info("bill saved",
		zap.String("billId", bill.ID.String()),
		zap.String("billNumber", bill.BillNumber),
		zap.Int("itemCount", bill.ItemCount()),
		zap.String("total", bill.TotalAmount.StringFixed(2)))

	return toBillResponse(bill), nil
}

// GetBill retrieves a bill with its items
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Bill not found")
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return toBillResponse(bill), nil
}

// GetBillByNumber retrieves the most recent bill carrying the number
func (s *BillService) GetBillByNumber(ctx context.Context, billNumber string) (*BillResponse, error) {
	billNumber = strings.TrimSpace(billNumber)
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Bill number is required")
	}

	bill, err := s.billRepo.FindByNumber(ctx, billNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Bill not found")
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return toBillResponse(bill), nil
}

// ListBills retrieves a page of bill headers. The To date is inclusive.
func (s *BillService) ListBills(ctx context.Context, req ListBillsRequest) (*ListBillsResponse, error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = min(req.PageSize, maxPageSize)
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = strings.TrimSpace(req.Search)
	filter.From = req.From
	if req.To != nil {
		end := req.To.AddDate(0, 0, 1)
		filter.To = &end
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, shared.NewDomainError("INVALID_INPUT", "From date must not be after to date")
	}

	bills, err := s.billRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	total, err := s.billRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count bills: %w", err)
	}

	items := make([]BillResponse, len(bills))
	for i := range bills {
		items[i] = *toBillResponse(&bills[i])
	}

	return &ListBillsResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.PageSize,
	}, nil
}

// GenerateBillNumber suggests the number the next bill would get when the
// till sends none. Numbers are not reserved.
func (s *BillService) GenerateBillNumber() BillNumberResponse {
	return BillNumberResponse{BillNumber: billing.GenerateBillNumber(s.now())}
}

func (s *BillService) publishEvents(ctx context.Context, bill *billing.Bill) {
	events := bill.GetDomainEvents()
	bill.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish bill events",
			zap.String("billId", bill.ID.String()),
			zap.Error(err))
	}
}

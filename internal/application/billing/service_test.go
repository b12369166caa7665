package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appbilling "github.com/techverse-private-limited/stock-blueprints-54/internal/application/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) Create(ctx context.Context, bill *billing.Bill) (uuid.UUID, error) {
	args := m.Called(ctx, bill)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockBillRepository) AddItems(ctx context.Context, billID uuid.UUID, items []billing.BillItem) error {
	return m.Called(ctx, billID, items).Error(0)
}

func (m *MockBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindByNumber(ctx context.Context, billNumber string) (*billing.Bill, error) {
	args := m.Called(ctx, billNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Bill, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Bill), args.Error(1)
}

func (m *MockBillRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var fixedNow = time.Date(2024, 3, 10, 13, 5, 0, 0, time.UTC)

func newService(repo *MockBillRepository, publisher *MockEventPublisher, logger *zap.Logger) *appbilling.BillService {
	opts := []appbilling.BillServiceOption{
		appbilling.WithClock(func() time.Time { return fixedNow }),
	}
	if publisher != nil {
		opts = append(opts, appbilling.WithEventPublisher(publisher))
	}
	return appbilling.NewBillService(repo, logger, opts...)
}

func validRequest() appbilling.CreateBillRequest {
	return appbilling.CreateBillRequest{
		CustomerName:  "Anbu",
		CustomerPhone: "9876543210",
		Subtotal:      dec("375"),
		TaxAmount:     dec("0"),
		TotalAmount:   dec("375"),
		Items: []appbilling.CreateBillItemReq{
			{FoodItemID: uuid.New(), FoodItemName: "Chicken Biryani", Quantity: 2, UnitPrice: dec("180"), TotalPrice: dec("360")},
			{FoodItemID: uuid.New(), FoodItemName: "Tea", Quantity: 1, UnitPrice: dec("15"), TotalPrice: dec("15")},
		},
	}
}

func storedBill(t *testing.T) *billing.Bill {
	t.Helper()
	bill, err := billing.NewBill("TB0042", "Meena", "", nil, dec("90"), dec("0"), dec("90"))
	require.NoError(t, err)
	_, err = bill.AddItem(uuid.New(), "Masala Dosa", 1, dec("90"), dec("90"))
	require.NoError(t, err)
	return bill
}

// =============================================================================
// CreateBill
// =============================================================================

func TestBillService_CreateBill(t *testing.T) {
	t.Run("stores header then items and publishes BillCreated", func(t *testing.T) {
		repo := new(MockBillRepository)
		publisher := new(MockEventPublisher)
		svc := newService(repo, publisher, nil)

		var stored *billing.Bill
		repo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Bill")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*billing.Bill) }).
			Return(uuid.Nil, nil).Once()
		repo.On("AddItems", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.MatchedBy(func(items []billing.BillItem) bool {
			return len(items) == 2
		})).Return(nil).Once()
		publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			if len(events) != 1 {
				return false
			}
			created, ok := events[0].(*billing.BillCreatedEvent)
			return ok && created.ItemCount == 2 && created.TotalAmount.Equal(dec("375"))
		})).Return(nil).Once()

		resp, err := svc.CreateBill(context.Background(), validRequest())
		require.NoError(t, err)

		assert.Equal(t, stored.ID.String(), resp.ID)
		assert.Equal(t, billing.GenerateBillNumber(fixedNow), resp.BillNumber)
		assert.Equal(t, 2, resp.ItemCount)
		assert.Equal(t, "Anbu", resp.CustomerName)
		assert.Empty(t, stored.GetDomainEvents(), "events are cleared after publishing")
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("keeps the bill number sent by the till", func(t *testing.T) {
		repo := new(MockBillRepository)
		svc := newService(repo, nil, nil)

		repo.On("Create", mock.Anything, mock.Anything).Return(uuid.Nil, nil)
		repo.On("AddItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		req := validRequest()
		req.BillNumber = "  TB4821 "
		resp, err := svc.CreateBill(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "TB4821", resp.BillNumber)
	})

	t.Run("uses id generated by the store", func(t *testing.T) {
		repo := new(MockBillRepository)
		svc := newService(repo, nil, nil)
		generated := uuid.New()

		repo.On("Create", mock.Anything, mock.Anything).Return(generated, nil)
		repo.On("AddItems", mock.Anything, generated, mock.MatchedBy(func(items []billing.BillItem) bool {
			return items[0].BillID == generated
		})).Return(nil).Once()

		resp, err := svc.CreateBill(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, generated.String(), resp.ID)
		repo.AssertExpectations(t)
	})

	t.Run("records cashier id", func(t *testing.T) {
		repo := new(MockBillRepository)
		svc := newService(repo, nil, nil)
		cashier := uuid.New()

		repo.On("Create", mock.Anything, mock.MatchedBy(func(b *billing.Bill) bool {
			return b.CreatedBy != nil && *b.CreatedBy == cashier
		})).Return(uuid.Nil, nil).Once()
		repo.On("AddItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		req := validRequest()
		req.CreatedBy = &cashier
		resp, err := svc.CreateBill(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, cashier.String(), resp.CreatedBy)
	})

	t.Run("header failure is returned and nothing else runs", func(t *testing.T) {
		repo := new(MockBillRepository)
		publisher := new(MockEventPublisher)
		svc := newService(repo, publisher, nil)

		repo.On("Create", mock.Anything, mock.Anything).Return(uuid.Nil, errors.New("connection refused")).Once()

		_, err := svc.CreateBill(context.Background(), validRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save bill")
		repo.AssertNotCalled(t, "AddItems", mock.Anything, mock.Anything, mock.Anything)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("item failure leaves the header and names it", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		repo := new(MockBillRepository)
		publisher := new(MockEventPublisher)
		svc := newService(repo, publisher, zap.New(core))

		var stored *billing.Bill
		repo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*billing.Bill) }).
			Return(uuid.Nil, nil).Once()
		boom := errors.New("foreign key violation")
		repo.On("AddItems", mock.Anything, mock.Anything, mock.Anything).Return(boom).Once()

		_, err := svc.CreateBill(context.Background(), validRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), stored.ID.String())

		entries := logs.FilterMessage("failed to save bill items, header left without items").All()
		require.Len(t, entries, 1)
		assert.Equal(t, stored.ID.String(), entries[0].ContextMap()["billId"])
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		repo := new(MockBillRepository)
		publisher := new(MockEventPublisher)
		svc := newService(repo, publisher, zap.New(core))

		repo.On("Create", mock.Anything, mock.Anything).Return(uuid.Nil, nil)
		repo.On("AddItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus closed"))

		_, err := svc.CreateBill(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessage("failed to publish bill events").Len())
	})

	t.Run("subtotal mismatch is logged and stored as sent", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		repo := new(MockBillRepository)
		svc := newService(repo, nil, zap.New(core))

		repo.On("Create", mock.Anything, mock.MatchedBy(func(b *billing.Bill) bool {
			return b.Subtotal.Equal(dec("400"))
		})).Return(uuid.Nil, nil).Once()
		repo.On("AddItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		req := validRequest()
		req.Subtotal = dec("400")
		_, err := svc.CreateBill(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessage("bill subtotal differs from the sum of its lines").Len())
	})

	t.Run("line total mismatch is logged per line", func(t *testing.T) {
		tests := []struct {
			name  string
			total string
			warns int
		}{
			{"matching line", "360", 0},
			{"discounted line", "340", 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				core, logs := observer.New(zap.WarnLevel)
				repo := new(MockBillRepository)
				svc := newService(repo, nil, zap.New(core))

				repo.On("Create", mock.Anything, mock.Anything).Return(uuid.Nil, nil).Once()
				repo.On("AddItems", mock.Anything, mock.Anything, mock.MatchedBy(func(items []billing.BillItem) bool {
					return items[0].TotalPrice.Equal(dec(tt.total))
				})).Return(nil).Once()

				req := validRequest()
				req.Items[0].TotalPrice = dec(tt.total)
				_, err := svc.CreateBill(context.Background(), req)
				require.NoError(t, err)

				entries := logs.FilterMessage("bill line total differs from quantity times unit price").All()
				require.Len(t, entries, tt.warns)
				if tt.warns > 0 {
					fields := entries[0].ContextMap()
					assert.Equal(t, int64(1), fields["lineNo"])
					assert.Equal(t, "360.00", fields["expected"])
				}
				repo.AssertExpectations(t)
			})
		}
	})

	validation := []struct {
		name   string
		mutate func(*appbilling.CreateBillRequest)
		code   string
	}{
		{"empty customer", func(r *appbilling.CreateBillRequest) { r.CustomerName = "  " }, "INVALID_CUSTOMER_NAME"},
		{"negative total", func(r *appbilling.CreateBillRequest) { r.TotalAmount = dec("-1") }, "INVALID_AMOUNT"},
		{"zero quantity", func(r *appbilling.CreateBillRequest) { r.Items[0].Quantity = 0 }, "INVALID_QUANTITY"},
	}
	for _, tt := range validation {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBillRepository)
			svc := newService(repo, nil, nil)

			req := validRequest()
			tt.mutate(&req)
			_, err := svc.CreateBill(context.Background(), req)

			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

// =============================================================================
// Queries
// =============================================================================

func TestBillService_GetBill(t *testing.T) {
	t.Run("returns bill with items", func(t *testing.T) {
		repo := new(MockBillRepository)
		svc := newService(repo, nil, nil)
		bill := storedBill(t)

		repo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)

		resp, err := svc.GetBill(context.Background(), bill.ID)
		require.NoError(t, err)
		assert.Equal(t, "TB0042", resp.BillNumber)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Masala Dosa", resp.Items[0].FoodItemName)
	})

	t.Run("maps not found", func(t *testing.T) {
		repo := new(MockBillRepository)
		svc := newService(repo, nil, nil)
		id := uuid.New()

		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := svc.GetBill(context.Background(), id)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("wraps store errors", func(t *testing.T) {
		repo := new(MockBillRepository)
		svc := newService(repo, nil, nil)
		id := uuid.New()

		repo.On("FindByID", mock.Anything, id).Return(nil, errors.New("timeout"))

		_, err := svc.GetBill(context.Background(), id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get bill")
	})
}

func TestBillService_GetBillByNumber(t *testing.T) {
	repo := new(MockBillRepository)
	svc := newService(repo, nil, nil)
	bill := storedBill(t)

	repo.On("FindByNumber", mock.Anything, "TB0042").Return(bill, nil)
	repo.On("FindByNumber", mock.Anything, "TB9999").Return(nil, shared.ErrNotFound)

	resp, err := svc.GetBillByNumber(context.Background(), " TB0042 ")
	require.NoError(t, err)
	assert.Equal(t, bill.ID.String(), resp.ID)

	_, err = svc.GetBillByNumber(context.Background(), "TB9999")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)

	_, err = svc.GetBillByNumber(context.Background(), "")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestBillService_ListBills(t *testing.T) {
	t.Run("applies defaults and makes the end date inclusive", func(t *testing.T) {
		repo := new(MockBillRepository)
		svc := newService(repo, nil, nil)

		from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

		matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20 && f.Search == "Anbu" &&
				f.From.Equal(from) && f.To.Equal(to.AddDate(0, 0, 1))
		})
		repo.On("FindAll", mock.Anything, matchFilter).Return([]billing.Bill{*storedBill(t)}, nil).Once()
		repo.On("Count", mock.Anything, matchFilter).Return(int64(41), nil).Once()

		resp, err := svc.ListBills(context.Background(), appbilling.ListBillsRequest{
			Search: " Anbu ",
			From:   &from,
			To:     &to,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Items, 1)
		assert.Equal(t, int64(41), resp.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 20, resp.Size)
		repo.AssertExpectations(t)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		repo := new(MockBillRepository)
		svc := newService(repo, nil, nil)

		from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.ListBills(context.Background(), appbilling.ListBillsRequest{From: &from, To: &to})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("wraps count failure", func(t *testing.T) {
		repo := new(MockBillRepository)
		svc := newService(repo, nil, nil)

		repo.On("FindAll", mock.Anything, mock.Anything).Return([]billing.Bill{}, nil)
		repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

		_, err := svc.ListBills(context.Background(), appbilling.ListBillsRequest{Page: 2, PageSize: 10})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to count bills")
	})
}

func TestBillService_GenerateBillNumber(t *testing.T) {
	svc := newService(new(MockBillRepository), nil, nil)
	assert.Equal(t, billing.GenerateBillNumber(fixedNow), svc.GenerateBillNumber().BillNumber)
}

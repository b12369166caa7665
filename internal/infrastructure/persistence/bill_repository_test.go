package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/persistence/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.BillModel{}, &models.BillItemModel{}, &models.PrintJobModel{}))
	return db
}

func newTestBill(t *testing.T, number, customer string, total int64) *billing.Bill {
	t.Helper()
	amount := decimal.NewFromInt(total)
	bill, err := billing.NewBill(number, customer, "", nil, amount, decimal.Zero, amount)
	require.NoError(t, err)
	return bill
}

func TestGormBillRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBillRepository(db)
	ctx := context.Background()

	bill := newTestBill(t, "BILL-000101", "Ravi", 180)
	_, err := bill.AddItem(uuid.New(), "Masala Dosa", 2, decimal.NewFromInt(60), decimal.NewFromInt(120))
	require.NoError(t, err)
	_, err = bill.AddItem(uuid.New(), "Filter Coffee", 3, decimal.NewFromInt(20), decimal.NewFromInt(60))
	require.NoError(t, err)

	id, err := repo.Create(ctx, bill)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, id)

	t.Run("header is stored without items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Ravi", found.CustomerName)
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(180)))
		assert.Empty(t, found.Items)
	})

	require.NoError(t, repo.AddItems(ctx, id, bill.Items))

	t.Run("items are loaded in insertion order", func(t *testing.T) {
		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.Len(t, found.Items, 2)
		assert.Equal(t, "Masala Dosa", found.Items[0].FoodItemName)
		assert.Equal(t, 1, found.Items[0].LineNo)
		assert.Equal(t, 3, found.Items[1].Quantity)
		assert.Equal(t, 2, found.Items[1].LineNo)
		assert.Equal(t, id, found.Items[1].BillID)
	})

	t.Run("find by number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "BILL-000101")
		require.NoError(t, err)
		assert.Equal(t, id, found.ID)
		assert.Len(t, found.Items, 2)
	})

	t.Run("missing bill maps to ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByNumber(ctx, "BILL-999999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("empty item list is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.AddItems(ctx, id, nil))
	})

	t.Run("duplicate id maps to ErrAlreadyExists", func(t *testing.T) {
		_, err := repo.Create(ctx, bill)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGormBillRepository_ItemsOrderedByLineNo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBillRepository(db)
	ctx := context.Background()

	bill := newTestBill(t, "BILL-000202", "Kavya", 75)
	id, err := repo.Create(ctx, bill)
	require.NoError(t, err)

	// one timestamp for every row, as a single multi-row insert gets on Postgres
	stamp := time.Date(2024, 3, 10, 13, 5, 0, 0, time.UTC)
	line := func(lineNo int, name string) billing.BillItem {
		return billing.BillItem{
			ID:           uuid.New(),
			LineNo:       lineNo,
			FoodItemID:   uuid.New(),
			FoodItemName: name,
			Quantity:     1,
			UnitPrice:    decimal.NewFromInt(25),
			TotalPrice:   decimal.NewFromInt(25),
			CreatedAt:    stamp,
		}
	}
	// stored out of line order so row order alone cannot pass
	require.NoError(t, repo.AddItems(ctx, id, []billing.BillItem{
		line(3, "Vada"),
		line(1, "Idli"),
		line(2, "Pongal"),
	}))

	tests := []struct {
		name string
		load func() (*billing.Bill, error)
	}{
		{"find by id", func() (*billing.Bill, error) { return repo.FindByID(ctx, id) }},
		{"find by number", func() (*billing.Bill, error) { return repo.FindByNumber(ctx, "BILL-000202") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := tt.load()
			require.NoError(t, err)
			require.Len(t, found.Items, 3)
			names := []string{found.Items[0].FoodItemName, found.Items[1].FoodItemName, found.Items[2].FoodItemName}
			assert.Equal(t, []string{"Idli", "Pongal", "Vada"}, names)
			assert.Equal(t, 1, found.Items[0].LineNo)
			assert.True(t, found.Items[0].CreatedAt.Equal(found.Items[2].CreatedAt))
		})
	}
}

func TestGormBillRepository_FindByNumber_MostRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBillRepository(db)
	ctx := context.Background()

	older := newTestBill(t, "BILL-000777", "First", 10)
	older.CreatedAt = time.Now().Add(-48 * time.Hour)
	newer := newTestBill(t, "BILL-000777", "Second", 20)

	_, err := repo.Create(ctx, older)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newer)
	require.NoError(t, err)

	found, err := repo.FindByNumber(ctx, "BILL-000777")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, found.ID)
}

func TestGormBillRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBillRepository(db)
	ctx := context.Background()

	now := time.Now()
	seed := []struct {
		number   string
		customer string
		total    int64
		age      time.Duration
	}{
		{"BILL-000001", "Anand", 100, 72 * time.Hour},
		{"BILL-000002", "Banu", 300, 48 * time.Hour},
		{"BILL-000003", "Chitra", 200, 24 * time.Hour},
		{"BILL-000004", "Anbu", 50, time.Hour},
	}
	for _, s := range seed {
		b := newTestBill(t, s.number, s.customer, s.total)
		b.CreatedAt = now.Add(-s.age)
		_, err := repo.Create(ctx, b)
		require.NoError(t, err)
	}

	from := now.Add(-50 * time.Hour)
	to := now.Add(-12 * time.Hour)

	tests := []struct {
		name      string
		filter    shared.Filter
		wantFirst string
		wantLen   int
		wantCount int64
	}{
		{
			name:      "default order is newest first",
			filter:    shared.Filter{Page: 1, PageSize: 10},
			wantFirst: "BILL-000004",
			wantLen:   4,
			wantCount: 4,
		},
		{
			name:      "sort by total ascending",
			filter:    shared.Filter{Page: 1, PageSize: 10, OrderBy: "total_amount", OrderDir: "asc"},
			wantFirst: "BILL-000004",
			wantLen:   4,
			wantCount: 4,
		},
		{
			name:      "unknown sort field falls back to created_at",
			filter:    shared.Filter{Page: 1, PageSize: 10, OrderBy: "password", OrderDir: "asc"},
			wantFirst: "BILL-000001",
			wantLen:   4,
			wantCount: 4,
		},
		{
			name:      "search matches customer name",
			filter:    shared.Filter{Page: 1, PageSize: 10, Search: "Anb"},
			wantFirst: "BILL-000004",
			wantLen:   1,
			wantCount: 1,
		},
		{
			name:      "date range",
			filter:    shared.Filter{Page: 1, PageSize: 10, From: &from, To: &to},
			wantFirst: "BILL-000003",
			wantLen:   2,
			wantCount: 2,
		},
		{
			name:      "second page",
			filter:    shared.Filter{Page: 2, PageSize: 3},
			wantFirst: "BILL-000001",
			wantLen:   1,
			wantCount: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bills, err := repo.FindAll(ctx, tt.filter)
			require.NoError(t, err)
			require.Len(t, bills, tt.wantLen)
			assert.Equal(t, tt.wantFirst, bills[0].BillNumber)

			count, err := repo.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

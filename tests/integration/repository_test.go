//go:build integration

package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/persistence"
	"github.com/techverse-private-limited/stock-blueprints-54/tests/testutil"
)

func saveBill(t *testing.T, repo *persistence.GormBillRepository, number, customer string) *billing.Bill {
	t.Helper()
	ctx := context.Background()

	bill, err := billing.NewBill(number, customer, "", nil,
		decimal.NewFromInt(375), decimal.Zero, decimal.NewFromInt(375))
	require.NoError(t, err)
	_, err = bill.AddItem(testutil.NewTestUUID("biryani"), "Chicken Biryani", 2, decimal.NewFromInt(180), decimal.NewFromInt(360))
	require.NoError(t, err)
	_, err = bill.AddItem(testutil.NewTestUUID("tea"), "Tea", 1, decimal.NewFromInt(15), decimal.NewFromInt(15))
	require.NoError(t, err)

	id, err := repo.Create(ctx, bill)
	require.NoError(t, err)
	require.NoError(t, repo.AddItems(ctx, id, bill.Items))
	return bill
}

func TestBillRepository_CreateAndFind(t *testing.T) {
	tdb := NewTestDB(t)
	repo := persistence.NewGormBillRepository(tdb.DB)
	ctx := context.Background()

	bill := saveBill(t, repo, "BILL-482113", "Anbu")

	found, err := repo.FindByID(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, "BILL-482113", found.BillNumber)
	assert.Equal(t, "Anbu", found.CustomerName)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(375)))
	require.Len(t, found.Items, 2)
	assert.Equal(t, "Chicken Biryani", found.Items[0].FoodItemName)
	assert.Equal(t, "Tea", found.Items[1].FoodItemName)
	assert.True(t, found.SubtotalMatches())

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestBillRepository_FindByNumberReturnsNewest(t *testing.T) {
	tdb := NewTestDB(t)
	repo := persistence.NewGormBillRepository(tdb.DB)
	ctx := context.Background()

	older := saveBill(t, repo, "BILL-000042", "First")
	newer := saveBill(t, repo, "BILL-000042", "Second")
	require.NoError(t, tdb.DB.Exec("UPDATE bills SET created_at = ? WHERE id = ?",
		time.Now().Add(-24*time.Hour), older.ID).Error)

	found, err := repo.FindByNumber(ctx, "BILL-000042")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, found.ID)
	assert.Len(t, found.Items, 2)

	_, err = repo.FindByNumber(ctx, "BILL-999999")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestBillRepository_FindAllFilters(t *testing.T) {
	tdb := NewTestDB(t)
	repo := persistence.NewGormBillRepository(tdb.DB)
	ctx := context.Background()

	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	customers := []string{"Anbu", "Bala", "Chitra", "Devi", "Anitha"}
	for i, name := range customers {
		bill := saveBill(t, repo, "BILL-00000"+string(rune('1'+i)), name)
		require.NoError(t, tdb.DB.Exec("UPDATE bills SET created_at = ? WHERE id = ?",
			day.Add(time.Duration(i)*24*time.Hour), bill.ID).Error)
	}

	from := day.Add(24 * time.Hour)
	to := day.Add(3 * 24 * time.Hour)

	tests := []struct {
		name      string
		filter    shared.Filter
		wantNames []string
		wantCount int64
	}{
		{
			name:      "first page newest first",
			filter:    shared.Filter{Page: 1, PageSize: 2, OrderBy: "created_at", OrderDir: "desc"},
			wantNames: []string{"Anitha", "Devi"},
			wantCount: 5,
		},
		{
			name:      "last partial page",
			filter:    shared.Filter{Page: 3, PageSize: 2, OrderBy: "created_at", OrderDir: "desc"},
			wantNames: []string{"Anbu"},
			wantCount: 5,
		},
		{
			name:      "search by customer",
			filter:    shared.Filter{Page: 1, PageSize: 10, Search: "An", OrderBy: "created_at", OrderDir: "asc"},
			wantNames: []string{"Anbu", "Anitha"},
			wantCount: 2,
		},
		{
			name:      "date range excludes upper bound",
			filter:    shared.Filter{Page: 1, PageSize: 10, From: &from, To: &to, OrderBy: "created_at", OrderDir: "asc"},
			wantNames: []string{"Bala", "Chitra"},
			wantCount: 2,
		},
		{
			name:      "unknown sort field falls back",
			filter:    shared.Filter{Page: 1, PageSize: 1, OrderBy: "customer_name; DROP TABLE bills", OrderDir: "asc"},
			wantNames: []string{"Anbu"},
			wantCount: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bills, err := repo.FindAll(ctx, tt.filter)
			require.NoError(t, err)

			names := make([]string, len(bills))
			for i, b := range bills {
				names[i] = b.CustomerName
				assert.Empty(t, b.Items, "list does not load items")
			}
			assert.Equal(t, tt.wantNames, names)

			count, err := repo.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)
		})
	}

	assert.EqualValues(t, 5, tdb.CountRows("bills"))
}

func TestPrintJobRepository_Lifecycle(t *testing.T) {
	tdb := NewTestDB(t)
	bills := persistence.NewGormBillRepository(tdb.DB)
	jobs := persistence.NewGormPrintJobRepository(tdb.DB)
	ctx := context.Background()

	bill := saveBill(t, bills, "BILL-482113", "Anbu")
	cashier := testutil.TestCashierID()

	job, err := printing.NewPrintJob(bill.ID, bill.BillNumber, printing.PaperSizeReceipt80MM, &cashier)
	require.NoError(t, err)
	require.NoError(t, jobs.Save(ctx, job))

	require.NoError(t, job.StartRendering())
	require.NoError(t, job.Complete("/files/receipts/2024/03/"+job.ID.String()+".pdf", "receipts/2024/03/"+job.ID.String()+".pdf", 2048))
	require.NoError(t, jobs.Save(ctx, job))

	failed, err := printing.NewPrintJob(bill.ID, bill.BillNumber, printing.PaperSizeReceipt80MM, nil)
	require.NoError(t, err)
	require.NoError(t, failed.StartRendering())
	require.NoError(t, failed.Fail("render timed out"))
	require.NoError(t, jobs.Save(ctx, failed))

	found, err := jobs.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, printing.JobStatusCompleted, found.Status)
	assert.EqualValues(t, 2048, found.FileSize)
	require.NotNil(t, found.PrintedBy)
	assert.Equal(t, cashier, *found.PrintedBy)

	list, err := jobs.FindByBill(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.EqualValues(t, 2, tdb.CountRows("print_jobs"))

	_, err = jobs.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "bills", BillModel{}.TableName())
	assert.Equal(t, "bill_items", BillItemModel{}.TableName())
	assert.Equal(t, "print_jobs", PrintJobModel{}.TableName())
}

func TestBillModel_RoundTrip(t *testing.T) {
	cashier := uuid.New()
	bill, err := billing.NewBill("BILL-000042", "Asha", "9876543210", &cashier,
		decimal.NewFromInt(250), decimal.Zero, decimal.NewFromInt(250))
	require.NoError(t, err)

	model := BillModelFromDomain(bill)
	assert.Equal(t, bill.ID, model.ID)
	assert.Equal(t, 1, model.Version)
	assert.Empty(t, model.Items, "items are written separately")

	itemID := uuid.New()
	model.Items = []BillItemModel{{
		ID:           itemID,
		BillID:       bill.ID,
		FoodItemID:   uuid.New(),
		FoodItemName: "Chicken Biryani",
		Quantity:     2,
		UnitPrice:    decimal.NewFromInt(125),
		TotalPrice:   decimal.NewFromInt(250),
		CreatedAt:    time.Now(),
	}}

	back := model.ToDomain()
	assert.Equal(t, bill.ID, back.ID)
	assert.Equal(t, "BILL-000042", back.BillNumber)
	assert.Equal(t, "Asha", back.CustomerName)
	assert.Equal(t, &cashier, back.CreatedBy)
	assert.True(t, back.TotalAmount.Equal(decimal.NewFromInt(250)))
	require.Len(t, back.Items, 1)
	assert.Equal(t, itemID, back.Items[0].ID)
	assert.Equal(t, 2, back.Items[0].Quantity)
}

func TestBillItemModelFromDomain(t *testing.T) {
	billID := uuid.New()

	t.Run("fills missing id and timestamp", func(t *testing.T) {
		m := BillItemModelFromDomain(billID, 0, billing.BillItem{
			FoodItemID:   uuid.New(),
			FoodItemName: "Parotta",
			Quantity:     3,
			UnitPrice:    decimal.NewFromInt(15),
			TotalPrice:   decimal.NewFromInt(45),
		})
		assert.NotEqual(t, uuid.Nil, m.ID)
		assert.False(t, m.CreatedAt.IsZero())
		assert.Equal(t, billID, m.BillID)
	})

	t.Run("keeps the bill id argument over the item's", func(t *testing.T) {
		m := BillItemModelFromDomain(billID, 0, billing.BillItem{ID: uuid.New(), BillID: uuid.New()})
		assert.Equal(t, billID, m.BillID)
	})

	t.Run("line number", func(t *testing.T) {
		tests := []struct {
			name   string
			index  int
			lineNo int
			want   int
		}{
			{"taken from the item", 4, 2, 2},
			{"falls back to slice position", 4, 0, 5},
			{"first position", 0, 0, 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				m := BillItemModelFromDomain(billID, tt.index, billing.BillItem{LineNo: tt.lineNo})
				assert.Equal(t, tt.want, m.LineNo)
				assert.Equal(t, tt.want, m.ToDomain().LineNo)
			})
		}
	})
}

func TestPrintJobModel_RoundTrip(t *testing.T) {
	job, err := printing.NewPrintJob(uuid.New(), "BILL-000042", printing.PaperSizeReceipt58MM, nil)
	require.NoError(t, err)
	require.NoError(t, job.StartRendering())
	require.NoError(t, job.Complete("/files/a.pdf", "receipts/a.pdf", 2048))

	model := PrintJobModelFromDomain(job)
	assert.Equal(t, "COMPLETED", model.Status)
	assert.Equal(t, "RECEIPT_58MM", model.PaperSize)

	back := model.ToDomain()
	assert.Equal(t, job.ID, back.ID)
	assert.Equal(t, job.Version, back.Version)
	assert.Equal(t, printing.JobStatusCompleted, back.Status)
	assert.Equal(t, "receipts/a.pdf", back.StoragePath)
	assert.Equal(t, int64(2048), back.FileSize)
	assert.True(t, back.HasPDF())
}

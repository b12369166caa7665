package printing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJob(t *testing.T) *PrintJob {
	t.Helper()
	cashier := uuid.New()
	job, err := NewPrintJob(uuid.New(), "BILL-123456", PaperSizeReceipt80MM, &cashier)
	require.NoError(t, err)
	return job
}

func TestNewPrintJob(t *testing.T) {
	billID := uuid.New()

	t.Run("valid job", func(t *testing.T) {
		job, err := NewPrintJob(billID, "BILL-000042", PaperSizeReceipt58MM, nil)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, job.ID)
		assert.Equal(t, billID, job.BillID)
		assert.Equal(t, DocTypeBillReceipt, job.DocumentType)
		assert.Equal(t, PaperSizeReceipt58MM, job.PaperSize)
		assert.Equal(t, JobStatusPending, job.Status)
		assert.Equal(t, 1, job.Copies)
		assert.Nil(t, job.PrintedBy)

		events := job.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePrintJobCreated, events[0].EventType())
		assert.Equal(t, job.ID, events[0].AggregateID())
	})

	t.Run("empty paper size defaults", func(t *testing.T) {
		job, err := NewPrintJob(billID, "BILL-000042", "", nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultPaperSize, job.PaperSize)
	})

	tests := []struct {
		name       string
		billID     uuid.UUID
		billNumber string
		paper      PaperSize
	}{
		{"nil bill", uuid.Nil, "BILL-1", PaperSizeA4},
		{"empty number", billID, "", PaperSizeA4},
		{"bad paper", billID, "BILL-1", PaperSize("LETTER")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewPrintJob(tt.billID, tt.billNumber, tt.paper, nil)
			assert.Error(t, err)
			assert.Nil(t, job)
		})
	}
}

func TestPrintJob_SetCopies(t *testing.T) {
	job := newTestJob(t)

	require.NoError(t, job.SetCopies(3))
	assert.Equal(t, 3, job.Copies)
	require.NoError(t, job.SetCopies(MaxCopies))

	assert.Error(t, job.SetCopies(0))
	assert.Error(t, job.SetCopies(MaxCopies+1))
	assert.Equal(t, MaxCopies, job.Copies)
}

func TestPrintJob_Lifecycle(t *testing.T) {
	t.Run("pending to completed", func(t *testing.T) {
		job := newTestJob(t)
		job.ClearDomainEvents()

		require.NoError(t, job.StartRendering())
		assert.Equal(t, JobStatusRendering, job.Status)

		require.NoError(t, job.Complete("/files/receipt.pdf", "receipts/a.pdf", 2048))
		assert.True(t, job.IsCompleted())
		assert.True(t, job.HasPDF())
		assert.NotNil(t, job.PrintedAt)
		assert.Equal(t, int64(2048), job.FileSize)
		assert.Equal(t, 3, job.GetVersion())

		events := job.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePrintJobCompleted, events[0].EventType())
	})

	t.Run("complete requires rendering", func(t *testing.T) {
		job := newTestJob(t)
		assert.Error(t, job.Complete("/x.pdf", "x.pdf", 1))
	})

	t.Run("complete requires url", func(t *testing.T) {
		job := newTestJob(t)
		require.NoError(t, job.StartRendering())
		assert.Error(t, job.Complete("", "x.pdf", 1))
	})

	t.Run("fail from rendering", func(t *testing.T) {
		job := newTestJob(t)
		require.NoError(t, job.StartRendering())
		require.NoError(t, job.Fail("chrome crashed"))
		assert.True(t, job.IsFailed())
		assert.Equal(t, "chrome crashed", job.ErrorMessage)
		assert.Error(t, job.Fail("again"))
		assert.Error(t, job.StartRendering())
	})
}

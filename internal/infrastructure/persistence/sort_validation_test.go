package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillOrderClause(t *testing.T) {
	tests := []struct {
		name   string
		column string
		dir    string
		want   string
	}{
		{"defaults to newest first", "", "", "created_at DESC, id ASC"},
		{"total ascending", "total_amount", "asc", "total_amount ASC, id ASC"},
		{"direction is case insensitive", "bill_number", " ASC ", "bill_number ASC, id ASC"},
		{"unknown direction is DESC", "customer_name", "sideways", "customer_name DESC, id ASC"},
		{"padded column is accepted", "  subtotal ", "desc", "subtotal DESC, id ASC"},
		{"column names are case sensitive", "TOTAL_AMOUNT", "asc", "created_at ASC, id ASC"},
		{"item columns are not sortable", "quantity", "asc", "created_at ASC, id ASC"},
		{"phone is not sortable", "customer_phone", "", "created_at DESC, id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, billOrderClause(tt.column, tt.dir))
		})
	}
}

func TestBillOrderClause_RejectsInjectedSQL(t *testing.T) {
	payloads := []string{
		"total_amount; DROP TABLE bills;--",
		"bill_number' OR '1'='1",
		"created_at, (SELECT customer_phone FROM bills)",
		"total_amount\n; DELETE FROM bill_items",
		"CASE WHEN 1=1 THEN total_amount ELSE subtotal END",
	}

	for _, payload := range payloads {
		assert.Equal(t, "created_at DESC, id ASC", billOrderClause(payload, payload), "payload %q", payload)
	}
}

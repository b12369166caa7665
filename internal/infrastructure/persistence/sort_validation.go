package persistence

import (
	"strings"
)

// defaultBillSort puts the latest sale first, as the counter history shows it
const defaultBillSort = "created_at"

// billSortColumns are the bill columns a listing may be ordered by.
// Anything else coming from a query string is ignored.
var billSortColumns = map[string]bool{
	"created_at":    true,
	"bill_number":   true,
	"customer_name": true,
	"subtotal":      true,
	"tax_amount":    true,
	"total_amount":  true,
}

// sortDirection maps a requested direction to ASC or DESC, DESC when unknown
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// billOrderClause builds the ORDER BY clause of a bill listing. Ties on the
// chosen column fall back to id so pages do not overlap.
func billOrderClause(column, dir string) string {
	column = strings.TrimSpace(column)
	if !billSortColumns[column] {
		column = defaultBillSort
	}
	return column + " " + sortDirection(dir) + ", id ASC"
}

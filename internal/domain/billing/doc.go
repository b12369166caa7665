// Package billing provides the domain model for restaurant counter bills.
//
// A Bill is created once at the till and never edited afterwards. Its totals
// are recorded as the terminal computed them; the domain only checks that
// they are non-negative and that every line is well formed.
//
// Key Aggregates:
//   - Bill: header (number, customer, totals) plus its line items
//
// Value Objects:
//   - BillItem: one food item line with a snapshot of its name and price
//
// The billing domain integrates with:
//   - Printing domain: receipts and PDF print jobs are produced from a Bill
package billing

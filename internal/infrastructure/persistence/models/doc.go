// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel and AggregateModel
//   - bill.go: bills and bill_items
//   - printing.go: print_jobs
package models

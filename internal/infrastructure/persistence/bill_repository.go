package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/billing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/shared"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// Create inserts the bill header. Items are left to AddItems.
func (r *GormBillRepository) Create(ctx context.Context, bill *billing.Bill) (uuid.UUID, error) {
	model := models.BillModelFromDomain(bill)
	if err := r.db.WithContext(ctx).Omit("Items").Create(model).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert bill: %w", TranslateError(err))
	}
	return model.ID, nil
}

// AddItems inserts all lines of a bill in one statement
func (r *GormBillRepository) AddItems(ctx context.Context, billID uuid.UUID, items []billing.BillItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]*models.BillItemModel, len(items))
	for i, item := range items {
		rows[i] = models.BillItemModelFromDomain(billID, i, item)
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert bill items: %w", TranslateError(err))
	}
	return nil
}

// FindByID loads a bill with its items
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItems).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err)
	}
	return model.ToDomain(), nil
}

// FindByNumber loads the most recent bill carrying the number.
// Numbers repeat once the millisecond counter wraps, so older bills can share one.
func (r *GormBillRepository) FindByNumber(ctx context.Context, billNumber string) (*billing.Bill, error) {
	var model models.BillModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("bill_number = ?", billNumber).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		return nil, TranslateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists bill headers; items are not loaded
func (r *GormBillRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Bill, error) {
	var billModels []models.BillModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BillModel{}), filter)

	if err := query.Find(&billModels).Error; err != nil {
		return nil, err
	}

	bills := make([]billing.Bill, len(billModels))
	for i := range billModels {
		bills[i] = *billModels[i].ToDomain()
	}
	return bills, nil
}

// Count returns the number of bills matching the filter
func (r *GormBillRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.BillModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// orderItems keeps lines in the order they were rung up; rows inserted in one
// statement share created_at on Postgres.
func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("line_no ASC, id ASC")
}

// applyFilter applies filter options to the query
func (r *GormBillRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	return query.Order(billOrderClause(filter.OrderBy, filter.OrderDir))
}

// applyFilterWithoutPagination applies search and date range
func (r *GormBillRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("bill_number LIKE ? OR customer_name LIKE ? OR customer_phone LIKE ?", like, like, like)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	return query
}

// Ensure GormBillRepository implements BillRepository
var _ billing.BillRepository = (*GormBillRepository)(nil)

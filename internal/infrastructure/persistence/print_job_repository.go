package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/domain/printing"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPrintJobRepository implements PrintJobRepository using GORM
type GormPrintJobRepository struct {
	db *gorm.DB
}

// NewGormPrintJobRepository creates a new GormPrintJobRepository
func NewGormPrintJobRepository(db *gorm.DB) *GormPrintJobRepository {
	return &GormPrintJobRepository{db: db}
}

// FindByID finds a job by ID
func (r *GormPrintJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PrintJob, error) {
	var model models.PrintJobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err)
	}
	return model.ToDomain(), nil
}

// FindByBill returns every job for a bill, newest first
func (r *GormPrintJobRepository) FindByBill(ctx context.Context, billID uuid.UUID) ([]*printing.PrintJob, error) {
	var jobModels []models.PrintJobModel
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("created_at DESC").
		Find(&jobModels).Error; err != nil {
		return nil, err
	}

	jobs := make([]*printing.PrintJob, len(jobModels))
	for i := range jobModels {
		jobs[i] = jobModels[i].ToDomain()
	}
	return jobs, nil
}

// Save saves a job (insert or update)
func (r *GormPrintJobRepository) Save(ctx context.Context, job *printing.PrintJob) error {
	model := models.PrintJobModelFromDomain(job)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save print job: %w", TranslateError(err))
	}
	return nil
}

// Ensure GormPrintJobRepository implements PrintJobRepository
var _ printing.PrintJobRepository = (*GormPrintJobRepository)(nil)

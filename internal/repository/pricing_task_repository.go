package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"gorm.io/gorm"
)

type PricingTaskRepository struct {
	db *gorm.DB
}

func NewPricingTaskRepository(db *gorm.DB) *PricingTaskRepository {
	return &PricingTaskRepository{db: db}
}

func (r *PricingTaskRepository) Create(ctx context.Context, task *domain.PricingTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *PricingTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PricingTask, error) {
	var task domain.PricingTask
	err := r.db.WithContext(ctx).Preload("Partner").Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *PricingTaskRepository) List(ctx context.Context, status domain.TaskStatus) ([]domain.PricingTask, error) {
	var tasks []domain.PricingTask
	query := r.db.WithContext(ctx).Preload("Partner")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at ASC").Find(&tasks).Error
	return tasks, err
}

func (r *PricingTaskRepository) Update(ctx context.Context, task *domain.PricingTask) error {
	return r.db.WithContext(ctx).Omit("Partner").Save(task).Error
}

func (r *PricingTaskRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PricingTask{}).
		Where("status = ?", domain.TaskPending).
		Count(&count).Error
	return count, err
}

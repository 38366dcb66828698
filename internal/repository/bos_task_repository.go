package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"gorm.io/gorm"
)

type BOSTaskRepository struct {
	db *gorm.DB
}

func NewBOSTaskRepository(db *gorm.DB) *BOSTaskRepository {
	return &BOSTaskRepository{db: db}
}

func (r *BOSTaskRepository) Create(ctx context.Context, task *domain.BOSTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *BOSTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BOSTask, error) {
	var task domain.BOSTask
	err := r.db.WithContext(ctx).Preload("Partner").Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *BOSTaskRepository) List(ctx context.Context, status domain.TaskStatus) ([]domain.BOSTask, error) {
	var tasks []domain.BOSTask
	query := r.db.WithContext(ctx).Preload("Partner")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at ASC").Find(&tasks).Error
	return tasks, err
}

func (r *BOSTaskRepository) Update(ctx context.Context, task *domain.BOSTask) error {
	return r.db.WithContext(ctx).Omit("Partner").Save(task).Error
}

func (r *BOSTaskRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.BOSTask{}).
		Where("status = ?", domain.TaskPending).
		Count(&count).Error
	return count, err
}

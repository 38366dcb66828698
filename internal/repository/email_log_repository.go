package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"gorm.io/gorm"
)

type EmailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

func (r *EmailLogRepository) Create(ctx context.Context, log *domain.EmailLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *EmailLogRepository) List(ctx context.Context, limit, offset int) ([]domain.EmailLog, int64, error) {
	var logs []domain.EmailLog
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.EmailLog{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&logs).Error
	return logs, total, err
}

func (r *EmailLogRepository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]domain.EmailLog, error) {
	var logs []domain.EmailLog
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

func (r *EmailLogRepository) CountByStatus(ctx context.Context, status domain.EmailLogStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.EmailLog{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"gorm.io/gorm"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(ctx context.Context, location *domain.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *LocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	var location domain.Location
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *LocationRepository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]domain.Location, error) {
	var locations []domain.Location
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("is_head_office DESC, created_at ASC").
		Find(&locations).Error
	return locations, err
}

func (r *LocationRepository) Update(ctx context.Context, location *domain.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

func (r *LocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Location{}, "id = ?", id).Error
}

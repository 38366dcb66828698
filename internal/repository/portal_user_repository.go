package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"gorm.io/gorm"
)

type PortalUserRepository struct {
	db *gorm.DB
}

func NewPortalUserRepository(db *gorm.DB) *PortalUserRepository {
	return &PortalUserRepository{db: db}
}

func (r *PortalUserRepository) Create(ctx context.Context, user *domain.PortalUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PortalUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PortalUser, error) {
	var user domain.PortalUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PortalUserRepository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]domain.PortalUser, error) {
	var users []domain.PortalUser
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *PortalUserRepository) ExistsByPartnerAndEmail(ctx context.Context, partnerID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PortalUser{}).
		Where("partner_id = ? AND email = ?", partnerID, email).
		Count(&count).Error
	return count > 0, err
}

func (r *PortalUserRepository) CountByPartner(ctx context.Context, partnerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PortalUser{}).
		Where("partner_id = ?", partnerID).
		Count(&count).Error
	return count, err
}

func (r *PortalUserRepository) Update(ctx context.Context, user *domain.PortalUser) error {
	return r.db.WithContext(ctx).Save(user).Error
}

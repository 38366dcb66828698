package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PartnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

func (r *PartnerRepository) Create(ctx context.Context, partner *domain.Partner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

func (r *PartnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error) {
	var partner domain.Partner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// GetByIDWithDetails loads the partner together with its locations,
// milestones and portal users
func (r *PartnerRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*domain.Partner, error) {
	var partner domain.Partner
	err := r.db.WithContext(ctx).
		Preload("Locations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Users").
		Where("id = ?", id).
		First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *PartnerRepository) Update(ctx context.Context, partner *domain.Partner) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(partner).Error
}

func (r *PartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Partner{}, "id = ?", id).Error
}

func (r *PartnerRepository) List(ctx context.Context, filter domain.PartnerFilter) ([]domain.Partner, int64, error) {
	var partners []domain.Partner
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Partner{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(firm_name) LIKE ? OR LOWER(owner_name) LIKE ? OR LOWER(email) LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	err := query.Offset(filter.Offset).Limit(limit).Order("created_at DESC").Find(&partners).Error

	return partners, total, err
}

func (r *PartnerRepository) CountByStatus(ctx context.Context) (map[domain.PartnerStatus]int64, error) {
	type row struct {
		Status domain.PartnerStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.Partner{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.PartnerStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

func (r *PartnerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Partner{}).Count(&count).Error
	return count, err
}

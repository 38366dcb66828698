package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MappingRepository stores the admin-maintained SPOC and brand-channel
// lookup tables
type MappingRepository struct {
	db *gorm.DB
}

func NewMappingRepository(db *gorm.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

// CreateSpocMapping inserts a new mapping. A duplicate uncoded SPOC ID
// fails with the driver's unique-constraint error; bulk import relies on
// that to skip duplicate rows.
func (r *MappingRepository) CreateSpocMapping(ctx context.Context, mapping *domain.SpocMapping) error {
	return r.db.WithContext(ctx).Create(mapping).Error
}

// UpsertSpocMapping inserts or replaces the mapping for an uncoded SPOC ID
func (r *MappingRepository) UpsertSpocMapping(ctx context.Context, mapping *domain.SpocMapping) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uncoded_spoc_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "updated_at"}),
	}).Create(mapping).Error
}

func (r *MappingRepository) GetSpocMapping(ctx context.Context, uncodedSpocID string) (*domain.SpocMapping, error) {
	var mapping domain.SpocMapping
	err := r.db.WithContext(ctx).
		Where("uncoded_spoc_id = ?", uncodedSpocID).
		First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *MappingRepository) ListSpocMappings(ctx context.Context) ([]domain.SpocMapping, error) {
	var mappings []domain.SpocMapping
	err := r.db.WithContext(ctx).Order("uncoded_spoc_id ASC").Find(&mappings).Error
	return mappings, err
}

func (r *MappingRepository) DeleteSpocMapping(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.SpocMapping{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateBrandChannelMapping inserts a new mapping; duplicate numeric values
// fail with a unique-constraint error
func (r *MappingRepository) CreateBrandChannelMapping(ctx context.Context, mapping *domain.BrandChannelMapping) error {
	return r.db.WithContext(ctx).Create(mapping).Error
}

// UpsertBrandChannelMapping inserts or replaces the label for a numeric code
func (r *MappingRepository) UpsertBrandChannelMapping(ctx context.Context, mapping *domain.BrandChannelMapping) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "numeric_value"}},
		DoUpdates: clause.AssignmentColumns([]string{"brand_channel", "updated_at"}),
	}).Create(mapping).Error
}

func (r *MappingRepository) GetBrandChannelMapping(ctx context.Context, numericValue int) (*domain.BrandChannelMapping, error) {
	var mapping domain.BrandChannelMapping
	err := r.db.WithContext(ctx).
		Where("numeric_value = ?", numericValue).
		First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *MappingRepository) ListBrandChannelMappings(ctx context.Context) ([]domain.BrandChannelMapping, error) {
	var mappings []domain.BrandChannelMapping
	err := r.db.WithContext(ctx).Order("numeric_value ASC").Find(&mappings).Error
	return mappings, err
}

func (r *MappingRepository) DeleteBrandChannelMapping(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.BrandChannelMapping{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"gorm.io/gorm"
)

type MilestoneRepository struct {
	db *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

func (r *MilestoneRepository) Create(ctx context.Context, milestone *domain.Milestone) error {
	return r.db.WithContext(ctx).Create(milestone).Error
}

func (r *MilestoneRepository) CreateBatch(ctx context.Context, milestones []domain.Milestone) error {
	if len(milestones) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&milestones).Error
}

// GetByPartnerAndName finds a single named milestone on a partner's timeline
func (r *MilestoneRepository) GetByPartnerAndName(ctx context.Context, partnerID uuid.UUID, name string) (*domain.Milestone, error) {
	var milestone domain.Milestone
	err := r.db.WithContext(ctx).
		Where("partner_id = ? AND name = ?", partnerID, name).
		First(&milestone).Error
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

func (r *MilestoneRepository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]domain.Milestone, error) {
	var milestones []domain.Milestone
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("sequence ASC").
		Find(&milestones).Error
	return milestones, err
}

func (r *MilestoneRepository) Update(ctx context.Context, milestone *domain.Milestone) error {
	return r.db.WithContext(ctx).Save(milestone).Error
}

// MilestoneAggregate is the per-name rollup of completed milestones
type MilestoneAggregate struct {
	Name           string
	AverageMinutes float64
	Count          int64
}

// AggregateCompletedByName averages recorded durations across all partners,
// grouped by milestone name
func (r *MilestoneRepository) AggregateCompletedByName(ctx context.Context) ([]MilestoneAggregate, error) {
	var aggregates []MilestoneAggregate
	err := r.db.WithContext(ctx).
		Model(&domain.Milestone{}).
		Select("name, AVG(duration_minutes) AS average_minutes, COUNT(*) AS count").
		Where("status = ?", domain.MilestoneCompleted).
		Group("name").
		Scan(&aggregates).Error
	return aggregates, err
}

// TotalDurationsByCompletedPartner sums milestone durations per partner,
// restricted to partners whose onboarding finished
func (r *MilestoneRepository) TotalDurationsByCompletedPartner(ctx context.Context) ([]int64, error) {
	var totals []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Milestone{}).
		Joins("JOIN partners ON partners.id = milestones.partner_id").
		Where("partners.status = ?", domain.PartnerStatusCompleted).
		Group("milestones.partner_id").
		Pluck("SUM(milestones.duration_minutes)", &totals).Error
	return totals, err
}

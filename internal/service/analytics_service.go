package service

import (
	"context"
	"math"

	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/repository"
	"go.uber.org/zap"
)

// AnalyticsService aggregates the numbers on the admin dashboard
type AnalyticsService struct {
	partnerRepo     *repository.PartnerRepository
	milestoneRepo   *repository.MilestoneRepository
	bosTaskRepo     *repository.BOSTaskRepository
	pricingTaskRepo *repository.PricingTaskRepository
	emailLogRepo    *repository.EmailLogRepository
	logger          *zap.Logger
}

func NewAnalyticsService(
	partnerRepo *repository.PartnerRepository,
	milestoneRepo *repository.MilestoneRepository,
	bosTaskRepo *repository.BOSTaskRepository,
	pricingTaskRepo *repository.PricingTaskRepository,
	emailLogRepo *repository.EmailLogRepository,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		partnerRepo:     partnerRepo,
		milestoneRepo:   milestoneRepo,
		bosTaskRepo:     bosTaskRepo,
		pricingTaskRepo: pricingTaskRepo,
		emailLogRepo:    emailLogRepo,
		logger:          logger,
	}
}

// Summary builds the admin dashboard snapshot. The status breakdown is
// returned in pipeline order so the funnel renders stable.
func (s *AnalyticsService) Summary(ctx context.Context) (*domain.AnalyticsDTO, error) {
	total, err := s.partnerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.partnerRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	pendingBOS, err := s.bosTaskRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	pendingPricing, err := s.pricingTaskRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	sent, err := s.emailLogRepo.CountByStatus(ctx, domain.EmailLogSent)
	if err != nil {
		return nil, err
	}
	simulated, err := s.emailLogRepo.CountByStatus(ctx, domain.EmailLogSimulated)
	if err != nil {
		return nil, err
	}
	failed, err := s.emailLogRepo.CountByStatus(ctx, domain.EmailLogFailed)
	if err != nil {
		return nil, err
	}

	ordered := []domain.PartnerStatus{
		domain.PartnerStatusRegistration,
		domain.PartnerStatusBOSProcessing,
		domain.PartnerStatusPricingSetup,
		domain.PartnerStatusUserCreation,
		domain.PartnerStatusCompleted,
	}
	counts := make([]domain.StatusCount, 0, len(ordered))
	for _, st := range ordered {
		counts = append(counts, domain.StatusCount{Status: st, Count: byStatus[st]})
	}

	completed := byStatus[domain.PartnerStatusCompleted]
	conversionRate := 0
	if total > 0 {
		conversionRate = int(math.Round(float64(completed) / float64(total) * 100))
	}

	avgDays, err := s.averageOnboardingDays(ctx)
	if err != nil {
		return nil, err
	}

	milestoneStats, err := s.milestoneStats(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.AnalyticsDTO{
		TotalPartners:         total,
		CompletedPartners:     completed,
		ConversionRate:        conversionRate,
		AverageOnboardingDays: avgDays,
		ByStatus:              counts,
		MilestoneAnalytics:    milestoneStats,
		PendingBOSTasks:       pendingBOS,
		PendingPricing:        pendingPricing,
		EmailsSent:            sent + simulated,
		EmailsFailed:          failed,
	}, nil
}

// averageOnboardingDays averages the end-to-end milestone durations of
// completed partners, in days to one decimal
func (s *AnalyticsService) averageOnboardingDays(ctx context.Context) (float64, error) {
	totals, err := s.milestoneRepo.TotalDurationsByCompletedPartner(ctx)
	if err != nil {
		return 0, err
	}
	if len(totals) == 0 {
		return 0, nil
	}
	var sum int64
	for _, t := range totals {
		sum += t
	}
	avgMinutes := float64(sum) / float64(len(totals))
	return math.Round(avgMinutes/60/24*10) / 10, nil
}

// milestoneStats reports average time spent in the tracked pipeline stages
func (s *AnalyticsService) milestoneStats(ctx context.Context) ([]domain.MilestoneStat, error) {
	aggregates, err := s.milestoneRepo.AggregateCompletedByName(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]repository.MilestoneAggregate, len(aggregates))
	for _, a := range aggregates {
		byName[a.Name] = a
	}
	tracked := []string{domain.MilestoneRegistration, domain.MilestoneInReview, domain.MilestoneUserCreation}
	stats := make([]domain.MilestoneStat, 0, len(tracked))
	for _, name := range tracked {
		a := byName[name]
		stats = append(stats, domain.MilestoneStat{
			Name:           name,
			AverageMinutes: int(math.Round(a.AverageMinutes)),
			Count:          a.Count,
		})
	}
	return stats, nil
}

package service_test

import (
	"context"
	"testing"

	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/repository"
	"github.com/uncoded/onboarding-api/internal/service"
	"github.com/uncoded/onboarding-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createAnalyticsService(db *gorm.DB) *service.AnalyticsService {
	return service.NewAnalyticsService(
		repository.NewPartnerRepository(db),
		repository.NewMilestoneRepository(db),
		repository.NewBOSTaskRepository(db),
		repository.NewPricingTaskRepository(db),
		repository.NewEmailLogRepository(db),
		zap.NewNop(),
	)
}

func TestAnalyticsService_Summary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createAnalyticsService(db)
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		summary, err := svc.Summary(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, summary.TotalPartners)
		assert.EqualValues(t, 0, summary.CompletedPartners)
		assert.Equal(t, 0, summary.ConversionRate)
		assert.Equal(t, 0.0, summary.AverageOnboardingDays)
		require.Len(t, summary.ByStatus, 5)
		for _, sc := range summary.ByStatus {
			assert.EqualValues(t, 0, sc.Count)
		}
	})

	t.Run("counts partners, tasks and emails", func(t *testing.T) {
		p1 := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)
		testutil.CreateTestPartner(t, db, domain.PartnerStatusBOSProcessing)
		testutil.CreateTestPartner(t, db, domain.PartnerStatusCompleted)

		require.NoError(t, db.Create(&domain.BOSTask{PartnerID: p1.ID, Status: domain.TaskPending}).Error)
		require.NoError(t, db.Create(&domain.PricingTask{PartnerID: p1.ID, Status: domain.TaskPending}).Error)
		require.NoError(t, db.Create(&domain.PricingTask{PartnerID: p1.ID, Status: domain.TaskCompleted}).Error)
		require.NoError(t, db.Create(&domain.EmailLog{PartnerID: p1.ID, Recipient: "a@b.c", Subject: "x", Status: domain.EmailLogSent}).Error)
		require.NoError(t, db.Create(&domain.EmailLog{PartnerID: p1.ID, Recipient: "a@b.c", Subject: "x", Status: domain.EmailLogSimulated}).Error)
		require.NoError(t, db.Create(&domain.EmailLog{PartnerID: p1.ID, Recipient: "a@b.c", Subject: "x", Status: domain.EmailLogFailed}).Error)

		summary, err := svc.Summary(ctx)
		require.NoError(t, err)

		assert.EqualValues(t, 3, summary.TotalPartners)
		assert.EqualValues(t, 1, summary.CompletedPartners)
		assert.Equal(t, 33, summary.ConversionRate)
		assert.EqualValues(t, 1, summary.PendingBOSTasks)
		assert.EqualValues(t, 1, summary.PendingPricing)
		assert.EqualValues(t, 2, summary.EmailsSent)
		assert.EqualValues(t, 1, summary.EmailsFailed)

		byStatus := map[domain.PartnerStatus]int64{}
		for _, sc := range summary.ByStatus {
			byStatus[sc.Status] = sc.Count
		}
		assert.EqualValues(t, 1, byStatus[domain.PartnerStatusRegistration])
		assert.EqualValues(t, 1, byStatus[domain.PartnerStatusBOSProcessing])
		assert.EqualValues(t, 1, byStatus[domain.PartnerStatusCompleted])
	})

	t.Run("averages milestone durations", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createAnalyticsService(db)

		done := testutil.CreateTestPartner(t, db, domain.PartnerStatusCompleted)
		milestones := []domain.Milestone{
			{PartnerID: done.ID, Name: domain.MilestoneRegistration, Status: domain.MilestoneCompleted, Sequence: 0, DurationMinutes: 30},
			{PartnerID: done.ID, Name: domain.MilestoneInReview, Status: domain.MilestoneCompleted, Sequence: 1, DurationMinutes: 2850},
			{PartnerID: done.ID, Name: domain.MilestoneUserCreation, Status: domain.MilestoneCompleted, Sequence: 2, DurationMinutes: 5},
			{PartnerID: done.ID, Name: domain.MilestoneLive, Status: domain.MilestoneCompleted, Sequence: 3, DurationMinutes: 1},
		}
		require.NoError(t, db.Create(&milestones).Error)

		// still in flight, must not count toward the completed average
		open := testutil.CreateTestPartner(t, db, domain.PartnerStatusBOSProcessing)
		require.NoError(t, db.Create(&domain.Milestone{
			PartnerID: open.ID, Name: domain.MilestoneRegistration, Status: domain.MilestoneCompleted, Sequence: 0, DurationMinutes: 30,
		}).Error)

		summary, err := svc.Summary(ctx)
		require.NoError(t, err)

		// 2886 minutes is 2.004 days, rounded to one decimal
		assert.Equal(t, 2.0, summary.AverageOnboardingDays)

		require.Len(t, summary.MilestoneAnalytics, 3)
		stats := map[string]domain.MilestoneStat{}
		for _, s := range summary.MilestoneAnalytics {
			stats[s.Name] = s
		}
		assert.Equal(t, 30, stats[domain.MilestoneRegistration].AverageMinutes)
		assert.EqualValues(t, 2, stats[domain.MilestoneRegistration].Count)
		assert.Equal(t, 2850, stats[domain.MilestoneInReview].AverageMinutes)
		assert.EqualValues(t, 1, stats[domain.MilestoneInReview].Count)
		assert.Equal(t, 5, stats[domain.MilestoneUserCreation].AverageMinutes)
	})
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/mailer"
	"github.com/uncoded/onboarding-api/internal/repository"
	"github.com/uncoded/onboarding-api/internal/service"
	"github.com/uncoded/onboarding-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// capturingMailer records the last message instead of sending it
type capturingMailer struct {
	last mailer.Message
	err  error
}

func (m *capturingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.last = msg
	return m.err
}

func createNotificationService(db *gorm.DB, m mailer.Mailer, simulated bool) *service.NotificationService {
	return service.NewNotificationService(
		repository.NewMappingRepository(db),
		repository.NewEmailLogRepository(db),
		m,
		simulated,
		"https://onboarding.uncoded.example",
		zap.NewNop(),
	)
}

func TestNotificationService_NotifySpocBrandChannel(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the selection form to the mapped SPOC", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		m := &capturingMailer{}
		svc := createNotificationService(db, m, false)

		testutil.CreateTestSpocMapping(t, db, "42")
		testutil.CreateTestBrandChannelMapping(t, db, 1, "Premium Retail")
		testutil.CreateTestBrandChannelMapping(t, db, 2, "Mass Market")
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)

		require.NoError(t, svc.NotifySpocBrandChannel(ctx, partner))

		assert.Equal(t, "ravi.kumar@uncoded.example", m.last.To)
		assert.Equal(t, "Brand channel needed for the partner – Patel Trading Co", m.last.Subject)
		assert.Contains(t, m.last.HTMLBody, "https://onboarding.uncoded.example/public/brand-channel-selection")
		assert.Contains(t, m.last.HTMLBody, partner.ID.String())
		assert.Contains(t, m.last.HTMLBody, "1 - Premium Retail")
		assert.Contains(t, m.last.HTMLBody, "2 - Mass Market")

		var log domain.EmailLog
		require.NoError(t, db.First(&log).Error)
		assert.Equal(t, domain.EmailLogSent, log.Status)
		assert.Equal(t, partner.ID, log.PartnerID)
	})

	t.Run("simulated mode logs instead of sending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createNotificationService(db, mailer.NewSimulationMailer(zap.NewNop()), true)

		testutil.CreateTestSpocMapping(t, db, "42")
		testutil.CreateTestBrandChannelMapping(t, db, 1, "Premium Retail")
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)

		require.NoError(t, svc.NotifySpocBrandChannel(ctx, partner))

		var log domain.EmailLog
		require.NoError(t, db.First(&log).Error)
		assert.Equal(t, domain.EmailLogSimulated, log.Status)
	})

	t.Run("send failure is logged and returned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		m := &capturingMailer{err: errors.New("smtp unreachable")}
		svc := createNotificationService(db, m, false)

		testutil.CreateTestSpocMapping(t, db, "42")
		testutil.CreateTestBrandChannelMapping(t, db, 1, "Premium Retail")
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)

		err := svc.NotifySpocBrandChannel(ctx, partner)
		require.Error(t, err)

		var log domain.EmailLog
		require.NoError(t, db.First(&log).Error)
		assert.Equal(t, domain.EmailLogFailed, log.Status)
		assert.Contains(t, log.Error, "smtp unreachable")
	})

	t.Run("unknown SPOC", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createNotificationService(db, &capturingMailer{}, false)
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)

		err := svc.NotifySpocBrandChannel(ctx, partner)
		assert.ErrorIs(t, err, service.ErrSpocNotFound)
	})

	t.Run("no brand channels configured", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := createNotificationService(db, &capturingMailer{}, false)

		testutil.CreateTestSpocMapping(t, db, "42")
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)

		err := svc.NotifySpocBrandChannel(ctx, partner)
		assert.ErrorIs(t, err, service.ErrNoBrandChannelOptions)
	})
}

func TestNotificationService_ListEmailLogs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createNotificationService(db, mailer.NewSimulationMailer(zap.NewNop()), true)
	ctx := context.Background()

	testutil.CreateTestSpocMapping(t, db, "42")
	testutil.CreateTestBrandChannelMapping(t, db, 1, "Premium Retail")
	partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)

	require.NoError(t, svc.NotifySpocBrandChannel(ctx, partner))
	require.NoError(t, svc.NotifySpocBrandChannel(ctx, partner))

	logs, total, err := svc.ListEmailLogs(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, logs, 2)
}

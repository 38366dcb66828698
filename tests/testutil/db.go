package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/database"
	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a fresh in-memory SQLite database and migrates the
// schema. Every call returns an isolated database, so tests do not need
// per-table cleanup.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "Failed to open in-memory test database")

	// A second connection would see an empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateTestPartner inserts a partner in the given status and returns it
func CreateTestPartner(t *testing.T, db *gorm.DB, status domain.PartnerStatus) *domain.Partner {
	t.Helper()

	partner := &domain.Partner{
		OwnerName:     "Asha Patel",
		FirmName:      "Patel Trading Co",
		Email:         "asha@pateltrading.example",
		Mobile:        "+91-9876543210",
		Country:       domain.CountryIndia,
		Business:      domain.BusinessSales,
		Status:        status,
		UncodedSpocID: "42",
	}
	require.NoError(t, db.Create(partner).Error)
	return partner
}

// CreateTestLocation inserts a head-office location for the partner
func CreateTestLocation(t *testing.T, db *gorm.DB, partnerID uuid.UUID) *domain.Location {
	t.Helper()

	location := &domain.Location{
		PartnerID:    partnerID,
		AddressLine1: "12 MG Road",
		City:         "Mumbai",
		State:        "Maharashtra",
		PostalCode:   "400001",
		IsHeadOffice: true,
	}
	require.NoError(t, db.Create(location).Error)
	return location
}

// CreateTestSpocMapping inserts a SPOC mapping for the given SPOC ID
func CreateTestSpocMapping(t *testing.T, db *gorm.DB, spocID string) *domain.SpocMapping {
	t.Helper()

	mapping := &domain.SpocMapping{
		UncodedSpocID: spocID,
		Name:          "Ravi Kumar",
		Email:         "ravi.kumar@uncoded.example",
	}
	require.NoError(t, db.Create(mapping).Error)
	return mapping
}

// CreateTestBrandChannelMapping inserts a numeric code to label mapping
func CreateTestBrandChannelMapping(t *testing.T, db *gorm.DB, code int, channel string) *domain.BrandChannelMapping {
	t.Helper()

	mapping := &domain.BrandChannelMapping{
		NumericValue: code,
		BrandChannel: channel,
	}
	require.NoError(t, db.Create(mapping).Error)
	return mapping
}

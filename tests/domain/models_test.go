package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Demo mode and the whole test suite run against SQLite, so the schema the
// gorm tags generate has to stay portable; postgres-only column defaults
// belong in the migrations, not the models.
func TestAutoMigrate_SQLite(t *testing.T) {
	db := testutil.SetupTestDB(t)

	tables := []string{
		"partners", "locations", "portal_users", "milestones",
		"bos_tasks", "pricing_tasks", "spoc_mappings",
		"brand_channel_mappings", "email_logs",
	}
	for _, table := range tables {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestBaseModel_AssignsIDOnCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)

	mapping := domain.SpocMapping{UncodedSpocID: "7", Name: "Dana Ahmed", Email: "dana@uncoded.example"}
	require.NoError(t, db.Create(&mapping).Error)
	assert.NotEqual(t, uuid.Nil, mapping.ID)
}

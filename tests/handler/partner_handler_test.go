package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/http/handler"
	"github.com/uncoded/onboarding-api/internal/mailer"
	"github.com/uncoded/onboarding-api/internal/repository"
	"github.com/uncoded/onboarding-api/internal/service"
	"github.com/uncoded/onboarding-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServices(db *gorm.DB) (*service.OnboardingService, *service.NotificationService) {
	logger := zap.NewNop()
	mappingRepo := repository.NewMappingRepository(db)
	notifications := service.NewNotificationService(
		mappingRepo,
		repository.NewEmailLogRepository(db),
		mailer.NewSimulationMailer(logger),
		true,
		"http://localhost:8080",
		logger,
	)
	onboarding := service.NewOnboardingService(
		repository.NewPartnerRepository(db),
		repository.NewLocationRepository(db),
		repository.NewMilestoneRepository(db),
		repository.NewBOSTaskRepository(db),
		repository.NewPricingTaskRepository(db),
		repository.NewPortalUserRepository(db),
		mappingRepo,
		notifications,
		logger,
	)
	return onboarding, notifications
}

func newPartnerRouter(db *gorm.DB) chi.Router {
	onboarding, notifications := newTestServices(db)
	h := handler.NewPartnerHandler(onboarding, notifications, zap.NewNop())

	r := chi.NewRouter()
	r.Route("/partners", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Register)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/milestones", h.Milestones)
		r.Get("/{id}/brand-channel-options", h.BrandChannelOptions)
		r.Post("/{id}/notify-spoc", h.NotifySpoc)
		r.Post("/{id}/locations", h.AddLocation)
		r.Get("/{id}/users", h.ListUsers)
		r.Post("/{id}/users", h.CreateUser)
		r.Post("/{id}/finalize", h.Finalize)
	})
	return r
}

func registrationBody() map[string]interface{} {
	return map[string]interface{}{
		"ownerName":          "Asha Patel",
		"firmName":           "Patel Trading Co",
		"email":              "asha@pateltrading.example",
		"mobile":             "+91-9876543210",
		"country":            "india",
		"business":           "sales",
		"uncodedSpocId":      "42",
		"panNumber":          "ABCDE1234F",
		"gstinNumber":        "27ABCDE1234F1Z5",
		"paymentModes":       []string{"upi"},
		"invoicingFrequency": "weekly",
		"invoicingType":      "consolidated",
		"locations": []map[string]interface{}{
			{"addressLine1": "12 MG Road", "city": "Pune", "state": "Maharashtra", "postalCode": "411001"},
		},
	}
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPartnerHandler_Register(t *testing.T) {
	t.Run("valid payload returns 201", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateTestSpocMapping(t, db, "42")
		testutil.CreateTestBrandChannelMapping(t, db, 1, "Premium Retail")
		router := newPartnerRouter(db)

		w := postJSON(t, router, "/partners", registrationBody())
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var dto domain.PartnerDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.Equal(t, domain.PartnerStatusRegistration, dto.Status)
		assert.Equal(t, "Patel Trading Co", dto.FirmName)
		assert.Len(t, dto.Milestones, 4)
	})

	t.Run("invalid mobile for country returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		router := newPartnerRouter(db)

		body := registrationBody()
		body["mobile"] = "9876543210"

		w := postJSON(t, router, "/partners", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "mobile")
	})

	t.Run("missing locations returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		router := newPartnerRouter(db)

		body := registrationBody()
		delete(body, "locations")

		w := postJSON(t, router, "/partners", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		router := newPartnerRouter(db)

		req := httptest.NewRequest(http.MethodPost, "/partners", strings.NewReader("{not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPartnerHandler_GetAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newPartnerRouter(db)

	partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusBOSProcessing)

	t.Run("get by id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/partners/"+partner.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var dto domain.PartnerDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.Equal(t, partner.ID, dto.ID)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/partners/00000000-0000-0000-0000-000000000001", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/partners/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list with status filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/partners?status=bos-processing", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Items []domain.PartnerDTO `json:"items"`
			Total int64               `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.EqualValues(t, 1, resp.Total)
	})

	t.Run("unknown status filter returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/partners?status=archived", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPartnerHandler_BrandChannelOptions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newPartnerRouter(db)

	testutil.CreateTestBrandChannelMapping(t, db, 1, "Premium Retail")
	testutil.CreateTestBrandChannelMapping(t, db, 2, "Mass Market")
	partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/partners/%s/brand-channel-options", partner.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		PartnerID     string                          `json:"partnerId"`
		UncodedSpocID string                          `json:"uncodedSpocId"`
		Options       []domain.BrandChannelMappingDTO `json:"options"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, partner.ID.String(), resp.PartnerID)
	assert.Equal(t, "42", resp.UncodedSpocID)
	require.Len(t, resp.Options, 2)
	assert.Equal(t, 1, resp.Options[0].NumericValue)
	assert.Equal(t, "Premium Retail", resp.Options[0].BrandChannel)
}

func TestPartnerHandler_Milestones(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newPartnerRouter(db)

	testutil.CreateTestSpocMapping(t, db, "42")
	testutil.CreateTestBrandChannelMapping(t, db, 1, "Premium Retail")
	w := postJSON(t, router, "/partners", registrationBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.PartnerDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/partners/%s/milestones", created.ID), nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)

	require.Equal(t, http.StatusOK, w2.Code)
	var milestones []domain.MilestoneDTO
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &milestones))
	require.Len(t, milestones, 4)
	assert.Equal(t, domain.MilestoneRegistration, milestones[0].Name)
	assert.Equal(t, domain.MilestoneCompleted, milestones[0].Status)

	t.Run("unknown partner returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/partners/00000000-0000-0000-0000-000000000001/milestones", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPartnerHandler_NotifySpoc(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newPartnerRouter(db)

	testutil.CreateTestSpocMapping(t, db, "42")
	testutil.CreateTestBrandChannelMapping(t, db, 1, "Premium Retail")
	partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/partners/%s/notify-spoc", partner.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var logs []domain.EmailLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.EmailLogSimulated, logs[0].Status)

	t.Run("unmapped SPOC returns 400", func(t *testing.T) {
		other := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)
		other.UncodedSpocID = "999"
		require.NoError(t, db.Save(other).Error)

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/partners/%s/notify-spoc", other.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPartnerHandler_UsersAndFinalize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := newPartnerRouter(db)

	partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusUserCreation)
	partner.MarginConfigured = true
	require.NoError(t, db.Save(partner).Error)
	location := testutil.CreateTestLocation(t, db, partner.ID)

	userBody := map[string]interface{}{
		"name":       "Asha Patel",
		"email":      "asha@pateltrading.example",
		"role":       "owner",
		"locationId": location.ID.String(),
	}

	t.Run("create portal user", func(t *testing.T) {
		w := postJSON(t, router, fmt.Sprintf("/partners/%s/users", partner.ID), userBody)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("duplicate user returns 409", func(t *testing.T) {
		w := postJSON(t, router, fmt.Sprintf("/partners/%s/users", partner.ID), userBody)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("list users", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/partners/%s/users", partner.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var users []domain.PortalUserDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
		assert.Len(t, users, 1)
	})

	t.Run("finalize moves partner to completed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/partners/%s/finalize", partner.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var dto domain.PartnerDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.Equal(t, domain.PartnerStatusCompleted, dto.Status)
	})

	t.Run("finalize replay returns 409", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/partners/%s/finalize", partner.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

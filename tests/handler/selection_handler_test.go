package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/http/handler"
	"github.com/uncoded/onboarding-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newSelectionRouter(db *gorm.DB) chi.Router {
	onboarding, _ := newTestServices(db)
	h := handler.NewSelectionHandler(onboarding, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/public/brand-channel-selection", h.Select)
	return r
}

func postSelection(t *testing.T, router http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/public/brand-channel-selection", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSelectionHandler_Select(t *testing.T) {
	t.Run("valid selection renders confirmation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateTestBrandChannelMapping(t, db, 1, "Premium Retail")
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)
		router := newSelectionRouter(db)

		w := postSelection(t, router, url.Values{
			"partnerId":    {partner.ID.String()},
			"brandChannel": {"1"},
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Brand Channel Selection Confirmed")
		assert.Contains(t, w.Body.String(), partner.ID.String())
		assert.Contains(t, w.Body.String(), "Premium Retail")

		var updated domain.Partner
		require.NoError(t, db.First(&updated, "id = ?", partner.ID).Error)
		assert.Equal(t, domain.PartnerStatusBOSProcessing, updated.Status)
		assert.Equal(t, "Premium Retail", updated.BrandChannel)
	})

	t.Run("replayed form renders conflict page", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateTestBrandChannelMapping(t, db, 1, "Premium Retail")
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)
		router := newSelectionRouter(db)

		form := url.Values{
			"partnerId":    {partner.ID.String()},
			"brandChannel": {"1"},
		}
		first := postSelection(t, router, form)
		require.Equal(t, http.StatusOK, first.Code)

		second := postSelection(t, router, form)
		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Contains(t, second.Body.String(), "selection was already processed")
	})

	t.Run("unmapped numeric code renders error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateTestBrandChannelMapping(t, db, 1, "Premium Retail")
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)
		router := newSelectionRouter(db)

		w := postSelection(t, router, url.Values{
			"partnerId":    {partner.ID.String()},
			"brandChannel": {"99"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Error Processing Selection")
	})

	t.Run("non-numeric code renders bad request", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)
		router := newSelectionRouter(db)

		w := postSelection(t, router, url.Values{
			"partnerId":    {partner.ID.String()},
			"brandChannel": {"franchise"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid brand channel code")
	})

	t.Run("unknown partner renders not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		router := newSelectionRouter(db)

		w := postSelection(t, router, url.Values{
			"partnerId":    {"00000000-0000-0000-0000-000000000001"},
			"brandChannel": {"1"},
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "partner not found")
	})

	t.Run("malformed partner id renders bad request", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		router := newSelectionRouter(db)

		w := postSelection(t, router, url.Values{
			"partnerId":    {"not-a-uuid"},
			"brandChannel": {"1"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid partner ID")
	})

	t.Run("missing brand channel renders bad request", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusRegistration)
		router := newSelectionRouter(db)

		w := postSelection(t, router, url.Values{
			"partnerId": {partner.ID.String()},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "no brand channel selected")
	})
}

package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/http/handler"
	"github.com/uncoded/onboarding-api/internal/repository"
	"github.com/uncoded/onboarding-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTaskRouter(db *gorm.DB) chi.Router {
	onboarding, _ := newTestServices(db)
	bos := handler.NewBOSHandler(onboarding, zap.NewNop())
	pricing := handler.NewPricingHandler(onboarding, zap.NewNop())

	r := chi.NewRouter()
	r.Route("/bos/tasks", func(r chi.Router) {
		r.Get("/", bos.List)
		r.Post("/{id}/complete", bos.Complete)
	})
	r.Route("/pricing/tasks", func(r chi.Router) {
		r.Get("/", pricing.List)
		r.Post("/{id}/complete", pricing.Complete)
	})
	return r
}

func createBOSTask(t *testing.T, db *gorm.DB, partner *domain.Partner) *domain.BOSTask {
	t.Helper()
	task := &domain.BOSTask{PartnerID: partner.ID, Status: domain.TaskPending}
	require.NoError(t, repository.NewBOSTaskRepository(db).Create(context.Background(), task))
	return task
}

func createPricingTask(t *testing.T, db *gorm.DB, partner *domain.Partner) *domain.PricingTask {
	t.Helper()
	task := &domain.PricingTask{PartnerID: partner.ID, Status: domain.TaskPending}
	require.NoError(t, repository.NewPricingTaskRepository(db).Create(context.Background(), task))
	return task
}

func TestBOSHandler(t *testing.T) {
	t.Run("list pending tasks", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusBOSProcessing)
		createBOSTask(t, db, partner)
		router := newTaskRouter(db)

		req := httptest.NewRequest(http.MethodGet, "/bos/tasks?status=pending", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var tasks []domain.TaskDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
		require.Len(t, tasks, 1)
		assert.Equal(t, partner.ID, tasks[0].PartnerID)
		assert.Equal(t, domain.TaskPending, tasks[0].Status)
	})

	t.Run("complete moves partner to pricing setup", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusBOSProcessing)
		task := createBOSTask(t, db, partner)
		router := newTaskRouter(db)

		body := map[string]interface{}{
			"planId":        "plan-standard",
			"featureRights": []string{"catalog", "orders"},
			"assignedTo":    "Meera Joshi",
			"notes":         "documents verified",
		}
		w := postJSON(t, router, fmt.Sprintf("/bos/tasks/%s/complete", task.ID), body)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var dto domain.TaskDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.Equal(t, domain.TaskCompleted, dto.Status)
		assert.Equal(t, "Meera Joshi", dto.AssignedTo)
		assert.Equal(t, "plan-standard", dto.PlanID)

		var updated domain.Partner
		require.NoError(t, db.First(&updated, "id = ?", partner.ID).Error)
		assert.Equal(t, domain.PartnerStatusPricingSetup, updated.Status)
		assert.Equal(t, "plan-standard", updated.PlanID)
		assert.Equal(t, domain.StringList{"catalog", "orders"}, updated.FeatureRights)
	})

	t.Run("missing plan returns validation error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusBOSProcessing)
		task := createBOSTask(t, db, partner)
		router := newTaskRouter(db)

		w := postJSON(t, router, fmt.Sprintf("/bos/tasks/%s/complete", task.ID), map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "planId")
	})

	t.Run("double completion returns 409", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusBOSProcessing)
		task := createBOSTask(t, db, partner)
		router := newTaskRouter(db)

		path := fmt.Sprintf("/bos/tasks/%s/complete", task.ID)
		body := map[string]interface{}{"planId": "plan-standard", "featureRights": []string{"catalog"}}
		first := postJSON(t, router, path, body)
		require.Equal(t, http.StatusOK, first.Code)

		second := postJSON(t, router, path, body)
		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Contains(t, second.Body.String(), "already completed")
	})

	t.Run("unknown task returns 404", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		router := newTaskRouter(db)

		body := map[string]interface{}{"planId": "plan-standard", "featureRights": []string{"catalog"}}
		w := postJSON(t, router, "/bos/tasks/00000000-0000-0000-0000-000000000001/complete", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPricingHandler(t *testing.T) {
	t.Run("complete records margin and advances partner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusPricingSetup)
		task := createPricingTask(t, db, partner)
		router := newTaskRouter(db)

		body := map[string]interface{}{"marginPct": 12.5, "notes": "standard tier"}
		w := postJSON(t, router, fmt.Sprintf("/pricing/tasks/%s/complete", task.ID), body)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var dto domain.TaskDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.Equal(t, domain.TaskCompleted, dto.Status)
		assert.Equal(t, 12.5, dto.MarginPct)

		var updated domain.Partner
		require.NoError(t, db.First(&updated, "id = ?", partner.ID).Error)
		assert.Equal(t, domain.PartnerStatusUserCreation, updated.Status)
		assert.True(t, updated.MarginConfigured)
	})

	t.Run("missing margin returns validation error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusPricingSetup)
		task := createPricingTask(t, db, partner)
		router := newTaskRouter(db)

		w := postJSON(t, router, fmt.Sprintf("/pricing/tasks/%s/complete", task.ID), map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "marginPct")
	})

	t.Run("margin above 100 rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusPricingSetup)
		task := createPricingTask(t, db, partner)
		router := newTaskRouter(db)

		body := map[string]interface{}{"marginPct": 150.0}
		w := postJSON(t, router, fmt.Sprintf("/pricing/tasks/%s/complete", task.ID), body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list filters by status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		partner := testutil.CreateTestPartner(t, db, domain.PartnerStatusPricingSetup)
		createPricingTask(t, db, partner)
		router := newTaskRouter(db)

		req := httptest.NewRequest(http.MethodGet, "/pricing/tasks?status=completed", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var tasks []domain.TaskDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
		assert.Empty(t, tasks)
	})
}

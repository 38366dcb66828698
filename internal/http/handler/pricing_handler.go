package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/service"
	"go.uber.org/zap"
)

// PricingHandler serves the margin-configuration work queue
type PricingHandler struct {
	onboarding *service.OnboardingService
	logger     *zap.Logger
}

func NewPricingHandler(onboarding *service.OnboardingService, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		onboarding: onboarding,
		logger:     logger,
	}
}

// @Summary List pricing tasks
// @Description List margin-configuration tasks, optionally filtered by status
// @Tags Pricing
// @Produce json
// @Param status query string false "Filter by status (pending, completed)"
// @Success 200 {array} domain.TaskDTO
// @Router /pricing/tasks [get]
func (h *PricingHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.TaskStatus(r.URL.Query().Get("status"))

	tasks, err := h.onboarding.ListPricingTasks(r.Context(), status)
	if err != nil {
		h.logger.Error("Failed to list pricing tasks", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list pricing tasks")
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

// @Summary Complete pricing task
// @Description Record the configured margin and move the partner to user creation
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body domain.CompletePricingTaskRequest true "Margin details"
// @Success 200 {object} domain.TaskDTO
// @Failure 409 {object} domain.APIError
// @Router /pricing/tasks/{id}/complete [post]
func (h *PricingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req domain.CompletePricingTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.onboarding.CompletePricingTask(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Task not found")
		case errors.Is(err, service.ErrTaskAlreadyCompleted):
			respondWithError(w, http.StatusConflict, "Task already completed")
		case errors.Is(err, service.ErrInvalidTransition):
			respondWithError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Failed to complete pricing task", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to complete pricing task")
		}
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

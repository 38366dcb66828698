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

// BOSHandler serves the back-office review work queue
type BOSHandler struct {
	onboarding *service.OnboardingService
	logger     *zap.Logger
}

func NewBOSHandler(onboarding *service.OnboardingService, logger *zap.Logger) *BOSHandler {
	return &BOSHandler{
		onboarding: onboarding,
		logger:     logger,
	}
}

// @Summary List BOS tasks
// @Description List back-office review tasks, optionally filtered by status
// @Tags BOS
// @Produce json
// @Param status query string false "Filter by status (pending, completed)"
// @Success 200 {array} domain.TaskDTO
// @Router /bos/tasks [get]
func (h *BOSHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.TaskStatus(r.URL.Query().Get("status"))

	tasks, err := h.onboarding.ListBOSTasks(r.Context(), status)
	if err != nil {
		h.logger.Error("Failed to list BOS tasks", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list BOS tasks")
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

// @Summary Complete BOS task
// @Description Close a back-office review and move the partner to pricing setup
// @Tags BOS
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body domain.CompleteBOSTaskRequest true "Completion details"
// @Success 200 {object} domain.TaskDTO
// @Failure 409 {object} domain.APIError
// @Router /bos/tasks/{id}/complete [post]
func (h *BOSHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req domain.CompleteBOSTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.onboarding.CompleteBOSTask(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Task not found")
		case errors.Is(err, service.ErrTaskAlreadyCompleted):
			respondWithError(w, http.StatusConflict, "Task already completed")
		case errors.Is(err, service.ErrInvalidTransition):
			respondWithError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Failed to complete BOS task", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to complete BOS task")
		}
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

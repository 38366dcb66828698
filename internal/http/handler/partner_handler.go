package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/service"
	"go.uber.org/zap"
)

type PartnerHandler struct {
	onboarding    *service.OnboardingService
	notifications *service.NotificationService
	logger        *zap.Logger
}

func NewPartnerHandler(onboarding *service.OnboardingService, notifications *service.NotificationService, logger *zap.Logger) *PartnerHandler {
	return &PartnerHandler{
		onboarding:    onboarding,
		notifications: notifications,
		logger:        logger,
	}
}

// @Summary Register partner
// @Description Submit the registration wizard payload and start onboarding
// @Tags Partners
// @Accept json
// @Produce json
// @Param partner body domain.RegisterPartnerRequest true "Registration payload"
// @Success 201 {object} domain.PartnerDTO
// @Failure 400 {object} domain.APIError
// @Router /partners [post]
func (h *PartnerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterPartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.onboarding.RegisterPartner(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to register partner", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to register partner")
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// @Summary List partners
// @Description List partners with optional filters
// @Tags Partners
// @Produce json
// @Param status query string false "Filter by onboarding status"
// @Param country query string false "Filter by country"
// @Param search query string false "Search in firm name, owner name and email"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} domain.PartnerDTO
// @Router /partners [get]
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.PartnerFilter{
		Status:  domain.PartnerStatus(r.URL.Query().Get("status")),
		Country: domain.Country(r.URL.Query().Get("country")),
		Search:  r.URL.Query().Get("search"),
	}
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	partners, total, err := h.onboarding.ListPartners(r.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to list partners", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list partners")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": partners,
		"total": total,
	})
}

// @Summary Get partner
// @Description Get a partner with locations, milestones and portal users
// @Tags Partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} domain.PartnerDTO
// @Failure 404 {object} domain.APIError
// @Router /partners/{id} [get]
func (h *PartnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid partner ID")
		return
	}

	dto, err := h.onboarding.GetPartner(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Partner not found")
			return
		}
		h.logger.Error("Failed to get partner", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get partner")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// @Summary Brand channel options
// @Description List the configured brand channels with their numeric codes
// @Tags Partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} domain.APIError
// @Router /partners/{id}/brand-channel-options [get]
func (h *PartnerHandler) BrandChannelOptions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid partner ID")
		return
	}

	partner, options, err := h.onboarding.BrandChannelOptions(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Partner not found")
		case errors.Is(err, service.ErrNoBrandChannelOptions):
			respondWithError(w, http.StatusNotFound, "No brand channels configured")
		default:
			h.logger.Error("Failed to load brand channel options", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to load brand channel options")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"partnerId":     partner.ID,
		"uncodedSpocId": partner.UncodedSpocID,
		"options":       options,
	})
}

// @Summary List milestones
// @Description List a partner's onboarding timeline in pipeline order
// @Tags Partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {array} domain.MilestoneDTO
// @Failure 404 {object} domain.APIError
// @Router /partners/{id}/milestones [get]
func (h *PartnerHandler) Milestones(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid partner ID")
		return
	}

	milestones, err := h.onboarding.ListMilestones(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Partner not found")
			return
		}
		h.logger.Error("Failed to list milestones", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list milestones")
		return
	}

	respondJSON(w, http.StatusOK, milestones)
}

// @Summary Resend SPOC notification
// @Description Send the brand-channel selection email to the partner's SPOC again
// @Tags Partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} domain.APIError
// @Router /partners/{id}/notify-spoc [post]
func (h *PartnerHandler) NotifySpoc(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid partner ID")
		return
	}

	if err := h.onboarding.ResendSpocNotification(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Partner not found")
		case errors.Is(err, service.ErrSpocNotFound):
			respondWithError(w, http.StatusBadRequest, "No SPOC mapped for this partner")
		case errors.Is(err, service.ErrNoBrandChannelOptions):
			respondWithError(w, http.StatusBadRequest, "No brand channels configured")
		default:
			h.logger.Error("Failed to notify SPOC", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to notify SPOC")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// @Summary Add partner location
// @Description Attach another place of business to a partner
// @Tags Partners
// @Accept json
// @Produce json
// @Param id path string true "Partner ID"
// @Param location body domain.CreateLocationRequest true "Location"
// @Success 201 {object} domain.LocationDTO
// @Failure 404 {object} domain.APIError
// @Router /partners/{id}/locations [post]
func (h *PartnerHandler) AddLocation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid partner ID")
		return
	}

	var req domain.CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.onboarding.AddLocation(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Partner not found")
			return
		}
		h.logger.Error("Failed to add location", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to add location")
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// @Summary Create portal user
// @Description Add a portal account during the user-creation stage
// @Tags Partners
// @Accept json
// @Produce json
// @Param id path string true "Partner ID"
// @Param user body domain.CreatePortalUserRequest true "Portal user"
// @Success 201 {object} domain.PortalUserDTO
// @Failure 409 {object} domain.APIError
// @Router /partners/{id}/users [post]
func (h *PartnerHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid partner ID")
		return
	}

	var req domain.CreatePortalUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.onboarding.CreatePortalUser(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Partner not found")
		case errors.Is(err, service.ErrConflict):
			respondWithError(w, http.StatusConflict, "A user with this email already exists for the partner")
		case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrMarginNotConfigured):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create portal user", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to create portal user")
		}
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// @Summary List portal users
// @Description List a partner's portal accounts
// @Tags Partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {array} domain.PortalUserDTO
// @Router /partners/{id}/users [get]
func (h *PartnerHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid partner ID")
		return
	}

	users, err := h.onboarding.ListPortalUsers(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list portal users", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list portal users")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// @Summary Finalize user creation
// @Description Complete onboarding once at least one portal account exists
// @Tags Partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} domain.PartnerDTO
// @Failure 409 {object} domain.APIError
// @Router /partners/{id}/finalize [post]
func (h *PartnerHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid partner ID")
		return
	}

	dto, err := h.onboarding.FinalizeUserCreation(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Partner not found")
		case errors.Is(err, service.ErrInvalidTransition):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to finalize user creation", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to finalize user creation")
		}
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

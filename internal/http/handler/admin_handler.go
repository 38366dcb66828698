package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/service"
	"go.uber.org/zap"
)

// AdminHandler serves mapping management, analytics and the email audit log
type AdminHandler struct {
	mappings      *service.MappingService
	analytics     *service.AnalyticsService
	notifications *service.NotificationService
	maxImportSize int64
	logger        *zap.Logger
}

func NewAdminHandler(
	mappings *service.MappingService,
	analytics *service.AnalyticsService,
	notifications *service.NotificationService,
	maxImportSize int64,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		mappings:      mappings,
		analytics:     analytics,
		notifications: notifications,
		maxImportSize: maxImportSize,
		logger:        logger,
	}
}

// @Summary List SPOC mappings
// @Tags Admin
// @Produce json
// @Success 200 {array} domain.SpocMappingDTO
// @Router /admin/spoc-mappings [get]
func (h *AdminHandler) ListSpocMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.mappings.ListSpocMappings(r.Context())
	if err != nil {
		h.logger.Error("Failed to list SPOC mappings", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list SPOC mappings")
		return
	}
	respondJSON(w, http.StatusOK, mappings)
}

// @Summary Upsert SPOC mapping
// @Tags Admin
// @Accept json
// @Produce json
// @Param mapping body domain.SpocMappingRequest true "Mapping"
// @Success 200 {object} domain.SpocMappingDTO
// @Router /admin/spoc-mappings [put]
func (h *AdminHandler) UpsertSpocMapping(w http.ResponseWriter, r *http.Request) {
	var req domain.SpocMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.mappings.UpsertSpocMapping(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to upsert SPOC mapping", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to upsert SPOC mapping")
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// @Summary Import SPOC mappings
// @Description Bulk import "SPOC ID,Name,Email ID" CSV. Bad rows are skipped, not fatal.
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} domain.ImportSummary
// @Router /admin/spoc-mappings/import [post]
func (h *AdminHandler) ImportSpocMappings(w http.ResponseWriter, r *http.Request) {
	file, err := h.importFile(w, r)
	if err != nil {
		return
	}
	defer file.Close()

	summary, err := h.mappings.ImportSpocMappings(r.Context(), file)
	if err != nil {
		h.logger.Error("SPOC mapping import failed", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "Failed to parse CSV file")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// @Summary Delete SPOC mapping
// @Tags Admin
// @Param id path string true "Mapping ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Router /admin/spoc-mappings/{id} [delete]
func (h *AdminHandler) DeleteSpocMapping(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid mapping ID")
		return
	}
	if err := h.mappings.DeleteSpocMapping(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Mapping not found")
			return
		}
		h.logger.Error("Failed to delete SPOC mapping", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete SPOC mapping")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary SPOC mapping CSV template
// @Tags Admin
// @Produce plain
// @Success 200 {string} string
// @Router /admin/spoc-mappings/template [get]
func (h *AdminHandler) SpocMappingTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="spoc-mappings.csv"`)
	_, _ = w.Write([]byte(service.SpocMappingCSVTemplate))
}

// @Summary List brand channel mappings
// @Tags Admin
// @Produce json
// @Success 200 {array} domain.BrandChannelMappingDTO
// @Router /admin/brand-channel-mappings [get]
func (h *AdminHandler) ListBrandChannelMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.mappings.ListBrandChannelMappings(r.Context())
	if err != nil {
		h.logger.Error("Failed to list brand channel mappings", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list brand channel mappings")
		return
	}
	respondJSON(w, http.StatusOK, mappings)
}

// @Summary Upsert brand channel mapping
// @Tags Admin
// @Accept json
// @Produce json
// @Param mapping body domain.BrandChannelMappingRequest true "Mapping"
// @Success 200 {object} domain.BrandChannelMappingDTO
// @Router /admin/brand-channel-mappings [put]
func (h *AdminHandler) UpsertBrandChannelMapping(w http.ResponseWriter, r *http.Request) {
	var req domain.BrandChannelMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	dto, err := h.mappings.UpsertBrandChannelMapping(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to upsert brand channel mapping", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to upsert brand channel mapping")
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// @Summary Import brand channel mappings
// @Description Bulk import "Numeric Value,Brand Channel" CSV. Bad rows are skipped, not fatal.
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} domain.ImportSummary
// @Router /admin/brand-channel-mappings/import [post]
func (h *AdminHandler) ImportBrandChannelMappings(w http.ResponseWriter, r *http.Request) {
	file, err := h.importFile(w, r)
	if err != nil {
		return
	}
	defer file.Close()

	summary, err := h.mappings.ImportBrandChannelMappings(r.Context(), file)
	if err != nil {
		h.logger.Error("Brand channel mapping import failed", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "Failed to parse CSV file")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// @Summary Delete brand channel mapping
// @Tags Admin
// @Param id path string true "Mapping ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Router /admin/brand-channel-mappings/{id} [delete]
func (h *AdminHandler) DeleteBrandChannelMapping(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid mapping ID")
		return
	}
	if err := h.mappings.DeleteBrandChannelMapping(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Mapping not found")
			return
		}
		h.logger.Error("Failed to delete brand channel mapping", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete brand channel mapping")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Brand channel mapping CSV template
// @Tags Admin
// @Produce plain
// @Success 200 {string} string
// @Router /admin/brand-channel-mappings/template [get]
func (h *AdminHandler) BrandChannelMappingTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="brand-channel-mappings.csv"`)
	_, _ = w.Write([]byte(service.BrandChannelMappingCSVTemplate))
}

// @Summary Onboarding analytics
// @Description Partner counts by stage, pending work and email dispatch stats
// @Tags Admin
// @Produce json
// @Success 200 {object} domain.AnalyticsDTO
// @Router /admin/analytics [get]
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	dto, err := h.analytics.Summary(r.Context())
	if err != nil {
		h.logger.Error("Failed to build analytics", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build analytics")
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// @Summary List email logs
// @Description Dispatch audit trail, newest first
// @Tags Admin
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} domain.EmailLogDTO
// @Router /admin/email-logs [get]
func (h *AdminHandler) EmailLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	logs, total, err := h.notifications.ListEmailLogs(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list email logs", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list email logs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": logs,
		"total": total,
	})
}

// importFile pulls the uploaded CSV out of the multipart form. Errors are
// already written to the response when the returned error is non-nil.
func (h *AdminHandler) importFile(w http.ResponseWriter, r *http.Request) (multipart.File, error) {
	if err := r.ParseMultipartForm(h.maxImportSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field")
		return nil, err
	}
	return file, nil
}

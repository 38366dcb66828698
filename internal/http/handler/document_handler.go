package handler

import (
	"net/http"

	"github.com/uncoded/onboarding-api/internal/service"
	"go.uber.org/zap"
)

// DocumentHandler accepts cheque uploads for banking detail extraction
type DocumentHandler struct {
	documents     *service.DocumentService
	maxUploadSize int64
	logger        *zap.Logger
}

func NewDocumentHandler(documents *service.DocumentService, maxUploadSize int64, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents:     documents,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// @Summary Upload cheque
// @Description Store a cancelled cheque image and extract banking details from it
// @Tags Documents
// @Accept mpfd
// @Produce json
// @Param file formData file true "Cheque image"
// @Success 200 {object} domain.ChequeExtractionDTO
// @Failure 400 {object} domain.APIError
// @Router /documents/cheque [post]
func (h *DocumentHandler) UploadCheque(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	dto, err := h.documents.ProcessCheque(r.Context(), header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("Cheque processing failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to process cheque")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

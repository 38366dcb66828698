package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/service"
	"go.uber.org/zap"
)

// SelectionHandler serves the public brand-channel selection callback the
// SPOC email form posts to. Responses are HTML because they render in the
// SPOC's browser, not in an API client.
type SelectionHandler struct {
	onboarding *service.OnboardingService
	logger     *zap.Logger
}

func NewSelectionHandler(onboarding *service.OnboardingService, logger *zap.Logger) *SelectionHandler {
	return &SelectionHandler{
		onboarding: onboarding,
		logger:     logger,
	}
}

var selectionSuccessTmpl = template.Must(template.New("selectionSuccess").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Brand Channel Selection Confirmed</title>
  <style>
    body { font-family: Arial, sans-serif; text-align: center; padding: 50px; }
    .success { color: #28a745; font-size: 24px; margin-bottom: 20px; }
    .details { background: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px auto; max-width: 500px; }
  </style>
</head>
<body>
  <div class="success">Brand Channel Selection Confirmed</div>
  <div class="details">
    <h3>Selection Details:</h3>
    <p><strong>Partner ID:</strong> {{.PartnerID}}</p>
    <p><strong>Selected Brand Channel:</strong> {{.BrandChannel}}</p>
    <p><strong>Status:</strong> Updated successfully</p>
  </div>
  <p>Thank you! The partner has been moved to the next stage of processing.</p>
  <p><em>You can close this window.</em></p>
</body>
</html>`))

var selectionErrorTmpl = template.Must(template.New("selectionError").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Error</title>
  <style>
    body { font-family: Arial, sans-serif; text-align: center; padding: 50px; }
    .error { color: #dc3545; font-size: 24px; margin-bottom: 20px; }
  </style>
</head>
<body>
  <div class="error">Error Processing Selection</div>
  <p>There was an error processing your brand channel selection.</p>
  <p>Please contact support or try again.</p>
  <p><strong>Error:</strong> {{.Message}}</p>
</body>
</html>`))

// Select handles the form post from the SPOC email. A replayed or stale
// form cannot move the partner backwards; it renders the error page instead.
func (h *SelectionHandler) Select(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, "invalid form submission")
		return
	}

	partnerID, err := uuid.Parse(r.PostFormValue("partnerId"))
	if err != nil {
		h.renderError(w, http.StatusBadRequest, "invalid partner ID")
		return
	}
	rawChannel := r.PostFormValue("brandChannel")
	if rawChannel == "" {
		h.renderError(w, http.StatusBadRequest, "no brand channel selected")
		return
	}
	numericCode, err := strconv.Atoi(rawChannel)
	if err != nil {
		h.renderError(w, http.StatusBadRequest, "invalid brand channel code")
		return
	}

	dto, err := h.onboarding.SelectBrandChannel(r.Context(), partnerID, numericCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			h.renderError(w, http.StatusNotFound, "partner not found")
		case errors.Is(err, service.ErrInvalidBrandChannel), errors.Is(err, service.ErrNoBrandChannelOptions):
			h.renderError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			h.renderError(w, http.StatusConflict, "selection was already processed")
		default:
			h.logger.Error("Brand channel selection failed",
				zap.String("partner_id", partnerID.String()),
				zap.Error(err))
			h.renderError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = selectionSuccessTmpl.Execute(w, map[string]string{
		"PartnerID":    partnerID.String(),
		"BrandChannel": dto.BrandChannel,
	})
}

func (h *SelectionHandler) renderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = selectionErrorTmpl.Execute(w, map[string]string{"Message": message})
}

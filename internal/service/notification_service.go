package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/mailer"
	"github.com/uncoded/onboarding-api/internal/mapper"
	"github.com/uncoded/onboarding-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationService sends the SPOC brand-channel request email and keeps
// the dispatch audit trail
type NotificationService struct {
	mappingRepo  *repository.MappingRepository
	emailLogRepo *repository.EmailLogRepository
	mailer       mailer.Mailer
	simulated    bool
	baseURL      string
	logger       *zap.Logger
}

func NewNotificationService(
	mappingRepo *repository.MappingRepository,
	emailLogRepo *repository.EmailLogRepository,
	m mailer.Mailer,
	simulated bool,
	baseURL string,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		mappingRepo:  mappingRepo,
		emailLogRepo: emailLogRepo,
		mailer:       m,
		simulated:    simulated,
		baseURL:      baseURL,
		logger:       logger,
	}
}

var spocEmailTmpl = template.Must(template.New("spocEmail").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #667eea; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
    .content { background: #f9f9f9; padding: 20px; border-radius: 0 0 8px 8px; }
    .partner-details { background: white; padding: 15px; border-radius: 5px; margin: 15px 0; }
    .form-section { background: white; padding: 20px; border-radius: 5px; margin: 15px 0; }
    .button { background: #667eea; color: white; padding: 12px 24px; border: none; border-radius: 5px; }
    select { width: 100%; padding: 8px; border: 1px solid #ddd; border-radius: 4px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Brand Channel Selection Required</h1>
      <p>Hello {{.SpocName}},</p>
    </div>
    <div class="content">
      <p>A new partner <strong>{{.FirmName}}</strong> has registered and requires brand channel assignment.</p>
      <div class="partner-details">
        <h3>Partner Details:</h3>
        <p><strong>Partner ID:</strong> {{.PartnerID}}</p>
        <p><strong>Owner Name:</strong> {{.OwnerName}}</p>
        <p><strong>Firm Name:</strong> {{.FirmName}}</p>
        <p><strong>Email:</strong> {{.Email}}</p>
        <p><strong>Mobile:</strong> {{.Mobile}}</p>
        <p><strong>Country:</strong> {{.Country}}</p>
      </div>
      <div class="form-section">
        <h3>Please Select Brand Channel:</h3>
        <form action="{{.CallbackURL}}" method="POST">
          <input type="hidden" name="partnerId" value="{{.PartnerID}}">
          <select name="brandChannel" required>
            <option value="">Select Brand Channel</option>
            {{range .Options}}<option value="{{.NumericValue}}">{{.NumericValue}} - {{.BrandChannel}}</option>{{end}}
          </select>
          <p><button type="submit" class="button">Submit Brand Channel Selection</button></p>
        </form>
      </div>
      <p><em>Your selection will be automatically updated in the system.</em></p>
    </div>
  </div>
</body>
</html>`))

type spocEmailData struct {
	SpocName    string
	PartnerID   string
	OwnerName   string
	FirmName    string
	Email       string
	Mobile      string
	Country     string
	CallbackURL string
	Options     []domain.BrandChannelMapping
}

// NotifySpocBrandChannel emails the mapped SPOC a form listing every
// configured brand channel by its numeric code. Every attempt, successful
// or not, lands in the email log.
func (s *NotificationService) NotifySpocBrandChannel(ctx context.Context, partner *domain.Partner) error {
	mapping, err := s.mappingRepo.GetSpocMapping(ctx, partner.UncodedSpocID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSpocNotFound
		}
		return err
	}

	options, err := s.mappingRepo.ListBrandChannelMappings(ctx)
	if err != nil {
		return err
	}
	if len(options) == 0 {
		return ErrNoBrandChannelOptions
	}

	subject := fmt.Sprintf("Brand channel needed for the partner – %s", partner.FirmName)

	var body bytes.Buffer
	err = spocEmailTmpl.Execute(&body, spocEmailData{
		SpocName:    mapping.Name,
		PartnerID:   partner.ID.String(),
		OwnerName:   partner.OwnerName,
		FirmName:    partner.FirmName,
		Email:       partner.Email,
		Mobile:      partner.Mobile,
		Country:     string(partner.Country),
		CallbackURL: s.baseURL + "/public/brand-channel-selection",
		Options:     options,
	})
	if err != nil {
		return fmt.Errorf("failed to render SPOC email: %w", err)
	}

	sendErr := s.mailer.Send(ctx, mailer.Message{
		To:       mapping.Email,
		Subject:  subject,
		HTMLBody: body.String(),
	})

	logEntry := &domain.EmailLog{
		PartnerID: partner.ID,
		Recipient: mapping.Email,
		Subject:   subject,
	}
	switch {
	case sendErr != nil:
		logEntry.Status = domain.EmailLogFailed
		logEntry.Error = sendErr.Error()
	case s.simulated:
		logEntry.Status = domain.EmailLogSimulated
	default:
		logEntry.Status = domain.EmailLogSent
	}
	if err := s.emailLogRepo.Create(ctx, logEntry); err != nil {
		s.logger.Warn("Failed to record email log", zap.Error(err))
	}

	if sendErr != nil {
		return fmt.Errorf("failed to send SPOC email: %w", sendErr)
	}

	s.logger.Info("SPOC notification dispatched",
		zap.String("partner_id", partner.ID.String()),
		zap.String("recipient", mapping.Email),
		zap.Bool("simulated", s.simulated))
	return nil
}

// ListEmailLogs returns the dispatch audit trail, newest first
func (s *NotificationService) ListEmailLogs(ctx context.Context, limit, offset int) ([]domain.EmailLogDTO, int64, error) {
	logs, total, err := s.emailLogRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]domain.EmailLogDTO, 0, len(logs))
	for i := range logs {
		dtos = append(dtos, mapper.ToEmailLogDTO(&logs[i]))
	}
	return dtos, total, nil
}

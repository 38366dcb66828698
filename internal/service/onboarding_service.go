package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/mapper"
	"github.com/uncoded/onboarding-api/internal/repository"
	"github.com/uncoded/onboarding-api/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Fixed duration recorded on the Registration milestone, which is created
// already completed.
const registrationDurationMinutes = 30

// Fallback durations used when a milestone never recorded a start time.
// Go-live is never started explicitly, so it always records 1 minute.
const (
	userCreationFallbackMinutes = 5
	goLiveDurationMinutes       = 1
	inReviewFloorMinutes        = 1
)

// OnboardingService owns the partner onboarding pipeline. Partner status
// moves forward only: registration, bos-processing, pricing-setup,
// user-creation, completed.
type OnboardingService struct {
	partnerRepo     *repository.PartnerRepository
	locationRepo    *repository.LocationRepository
	milestoneRepo   *repository.MilestoneRepository
	bosTaskRepo     *repository.BOSTaskRepository
	pricingTaskRepo *repository.PricingTaskRepository
	portalUserRepo  *repository.PortalUserRepository
	mappingRepo     *repository.MappingRepository
	notifications   *NotificationService
	logger          *zap.Logger
}

func NewOnboardingService(
	partnerRepo *repository.PartnerRepository,
	locationRepo *repository.LocationRepository,
	milestoneRepo *repository.MilestoneRepository,
	bosTaskRepo *repository.BOSTaskRepository,
	pricingTaskRepo *repository.PricingTaskRepository,
	portalUserRepo *repository.PortalUserRepository,
	mappingRepo *repository.MappingRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *OnboardingService {
	return &OnboardingService{
		partnerRepo:     partnerRepo,
		locationRepo:    locationRepo,
		milestoneRepo:   milestoneRepo,
		bosTaskRepo:     bosTaskRepo,
		pricingTaskRepo: pricingTaskRepo,
		portalUserRepo:  portalUserRepo,
		mappingRepo:     mappingRepo,
		notifications:   notifications,
		logger:          logger,
	}
}

// RegisterPartner creates a partner from the registration wizard submit,
// seeds the milestone timeline and notifies the SPOC that a brand channel
// must be chosen. Notification failure does not fail the registration.
func (s *OnboardingService) RegisterPartner(ctx context.Context, req *domain.RegisterPartnerRequest) (*domain.PartnerDTO, error) {
	partner := &domain.Partner{
		OwnerName:          req.OwnerName,
		FirmName:           req.FirmName,
		Email:              req.Email,
		Mobile:             req.Mobile,
		Country:            req.Country,
		Business:           req.Business,
		Status:             domain.PartnerStatusRegistration,
		UncodedSpocID:      req.UncodedSpocID,
		PANNumber:          req.PANNumber,
		GSTINNumber:        req.GSTINNumber,
		TaxID:              req.TaxID,
		PaymentModes:       req.PaymentModes,
		PaymentModeDetails: req.PaymentModeDetails,
		InvoicingFrequency: req.InvoicingFrequency,
		InvoicingType:      req.InvoicingType,
	}
	if req.TaxID != "" {
		partner.TaxIDType = validation.TaxIDType(req.Country)
	}
	if partner.ID == uuid.Nil {
		partner.ID = uuid.New()
	}
	if req.BankingDetails != nil {
		partner.BankingDetails = domain.JSONMap{
			"accountNumber": req.BankingDetails.AccountNumber,
			"ifscCode":      req.BankingDetails.IFSCCode,
			"bankName":      req.BankingDetails.BankName,
			"chequeUrl":     req.BankingDetails.ChequeURL,
		}
	}

	// Resolve the SPOC mapping up front so the partner record carries the
	// contact it was routed to
	if mapping, err := s.mappingRepo.GetSpocMapping(ctx, req.UncodedSpocID); err == nil {
		partner.SpocName = mapping.Name
		partner.SpocEmail = mapping.Email
	}

	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}

	for i := range req.Locations {
		loc := &domain.Location{
			PartnerID:    partner.ID,
			AddressLine1: req.Locations[i].AddressLine1,
			AddressLine2: req.Locations[i].AddressLine2,
			City:         req.Locations[i].City,
			State:        req.Locations[i].State,
			PostalCode:   req.Locations[i].PostalCode,
			IsHeadOffice: req.Locations[i].IsHeadOffice,
		}
		// first location is the head office unless the caller marked one
		if i == 0 && !anyHeadOffice(req.Locations) {
			loc.IsHeadOffice = true
		}
		if err := s.locationRepo.Create(ctx, loc); err != nil {
			return nil, fmt.Errorf("failed to create location: %w", err)
		}
	}

	if err := s.seedMilestones(ctx, partner.ID); err != nil {
		return nil, fmt.Errorf("failed to seed milestones: %w", err)
	}

	// the back-office review task is opened immediately; the queue fills
	// before the SPOC has picked a brand channel
	task := &domain.BOSTask{
		PartnerID: partner.ID,
		Status:    domain.TaskPending,
	}
	if err := s.bosTaskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create BOS task: %w", err)
	}

	if err := s.notifications.NotifySpocBrandChannel(ctx, partner); err != nil {
		// registration stands even when the SPOC email cannot be sent
		s.logger.Warn("SPOC notification failed",
			zap.String("partner_id", partner.ID.String()),
			zap.String("uncoded_spoc_id", partner.UncodedSpocID),
			zap.Error(err))
	}

	s.logger.Info("Partner registered",
		zap.String("partner_id", partner.ID.String()),
		zap.String("firm_name", partner.FirmName),
		zap.String("country", string(partner.Country)))

	return s.getPartnerDTO(ctx, partner.ID)
}

func anyHeadOffice(locations []domain.LocationRequest) bool {
	for _, l := range locations {
		if l.IsHeadOffice {
			return true
		}
	}
	return false
}

// seedMilestones creates the four timeline entries. Registration completes
// immediately; everything else starts pending.
func (s *OnboardingService) seedMilestones(ctx context.Context, partnerID uuid.UUID) error {
	now := time.Now().UTC()
	milestones := make([]domain.Milestone, 0, len(domain.MilestoneOrder))
	for i, name := range domain.MilestoneOrder {
		m := domain.Milestone{
			PartnerID: partnerID,
			Name:      name,
			Status:    domain.MilestonePending,
			Sequence:  i,
		}
		if name == domain.MilestoneRegistration {
			m.Status = domain.MilestoneCompleted
			m.StartedAt = &now
			m.CompletedAt = &now
			m.DurationMinutes = registrationDurationMinutes
		}
		milestones = append(milestones, m)
	}
	return s.milestoneRepo.CreateBatch(ctx, milestones)
}

// SelectBrandChannel records the SPOC's choice and moves the partner into
// bos-processing. The numeric code must resolve in the brand-channel
// mapping table; the partner is left untouched otherwise.
func (s *OnboardingService) SelectBrandChannel(ctx context.Context, partnerID uuid.UUID, numericCode int) (*domain.PartnerDTO, error) {
	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	mapping, err := s.mappingRepo.GetBrandChannelMapping(ctx, numericCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidBrandChannel
		}
		return nil, err
	}

	partner.BrandChannel = mapping.BrandChannel
	if err := s.advanceStatus(partner, domain.PartnerStatusBOSProcessing); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to update partner: %w", err)
	}

	if err := s.startMilestone(ctx, partner.ID, domain.MilestoneInReview); err != nil {
		return nil, err
	}

	s.logger.Info("Brand channel selected",
		zap.String("partner_id", partner.ID.String()),
		zap.Int("numeric_value", numericCode),
		zap.String("brand_channel", mapping.BrandChannel))

	return s.getPartnerDTO(ctx, partner.ID)
}

// CompleteBOSTask closes a back-office review, opens the pricing task and
// moves the partner into pricing-setup. The reviewer must assign a plan and
// at least one feature right; both are copied onto the partner. Completing
// the same task twice returns ErrTaskAlreadyCompleted.
func (s *OnboardingService) CompleteBOSTask(ctx context.Context, taskID uuid.UUID, req *domain.CompleteBOSTaskRequest) (*domain.TaskDTO, error) {
	task, err := s.bosTaskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if task.Status == domain.TaskCompleted {
		return nil, ErrTaskAlreadyCompleted
	}

	now := time.Now().UTC()
	task.Status = domain.TaskCompleted
	task.CompletedAt = &now
	task.PlanID = req.PlanID
	task.FeatureRights = domain.StringList(req.FeatureRights)
	task.AssignedTo = req.AssignedTo
	task.Notes = req.Notes
	if err := s.bosTaskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update BOS task: %w", err)
	}

	partner, err := s.partnerRepo.GetByID(ctx, task.PartnerID)
	if err != nil {
		return nil, err
	}
	partner.PlanID = req.PlanID
	partner.FeatureRights = domain.StringList(req.FeatureRights)
	if err := s.advanceStatus(partner, domain.PartnerStatusPricingSetup); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to update partner: %w", err)
	}

	pricingTask := &domain.PricingTask{
		PartnerID: partner.ID,
		Status:    domain.TaskPending,
	}
	if err := s.pricingTaskRepo.Create(ctx, pricingTask); err != nil {
		return nil, fmt.Errorf("failed to create pricing task: %w", err)
	}

	if err := s.completeMilestone(ctx, partner.ID, domain.MilestoneInReview, inReviewFloorMinutes); err != nil {
		return nil, err
	}

	s.logger.Info("BOS task completed",
		zap.String("task_id", task.ID.String()),
		zap.String("partner_id", partner.ID.String()))

	dto := mapper.ToBOSTaskDTO(task)
	return &dto, nil
}

// CompletePricingTask records the configured margin and moves the partner
// into user-creation
func (s *OnboardingService) CompletePricingTask(ctx context.Context, taskID uuid.UUID, req *domain.CompletePricingTaskRequest) (*domain.TaskDTO, error) {
	task, err := s.pricingTaskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if task.Status == domain.TaskCompleted {
		return nil, ErrTaskAlreadyCompleted
	}

	now := time.Now().UTC()
	task.Status = domain.TaskCompleted
	task.CompletedAt = &now
	task.MarginPct = req.MarginPct
	task.Notes = req.Notes
	if err := s.pricingTaskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update pricing task: %w", err)
	}

	partner, err := s.partnerRepo.GetByID(ctx, task.PartnerID)
	if err != nil {
		return nil, err
	}
	partner.MarginConfigured = true
	if err := s.advanceStatus(partner, domain.PartnerStatusUserCreation); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to update partner: %w", err)
	}

	// the review milestone may still be open if the BOS step only
	// partially persisted; close it before user creation begins
	if err := s.completeMilestone(ctx, partner.ID, domain.MilestoneInReview, inReviewFloorMinutes); err != nil {
		return nil, err
	}
	if err := s.startMilestone(ctx, partner.ID, domain.MilestoneUserCreation); err != nil {
		return nil, err
	}

	s.logger.Info("Pricing task completed",
		zap.String("task_id", task.ID.String()),
		zap.String("partner_id", partner.ID.String()),
		zap.Float64("margin_pct", req.MarginPct))

	dto := mapper.ToPricingTaskDTO(task)
	return &dto, nil
}

// CreatePortalUser adds a portal account. The partner must have reached
// user-creation, which implies the margin is configured.
func (s *OnboardingService) CreatePortalUser(ctx context.Context, partnerID uuid.UUID, req *domain.CreatePortalUserRequest) (*domain.PortalUserDTO, error) {
	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if partner.Status.Rank() < domain.PartnerStatusUserCreation.Rank() {
		return nil, ErrInvalidTransition
	}
	if !partner.MarginConfigured {
		return nil, ErrMarginNotConfigured
	}

	loc, err := s.locationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown location", ErrInvalidInput)
		}
		return nil, err
	}
	if loc.PartnerID != partnerID {
		return nil, fmt.Errorf("%w: location belongs to another partner", ErrInvalidInput)
	}

	exists, err := s.portalUserRepo.ExistsByPartnerAndEmail(ctx, partnerID, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	user := &domain.PortalUser{
		PartnerID:  partnerID,
		LocationID: req.LocationID,
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		IsActive:   true,
	}
	if err := s.portalUserRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create portal user: %w", err)
	}

	s.logger.Info("Portal user created",
		zap.String("partner_id", partnerID.String()),
		zap.String("email", req.Email),
		zap.String("role", string(req.Role)))

	dto := mapper.ToPortalUserDTO(user)
	return &dto, nil
}

// FinalizeUserCreation closes onboarding once at least one portal account
// exists. The partner goes live and the remaining milestones complete.
func (s *OnboardingService) FinalizeUserCreation(ctx context.Context, partnerID uuid.UUID) (*domain.PartnerDTO, error) {
	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if partner.Status.Rank() < domain.PartnerStatusUserCreation.Rank() {
		return nil, ErrInvalidTransition
	}

	count, err := s.portalUserRepo.CountByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: at least one portal user required", ErrInvalidInput)
	}

	if err := s.advanceStatus(partner, domain.PartnerStatusCompleted); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to update partner: %w", err)
	}

	if err := s.completeMilestone(ctx, partnerID, domain.MilestoneUserCreation, userCreationFallbackMinutes); err != nil {
		return nil, err
	}
	if err := s.completeMilestone(ctx, partnerID, domain.MilestoneLive, goLiveDurationMinutes); err != nil {
		return nil, err
	}

	s.logger.Info("Partner onboarding completed",
		zap.String("partner_id", partnerID.String()),
		zap.String("firm_name", partner.FirmName))

	return s.getPartnerDTO(ctx, partnerID)
}

// GetPartner returns a partner with locations, milestones and users
func (s *OnboardingService) GetPartner(ctx context.Context, id uuid.UUID) (*domain.PartnerDTO, error) {
	return s.getPartnerDTO(ctx, id)
}

// ListPartners returns partners matching the filter
func (s *OnboardingService) ListPartners(ctx context.Context, filter domain.PartnerFilter) ([]domain.PartnerDTO, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	partners, total, err := s.partnerRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]domain.PartnerDTO, 0, len(partners))
	for i := range partners {
		dtos = append(dtos, mapper.ToPartnerDTO(&partners[i]))
	}
	return dtos, total, nil
}

// ListBOSTasks returns back-office tasks, optionally filtered by status
func (s *OnboardingService) ListBOSTasks(ctx context.Context, status domain.TaskStatus) ([]domain.TaskDTO, error) {
	tasks, err := s.bosTaskRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.TaskDTO, 0, len(tasks))
	for i := range tasks {
		dtos = append(dtos, mapper.ToBOSTaskDTO(&tasks[i]))
	}
	return dtos, nil
}

// ListPricingTasks returns pricing tasks, optionally filtered by status
func (s *OnboardingService) ListPricingTasks(ctx context.Context, status domain.TaskStatus) ([]domain.TaskDTO, error) {
	tasks, err := s.pricingTaskRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.TaskDTO, 0, len(tasks))
	for i := range tasks {
		dtos = append(dtos, mapper.ToPricingTaskDTO(&tasks[i]))
	}
	return dtos, nil
}

// ListPortalUsers returns the portal accounts of a partner
func (s *OnboardingService) ListPortalUsers(ctx context.Context, partnerID uuid.UUID) ([]domain.PortalUserDTO, error) {
	users, err := s.portalUserRepo.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.PortalUserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, mapper.ToPortalUserDTO(&users[i]))
	}
	return dtos, nil
}

// AddLocation attaches another place of business to a partner
func (s *OnboardingService) AddLocation(ctx context.Context, partnerID uuid.UUID, req *domain.CreateLocationRequest) (*domain.LocationDTO, error) {
	if _, err := s.partnerRepo.GetByID(ctx, partnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	loc := &domain.Location{
		PartnerID:    partnerID,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		IsHeadOffice: req.IsHeadOffice,
	}
	if err := s.locationRepo.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	dto := mapper.ToLocationDTO(loc)
	return &dto, nil
}

// BrandChannelOptions returns the partner together with every configured
// brand channel. The options come from the shared mapping table; an empty
// table means the selection page cannot be rendered.
func (s *OnboardingService) BrandChannelOptions(ctx context.Context, partnerID uuid.UUID) (*domain.PartnerDTO, []domain.BrandChannelMappingDTO, error) {
	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	mappings, err := s.mappingRepo.ListBrandChannelMappings(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(mappings) == 0 {
		return nil, nil, ErrNoBrandChannelOptions
	}
	options := make([]domain.BrandChannelMappingDTO, 0, len(mappings))
	for i := range mappings {
		options = append(options, mapper.ToBrandChannelMappingDTO(&mappings[i]))
	}
	dto := mapper.ToPartnerDTO(partner)
	return &dto, options, nil
}

// ResendSpocNotification sends the brand-channel email again, for the case
// where the original mail was lost or the SPOC mapping was fixed afterwards
func (s *OnboardingService) ResendSpocNotification(ctx context.Context, partnerID uuid.UUID) error {
	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.notifications.NotifySpocBrandChannel(ctx, partner)
}

// ListMilestones returns the onboarding timeline of a partner
func (s *OnboardingService) ListMilestones(ctx context.Context, partnerID uuid.UUID) ([]domain.MilestoneDTO, error) {
	if _, err := s.partnerRepo.GetByID(ctx, partnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	milestones, err := s.milestoneRepo.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.MilestoneDTO, 0, len(milestones))
	for i := range milestones {
		dtos = append(dtos, mapper.ToMilestoneDTO(&milestones[i]))
	}
	return dtos, nil
}

// advanceStatus moves the partner forward in the pipeline. A target at or
// behind the current stage is rejected so replayed callbacks cannot regress
// a partner.
func (s *OnboardingService) advanceStatus(partner *domain.Partner, target domain.PartnerStatus) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, target)
	}
	if target.Rank() <= partner.Status.Rank() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, partner.Status, target)
	}
	partner.Status = target
	return nil
}

// startMilestone marks a milestone in-progress. Completed milestones are
// left untouched so replays cannot reopen them.
func (s *OnboardingService) startMilestone(ctx context.Context, partnerID uuid.UUID, name string) error {
	m, err := s.milestoneRepo.GetByPartnerAndName(ctx, partnerID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if m.Status == domain.MilestoneCompleted {
		return nil
	}
	now := time.Now().UTC()
	m.Status = domain.MilestoneInProgress
	m.StartedAt = &now
	return s.milestoneRepo.Update(ctx, m)
}

// completeMilestone marks a milestone done. Duration is measured from the
// recorded start; a milestone that never started, or finished within the
// same minute, records fallbackMinutes instead.
func (s *OnboardingService) completeMilestone(ctx context.Context, partnerID uuid.UUID, name string, fallbackMinutes int) error {
	m, err := s.milestoneRepo.GetByPartnerAndName(ctx, partnerID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if m.Status == domain.MilestoneCompleted {
		return nil
	}

	now := time.Now().UTC()
	minutes := fallbackMinutes
	if m.StartedAt != nil {
		if elapsed := int(now.Sub(*m.StartedAt).Minutes()); elapsed > 0 {
			minutes = elapsed
		}
	}

	m.Status = domain.MilestoneCompleted
	m.CompletedAt = &now
	m.DurationMinutes = minutes
	return s.milestoneRepo.Update(ctx, m)
}

func (s *OnboardingService) getPartnerDTO(ctx context.Context, id uuid.UUID) (*domain.PartnerDTO, error) {
	partner, err := s.partnerRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToPartnerDTO(partner)
	return &dto, nil
}

package mapper

import (
	"time"

	"github.com/uncoded/onboarding-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeFormat)
	return &s
}

// ToPartnerDTO converts Partner to PartnerDTO
func ToPartnerDTO(partner *domain.Partner) domain.PartnerDTO {
	dto := domain.PartnerDTO{
		ID:                 partner.ID,
		OwnerName:          partner.OwnerName,
		FirmName:           partner.FirmName,
		Email:              partner.Email,
		Mobile:             partner.Mobile,
		Country:            partner.Country,
		Business:           partner.Business,
		Status:             partner.Status,
		UncodedSpocID:      partner.UncodedSpocID,
		SpocName:           partner.SpocName,
		SpocEmail:          partner.SpocEmail,
		BrandChannel:       partner.BrandChannel,
		PANNumber:          partner.PANNumber,
		GSTINNumber:        partner.GSTINNumber,
		TaxID:              partner.TaxID,
		TaxIDType:          partner.TaxIDType,
		PaymentModes:       partner.PaymentModes,
		PaymentModeDetails: partner.PaymentModeDetails,
		InvoicingFrequency: partner.InvoicingFrequency,
		InvoicingType:      partner.InvoicingType,
		BankingDetails:     partner.BankingDetails,
		PlanID:             partner.PlanID,
		FeatureRights:      partner.FeatureRights,
		MarginConfigured:   partner.MarginConfigured,
		CreatedAt:          partner.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:          partner.UpdatedAt.UTC().Format(timeFormat),
	}
	for i := range partner.Locations {
		dto.Locations = append(dto.Locations, ToLocationDTO(&partner.Locations[i]))
	}
	for i := range partner.Milestones {
		dto.Milestones = append(dto.Milestones, ToMilestoneDTO(&partner.Milestones[i]))
	}
	for i := range partner.Users {
		dto.Users = append(dto.Users, ToPortalUserDTO(&partner.Users[i]))
	}
	return dto
}

// ToLocationDTO converts Location to LocationDTO
func ToLocationDTO(location *domain.Location) domain.LocationDTO {
	return domain.LocationDTO{
		ID:           location.ID,
		PartnerID:    location.PartnerID,
		AddressLine1: location.AddressLine1,
		AddressLine2: location.AddressLine2,
		City:         location.City,
		State:        location.State,
		PostalCode:   location.PostalCode,
		IsHeadOffice: location.IsHeadOffice,
	}
}

// ToMilestoneDTO converts Milestone to MilestoneDTO
func ToMilestoneDTO(milestone *domain.Milestone) domain.MilestoneDTO {
	return domain.MilestoneDTO{
		ID:              milestone.ID,
		PartnerID:       milestone.PartnerID,
		Name:            milestone.Name,
		Status:          milestone.Status,
		Sequence:        milestone.Sequence,
		StartedAt:       formatTimePtr(milestone.StartedAt),
		CompletedAt:     formatTimePtr(milestone.CompletedAt),
		DurationMinutes: milestone.DurationMinutes,
	}
}

// ToPortalUserDTO converts PortalUser to PortalUserDTO
func ToPortalUserDTO(user *domain.PortalUser) domain.PortalUserDTO {
	return domain.PortalUserDTO{
		ID:         user.ID,
		PartnerID:  user.PartnerID,
		LocationID: user.LocationID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		IsActive:   user.IsActive,
		CreatedAt:  user.CreatedAt.UTC().Format(timeFormat),
	}
}

// ToBOSTaskDTO converts a BOSTask to the shared task DTO
func ToBOSTaskDTO(task *domain.BOSTask) domain.TaskDTO {
	dto := domain.TaskDTO{
		ID:            task.ID,
		PartnerID:     task.PartnerID,
		Status:        task.Status,
		AssignedTo:    task.AssignedTo,
		PlanID:        task.PlanID,
		FeatureRights: task.FeatureRights,
		Notes:         task.Notes,
		CompletedAt:   formatTimePtr(task.CompletedAt),
		CreatedAt:     task.CreatedAt.UTC().Format(timeFormat),
	}
	if task.Partner != nil {
		partnerDTO := ToPartnerDTO(task.Partner)
		dto.Partner = &partnerDTO
	}
	return dto
}

// ToPricingTaskDTO converts a PricingTask to the shared task DTO
func ToPricingTaskDTO(task *domain.PricingTask) domain.TaskDTO {
	dto := domain.TaskDTO{
		ID:          task.ID,
		PartnerID:   task.PartnerID,
		Status:      task.Status,
		MarginPct:   task.MarginPct,
		Notes:       task.Notes,
		CompletedAt: formatTimePtr(task.CompletedAt),
		CreatedAt:   task.CreatedAt.UTC().Format(timeFormat),
	}
	if task.Partner != nil {
		partnerDTO := ToPartnerDTO(task.Partner)
		dto.Partner = &partnerDTO
	}
	return dto
}

// ToSpocMappingDTO converts SpocMapping to SpocMappingDTO
func ToSpocMappingDTO(mapping *domain.SpocMapping) domain.SpocMappingDTO {
	return domain.SpocMappingDTO{
		ID:            mapping.ID,
		UncodedSpocID: mapping.UncodedSpocID,
		Name:          mapping.Name,
		Email:         mapping.Email,
		CreatedAt:     mapping.CreatedAt.UTC().Format(timeFormat),
	}
}

// ToBrandChannelMappingDTO converts BrandChannelMapping to its DTO
func ToBrandChannelMappingDTO(mapping *domain.BrandChannelMapping) domain.BrandChannelMappingDTO {
	return domain.BrandChannelMappingDTO{
		ID:           mapping.ID,
		NumericValue: mapping.NumericValue,
		BrandChannel: mapping.BrandChannel,
		CreatedAt:    mapping.CreatedAt.UTC().Format(timeFormat),
	}
}

// ToEmailLogDTO converts EmailLog to EmailLogDTO
func ToEmailLogDTO(log *domain.EmailLog) domain.EmailLogDTO {
	return domain.EmailLogDTO{
		ID:        log.ID,
		PartnerID: log.PartnerID,
		Recipient: log.Recipient,
		Subject:   log.Subject,
		Status:    log.Status,
		Error:     log.Error,
		CreatedAt: log.CreatedAt.UTC().Format(timeFormat),
	}
}

package domain

import (
	"github.com/google/uuid"
)

// Request DTOs

// LocationRequest is one place of business in a registration
type LocationRequest struct {
	AddressLine1 string `json:"addressLine1" validate:"required,max=255"`
	AddressLine2 string `json:"addressLine2,omitempty" validate:"max=255"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	PostalCode   string `json:"postalCode" validate:"required,max=20"`
	IsHeadOffice bool   `json:"isHeadOffice"`
}

// BankingDetailsRequest carries settlement account information collected in
// the registration wizard
type BankingDetailsRequest struct {
	AccountNumber string `json:"accountNumber" validate:"required,account_number"`
	IFSCCode      string `json:"ifscCode,omitempty" validate:"omitempty,ifsc"`
	BankName      string `json:"bankName,omitempty" validate:"max=200"`
	ChequeURL     string `json:"chequeUrl,omitempty" validate:"max=500"`
}

// RegisterPartnerRequest is the payload of the registration wizard submit
type RegisterPartnerRequest struct {
	OwnerName          string                 `json:"ownerName" validate:"required,max=200"`
	FirmName           string                 `json:"firmName" validate:"required,max=200"`
	Email              string                 `json:"email" validate:"required,email"`
	Mobile             string                 `json:"mobile" validate:"required,max=20"`
	Country            Country                `json:"country" validate:"required,oneof=india usa uae"`
	Business           BusinessType           `json:"business" validate:"required,oneof=sales exchange"`
	UncodedSpocID      string                 `json:"uncodedSpocId" validate:"required,max=50"`
	PANNumber          string                 `json:"panNumber,omitempty" validate:"omitempty,pan"`
	GSTINNumber        string                 `json:"gstinNumber,omitempty" validate:"omitempty,gstin"`
	TaxID              string                 `json:"taxId,omitempty" validate:"max=30"`
	PaymentModes       []string               `json:"paymentModes" validate:"required,min=1,dive,max=50"`
	PaymentModeDetails JSONMap                `json:"paymentModeDetails,omitempty"`
	InvoicingFrequency InvoicingFrequency     `json:"invoicingFrequency" validate:"required,oneof=daily weekly monthly"`
	InvoicingType      InvoicingType          `json:"invoicingType" validate:"required,oneof=consolidated statewise storewise"`
	BankingDetails     *BankingDetailsRequest `json:"bankingDetails,omitempty"`
	Locations          []LocationRequest      `json:"locations" validate:"required,min=1,dive"`
}

// BrandChannelSelectionRequest is the form posted from the SPOC email link.
// BrandChannel carries the numeric mapping code as a string; the label is
// resolved server-side.
type BrandChannelSelectionRequest struct {
	PartnerID    uuid.UUID `json:"partnerId" validate:"required"`
	BrandChannel string    `json:"brandChannel" validate:"required,max=20"`
}

// CompleteBOSTaskRequest finishes a back-office review task. The chosen
// plan and feature rights are copied onto the partner.
type CompleteBOSTaskRequest struct {
	PlanID        string   `json:"planId" validate:"required,max=50"`
	FeatureRights []string `json:"featureRights" validate:"required,min=1,dive,required,max=100"`
	AssignedTo    string   `json:"assignedTo,omitempty" validate:"max=200"`
	Notes         string   `json:"notes,omitempty" validate:"max=2000"`
}

// CompletePricingTaskRequest records the configured margin
type CompletePricingTaskRequest struct {
	MarginPct float64 `json:"marginPct" validate:"required,gte=0,lte=100"`
	Notes     string  `json:"notes,omitempty" validate:"max=2000"`
}

// CreatePortalUserRequest adds a portal account during user creation. The
// location must belong to the same partner.
type CreatePortalUserRequest struct {
	LocationID uuid.UUID      `json:"locationId" validate:"required"`
	Name       string         `json:"name" validate:"required,max=200"`
	Email      string         `json:"email" validate:"required,email"`
	Role       PortalUserRole `json:"role" validate:"required,oneof=owner manager staff"`
}

// CreateLocationRequest adds a place of business to an existing partner
type CreateLocationRequest struct {
	LocationRequest
}

// SpocMappingRequest upserts a single SPOC mapping
type SpocMappingRequest struct {
	UncodedSpocID string `json:"uncodedSpocId" validate:"required,max=50"`
	Name          string `json:"name" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email"`
}

// BrandChannelMappingRequest upserts a single brand-channel mapping
type BrandChannelMappingRequest struct {
	NumericValue int    `json:"numericValue" validate:"required,gt=0"`
	BrandChannel string `json:"brandChannel" validate:"required,max=100"`
}

// PartnerFilter narrows partner listings
type PartnerFilter struct {
	Status  PartnerStatus `json:"status,omitempty"`
	Country Country       `json:"country,omitempty"`
	Search  string        `json:"search,omitempty"`
	Limit   int           `json:"limit,omitempty"`
	Offset  int           `json:"offset,omitempty"`
}

// Response DTOs

// PartnerDTO is the API shape of a partner
type PartnerDTO struct {
	ID                 uuid.UUID          `json:"id"`
	OwnerName          string             `json:"ownerName"`
	FirmName           string             `json:"firmName"`
	Email              string             `json:"email"`
	Mobile             string             `json:"mobile"`
	Country            Country            `json:"country"`
	Business           BusinessType       `json:"business"`
	Status             PartnerStatus      `json:"status"`
	UncodedSpocID      string             `json:"uncodedSpocId"`
	SpocName           string             `json:"spocName,omitempty"`
	SpocEmail          string             `json:"spocEmail,omitempty"`
	BrandChannel       string             `json:"brandChannel,omitempty"`
	PANNumber          string             `json:"panNumber,omitempty"`
	GSTINNumber        string             `json:"gstinNumber,omitempty"`
	TaxID              string             `json:"taxId,omitempty"`
	TaxIDType          string             `json:"taxIdType,omitempty"`
	PaymentModes       []string           `json:"paymentModes"`
	PaymentModeDetails JSONMap            `json:"paymentModeDetails,omitempty"`
	InvoicingFrequency InvoicingFrequency `json:"invoicingFrequency,omitempty"`
	InvoicingType      InvoicingType      `json:"invoicingType,omitempty"`
	BankingDetails     JSONMap            `json:"bankingDetails,omitempty"`
	PlanID             string             `json:"planId,omitempty"`
	FeatureRights      []string           `json:"featureRights,omitempty"`
	MarginConfigured   bool               `json:"marginConfigured"`
	Locations          []LocationDTO      `json:"locations,omitempty"`
	Milestones         []MilestoneDTO     `json:"milestones,omitempty"`
	Users              []PortalUserDTO    `json:"users,omitempty"`
	CreatedAt          string             `json:"createdAt"` // ISO 8601
	UpdatedAt          string             `json:"updatedAt"` // ISO 8601
}

type LocationDTO struct {
	ID           uuid.UUID `json:"id"`
	PartnerID    uuid.UUID `json:"partnerId"`
	AddressLine1 string    `json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postalCode"`
	IsHeadOffice bool      `json:"isHeadOffice"`
}

type MilestoneDTO struct {
	ID              uuid.UUID       `json:"id"`
	PartnerID       uuid.UUID       `json:"partnerId"`
	Name            string          `json:"name"`
	Status          MilestoneStatus `json:"status"`
	Sequence        int             `json:"sequence"`
	StartedAt       *string         `json:"startedAt,omitempty"`
	CompletedAt     *string         `json:"completedAt,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
}

type PortalUserDTO struct {
	ID         uuid.UUID      `json:"id"`
	PartnerID  uuid.UUID      `json:"partnerId"`
	LocationID uuid.UUID      `json:"locationId"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Role       PortalUserRole `json:"role"`
	IsActive   bool           `json:"isActive"`
	CreatedAt  string         `json:"createdAt"`
}

// TaskDTO is the shared API shape of BOS and pricing tasks
type TaskDTO struct {
	ID            uuid.UUID   `json:"id"`
	PartnerID     uuid.UUID   `json:"partnerId"`
	Status        TaskStatus  `json:"status"`
	AssignedTo    string      `json:"assignedTo,omitempty"`
	PlanID        string      `json:"planId,omitempty"`
	FeatureRights []string    `json:"featureRights,omitempty"`
	MarginPct     float64     `json:"marginPct,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	CompletedAt   *string     `json:"completedAt,omitempty"`
	Partner       *PartnerDTO `json:"partner,omitempty"`
	CreatedAt     string      `json:"createdAt"`
}

type SpocMappingDTO struct {
	ID            uuid.UUID `json:"id"`
	UncodedSpocID string    `json:"uncodedSpocId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	CreatedAt     string    `json:"createdAt"`
}

type BrandChannelMappingDTO struct {
	ID           uuid.UUID `json:"id"`
	NumericValue int       `json:"numericValue"`
	BrandChannel string    `json:"brandChannel"`
	CreatedAt    string    `json:"createdAt"`
}

type EmailLogDTO struct {
	ID        uuid.UUID      `json:"id"`
	PartnerID uuid.UUID      `json:"partnerId"`
	Recipient string         `json:"recipient"`
	Subject   string         `json:"subject"`
	Status    EmailLogStatus `json:"status"`
	Error     string         `json:"error,omitempty"`
	CreatedAt string         `json:"createdAt"`
}

// ImportSummary reports the result of a CSV bulk import
type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Total    int      `json:"total"`
	Warnings []string `json:"warnings,omitempty"`
}

// StatusCount is one slice of the admin analytics breakdown
type StatusCount struct {
	Status PartnerStatus `json:"status"`
	Count  int64         `json:"count"`
}

// MilestoneStat is the average completion time for one milestone name
type MilestoneStat struct {
	Name           string `json:"name"`
	AverageMinutes int    `json:"averageMinutes"`
	Count          int64  `json:"count"`
}

// AnalyticsDTO is the admin dashboard summary
type AnalyticsDTO struct {
	TotalPartners         int64           `json:"totalPartners"`
	CompletedPartners     int64           `json:"completedPartners"`
	ConversionRate        int             `json:"conversionRate"` // percent
	AverageOnboardingDays float64         `json:"averageOnboardingDays"`
	ByStatus              []StatusCount   `json:"byStatus"`
	MilestoneAnalytics    []MilestoneStat `json:"milestoneAnalytics"`
	PendingBOSTasks       int64           `json:"pendingBosTasks"`
	PendingPricing        int64           `json:"pendingPricingTasks"`
	EmailsSent            int64           `json:"emailsSent"`
	EmailsFailed          int64           `json:"emailsFailed"`
}

// ChequeExtractionDTO is the OCR result for an uploaded cheque image
type ChequeExtractionDTO struct {
	AccountNumber string  `json:"accountNumber,omitempty"`
	IFSCCode      string  `json:"ifscCode,omitempty"`
	BankName      string  `json:"bankName,omitempty"`
	Confidence    float64 `json:"confidence"`
	FileURL       string  `json:"fileUrl"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

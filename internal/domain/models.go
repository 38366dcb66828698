package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. The ID carries no column default so the
// generated DDL stays valid on SQLite; the postgres migration adds
// gen_random_uuid() on its own.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID client-side. SQLite has no gen_random_uuid,
// so demo mode and tests rely on this hook.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// PartnerStatus represents the onboarding stage of a partner
type PartnerStatus string

const (
	PartnerStatusRegistration  PartnerStatus = "registration"
	PartnerStatusBOSProcessing PartnerStatus = "bos-processing"
	PartnerStatusPricingSetup  PartnerStatus = "pricing-setup"
	PartnerStatusUserCreation  PartnerStatus = "user-creation"
	PartnerStatusCompleted     PartnerStatus = "completed"
)

// statusRank orders the onboarding stages. Transitions never move backwards.
var statusRank = map[PartnerStatus]int{
	PartnerStatusRegistration:  0,
	PartnerStatusBOSProcessing: 1,
	PartnerStatusPricingSetup:  2,
	PartnerStatusUserCreation:  3,
	PartnerStatusCompleted:     4,
}

// Rank returns the position of the status in the onboarding pipeline,
// or -1 for an unknown status.
func (s PartnerStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// Valid reports whether the status is a known onboarding stage
func (s PartnerStatus) Valid() bool {
	return s.Rank() >= 0
}

// Country codes supported for partner registration
type Country string

const (
	CountryIndia Country = "india"
	CountryUSA   Country = "usa"
	CountryUAE   Country = "uae"
)

// InvoicingFrequency for partner settlement
type InvoicingFrequency string

const (
	InvoicingDaily   InvoicingFrequency = "daily"
	InvoicingWeekly  InvoicingFrequency = "weekly"
	InvoicingMonthly InvoicingFrequency = "monthly"
)

// InvoicingType controls how partner invoices are grouped
type InvoicingType string

const (
	InvoicingConsolidated InvoicingType = "consolidated"
	InvoicingStatewise    InvoicingType = "statewise"
	InvoicingStorewise    InvoicingType = "storewise"
)

// BusinessType classifies the partner's line of business
type BusinessType string

const (
	BusinessSales    BusinessType = "sales"
	BusinessExchange BusinessType = "exchange"
)

// Partner is the central onboarding entity. Its status moves forward through
// the pipeline as BOS, pricing and user-creation work completes.
type Partner struct {
	BaseModel
	OwnerName          string             `gorm:"type:varchar(200);not null;column:owner_name" json:"ownerName"`
	FirmName           string             `gorm:"type:varchar(200);not null;column:firm_name" json:"firmName"`
	Email              string             `gorm:"type:varchar(255);not null;index" json:"email"`
	Mobile             string             `gorm:"type:varchar(20);not null" json:"mobile"`
	Country            Country            `gorm:"type:varchar(20);not null;default:'india'" json:"country"`
	Business           BusinessType       `gorm:"type:varchar(20);not null;default:'sales'" json:"business"`
	Status             PartnerStatus      `gorm:"type:varchar(30);not null;default:'registration';index" json:"status"`
	UncodedSpocID      string             `gorm:"type:varchar(50);column:uncoded_spoc_id;index" json:"uncodedSpocId"`
	SpocName           string             `gorm:"type:varchar(200);column:spoc_name" json:"spocName,omitempty"`
	SpocEmail          string             `gorm:"type:varchar(255);column:spoc_email" json:"spocEmail,omitempty"`
	BrandChannel       string             `gorm:"type:varchar(100);column:brand_channel" json:"brandChannel,omitempty"`
	PANNumber          string             `gorm:"type:varchar(20);column:pan_number" json:"panNumber,omitempty"`
	GSTINNumber        string             `gorm:"type:varchar(20);column:gstin_number" json:"gstinNumber,omitempty"`
	TaxID              string             `gorm:"type:varchar(30);column:tax_id" json:"taxId,omitempty"`
	TaxIDType          string             `gorm:"type:varchar(20);column:tax_id_type" json:"taxIdType,omitempty"`
	PaymentModes       StringList         `gorm:"type:text;column:payment_modes" json:"paymentModes"`
	PaymentModeDetails JSONMap            `gorm:"type:text;column:payment_mode_details" json:"paymentModeDetails,omitempty"`
	InvoicingFrequency InvoicingFrequency `gorm:"type:varchar(20);column:invoicing_frequency" json:"invoicingFrequency,omitempty"`
	InvoicingType      InvoicingType      `gorm:"type:varchar(20);column:invoicing_type" json:"invoicingType,omitempty"`
	BankingDetails     JSONMap            `gorm:"type:text;column:banking_details" json:"bankingDetails,omitempty"`
	PlanID             string             `gorm:"type:varchar(50);column:plan_id" json:"planId,omitempty"`
	FeatureRights      StringList         `gorm:"type:text;column:feature_rights" json:"featureRights"`
	MarginConfigured   bool               `gorm:"not null;default:false;column:margin_configured" json:"marginConfigured"`

	Locations  []Location   `gorm:"foreignKey:PartnerID" json:"locations,omitempty"`
	Milestones []Milestone  `gorm:"foreignKey:PartnerID" json:"milestones,omitempty"`
	Users      []PortalUser `gorm:"foreignKey:PartnerID" json:"users,omitempty"`
}

// Location is a partner's place of business. A partner has at least one,
// and exactly one is flagged as the head office.
type Location struct {
	BaseModel
	PartnerID    uuid.UUID `gorm:"type:uuid;not null;index;column:partner_id" json:"partnerId"`
	AddressLine1 string    `gorm:"type:varchar(255);not null;column:address_line1" json:"addressLine1"`
	AddressLine2 string    `gorm:"type:varchar(255);column:address_line2" json:"addressLine2,omitempty"`
	City         string    `gorm:"type:varchar(100);not null" json:"city"`
	State        string    `gorm:"type:varchar(100);not null" json:"state"`
	PostalCode   string    `gorm:"type:varchar(20);not null;column:postal_code" json:"postalCode"`
	IsHeadOffice bool      `gorm:"not null;default:false;column:is_head_office" json:"isHeadOffice"`
}

// PortalUserRole for partner portal accounts
type PortalUserRole string

const (
	PortalRoleOwner   PortalUserRole = "owner"
	PortalRoleManager PortalUserRole = "manager"
	PortalRoleStaff   PortalUserRole = "staff"
)

// PortalUser is an account created for a partner during the user-creation
// stage. Each account is tied to one of the partner's locations.
type PortalUser struct {
	BaseModel
	PartnerID  uuid.UUID      `gorm:"type:uuid;not null;index;column:partner_id" json:"partnerId"`
	LocationID uuid.UUID      `gorm:"type:uuid;not null;column:location_id" json:"locationId"`
	Name       string         `gorm:"type:varchar(200);not null" json:"name"`
	Email      string         `gorm:"type:varchar(255);not null" json:"email"`
	Role       PortalUserRole `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
	IsActive   bool           `gorm:"not null;default:true;column:is_active" json:"isActive"`
}

// MilestoneStatus tracks progress of a single milestone
type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in-progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	// MilestoneRejected exists in the schema but no transition sets it
	MilestoneRejected MilestoneStatus = "rejected"
)

// Milestone names shown on the partner timeline, in pipeline order
const (
	MilestoneRegistration = "Registration"
	MilestoneInReview     = "In Review"
	MilestoneUserCreation = "User Creation"
	MilestoneLive         = "You're now Live"
)

// MilestoneOrder lists the timeline milestones in display order
var MilestoneOrder = []string{
	MilestoneRegistration,
	MilestoneInReview,
	MilestoneUserCreation,
	MilestoneLive,
}

// Milestone is one step on the partner's onboarding timeline
type Milestone struct {
	BaseModel
	PartnerID       uuid.UUID       `gorm:"type:uuid;not null;index;column:partner_id" json:"partnerId"`
	Name            string          `gorm:"type:varchar(100);not null" json:"name"`
	Status          MilestoneStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Sequence        int             `gorm:"not null;default:0" json:"sequence"`
	StartedAt       *time.Time      `gorm:"column:started_at" json:"startedAt,omitempty"`
	CompletedAt     *time.Time      `gorm:"column:completed_at" json:"completedAt,omitempty"`
	DurationMinutes int             `gorm:"not null;default:0;column:duration_minutes" json:"durationMinutes"`
}

// TaskStatus for BOS and pricing work queues
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// BOSTask is a back-office review task. The reviewer picks the partner's
// plan and feature rights when completing it.
type BOSTask struct {
	BaseModel
	PartnerID     uuid.UUID  `gorm:"type:uuid;not null;index;column:partner_id" json:"partnerId"`
	Status        TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AssignedTo    string     `gorm:"type:varchar(200);column:assigned_to" json:"assignedTo,omitempty"`
	PlanID        string     `gorm:"type:varchar(50);column:plan_id" json:"planId,omitempty"`
	FeatureRights StringList `gorm:"type:text;column:feature_rights" json:"featureRights,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	CompletedAt   *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`

	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

// PricingTask is a margin-configuration task created when BOS review finishes
type PricingTask struct {
	BaseModel
	PartnerID   uuid.UUID  `gorm:"type:uuid;not null;index;column:partner_id" json:"partnerId"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	MarginPct   float64    `gorm:"not null;default:0;column:margin_pct" json:"marginPct"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`

	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

// SpocMapping links an uncoded SPOC identifier to a named contact
type SpocMapping struct {
	BaseModel
	UncodedSpocID string `gorm:"type:varchar(50);not null;uniqueIndex;column:uncoded_spoc_id" json:"uncodedSpocId"`
	Name          string `gorm:"type:varchar(200);not null" json:"name"`
	Email         string `gorm:"type:varchar(255);not null" json:"email"`
}

// BrandChannelMapping links a numeric selection code to a brand channel
// label. The full table is offered as options in the SPOC email; the
// callback resolves the submitted code back to the label.
type BrandChannelMapping struct {
	BaseModel
	NumericValue int    `gorm:"not null;uniqueIndex;column:numeric_value" json:"numericValue"`
	BrandChannel string `gorm:"type:varchar(100);not null;column:brand_channel" json:"brandChannel"`
}

// EmailLogStatus records the outcome of a dispatch attempt
type EmailLogStatus string

const (
	EmailLogSent      EmailLogStatus = "sent"
	EmailLogSimulated EmailLogStatus = "simulated"
	EmailLogFailed    EmailLogStatus = "failed"
)

// EmailLog is an audit record of every notification the system attempted
type EmailLog struct {
	BaseModel
	PartnerID uuid.UUID      `gorm:"type:uuid;not null;index;column:partner_id" json:"partnerId"`
	Recipient string         `gorm:"type:varchar(255);not null" json:"recipient"`
	Subject   string         `gorm:"type:varchar(500);not null" json:"subject"`
	Status    EmailLogStatus `gorm:"type:varchar(20);not null" json:"status"`
	Error     string         `gorm:"type:text" json:"error,omitempty"`
}

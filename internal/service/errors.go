package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrInvalidTransition is returned when an onboarding stage change
	// would move a partner backwards or skip required work
	ErrInvalidTransition = errors.New("invalid onboarding stage transition")

	// ErrTaskAlreadyCompleted is returned when completing a task twice
	ErrTaskAlreadyCompleted = errors.New("task already completed")

	// ErrSpocNotFound is returned when a partner's uncoded SPOC ID has no mapping
	ErrSpocNotFound = errors.New("no SPOC mapping for partner")

	// ErrNoBrandChannelOptions is returned when no brand channel mappings
	// are configured at all
	ErrNoBrandChannelOptions = errors.New("no brand channels configured")

	// ErrInvalidBrandChannel is returned when a submitted numeric code has
	// no brand channel mapping
	ErrInvalidBrandChannel = errors.New("unknown brand channel code")

	// ErrMarginNotConfigured is returned when user creation is attempted
	// before pricing setup has finished
	ErrMarginNotConfigured = errors.New("partner margin not configured")
)

package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/mapper"
	"github.com/uncoded/onboarding-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CSV headers served as import templates
const (
	SpocMappingCSVTemplate         = "SPOC ID,Name,Email ID\n"
	BrandChannelMappingCSVTemplate = "Numeric Value,Brand Channel\n"
)

// MappingService maintains the admin lookup tables that route partners to
// SPOCs and brand channels. Bulk import accepts the CSV exports the
// operations team already works with.
type MappingService struct {
	mappingRepo *repository.MappingRepository
	logger      *zap.Logger
}

func NewMappingService(mappingRepo *repository.MappingRepository, logger *zap.Logger) *MappingService {
	return &MappingService{
		mappingRepo: mappingRepo,
		logger:      logger,
	}
}

// UpsertSpocMapping creates or replaces a single SPOC mapping
func (s *MappingService) UpsertSpocMapping(ctx context.Context, req *domain.SpocMappingRequest) (*domain.SpocMappingDTO, error) {
	mapping := &domain.SpocMapping{
		UncodedSpocID: strings.TrimSpace(req.UncodedSpocID),
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
	}
	if err := s.mappingRepo.UpsertSpocMapping(ctx, mapping); err != nil {
		return nil, fmt.Errorf("failed to upsert SPOC mapping: %w", err)
	}
	dto := mapper.ToSpocMappingDTO(mapping)
	return &dto, nil
}

// UpsertBrandChannelMapping creates or replaces the label for a numeric code
func (s *MappingService) UpsertBrandChannelMapping(ctx context.Context, req *domain.BrandChannelMappingRequest) (*domain.BrandChannelMappingDTO, error) {
	channel := strings.TrimSpace(req.BrandChannel)
	if channel == "" {
		return nil, fmt.Errorf("%w: no brand channel given", ErrInvalidInput)
	}
	mapping := &domain.BrandChannelMapping{
		NumericValue: req.NumericValue,
		BrandChannel: channel,
	}
	if err := s.mappingRepo.UpsertBrandChannelMapping(ctx, mapping); err != nil {
		return nil, fmt.Errorf("failed to upsert brand channel mapping: %w", err)
	}
	dto := mapper.ToBrandChannelMappingDTO(mapping)
	return &dto, nil
}

// DeleteSpocMapping removes a SPOC mapping by row id
func (s *MappingService) DeleteSpocMapping(ctx context.Context, id uuid.UUID) error {
	if err := s.mappingRepo.DeleteSpocMapping(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteBrandChannelMapping removes a brand-channel mapping by row id
func (s *MappingService) DeleteBrandChannelMapping(ctx context.Context, id uuid.UUID) error {
	if err := s.mappingRepo.DeleteBrandChannelMapping(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ListSpocMappings returns all SPOC mappings
func (s *MappingService) ListSpocMappings(ctx context.Context) ([]domain.SpocMappingDTO, error) {
	mappings, err := s.mappingRepo.ListSpocMappings(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.SpocMappingDTO, 0, len(mappings))
	for i := range mappings {
		dtos = append(dtos, mapper.ToSpocMappingDTO(&mappings[i]))
	}
	return dtos, nil
}

// ListBrandChannelMappings returns all brand-channel mappings
func (s *MappingService) ListBrandChannelMappings(ctx context.Context) ([]domain.BrandChannelMappingDTO, error) {
	mappings, err := s.mappingRepo.ListBrandChannelMappings(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.BrandChannelMappingDTO, 0, len(mappings))
	for i := range mappings {
		dtos = append(dtos, mapper.ToBrandChannelMappingDTO(&mappings[i]))
	}
	return dtos, nil
}

// ImportSpocMappings bulk-loads "SPOC ID,Name,Email ID" rows. Malformed or
// duplicate rows are skipped with a warning; the file as a whole never
// fails halfway through.
func (s *MappingService) ImportSpocMappings(ctx context.Context, r io.Reader) (*domain.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	summary := &domain.ImportSummary{}
	seen := make(map[string]bool)
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line++

		// header row
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "SPOC ID") {
			continue
		}

		summary.Total++
		if len(record) < 3 {
			summary.Skipped++
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("line %d: expected 3 columns, got %d", line, len(record)))
			continue
		}

		spocID := strings.TrimSpace(record[0])
		name := strings.TrimSpace(record[1])
		email := strings.TrimSpace(record[2])
		if spocID == "" || name == "" || email == "" {
			summary.Skipped++
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("line %d: empty field", line))
			continue
		}
		if seen[spocID] {
			summary.Skipped++
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("line %d: duplicate SPOC ID %s", line, spocID))
			continue
		}
		seen[spocID] = true

		mapping := &domain.SpocMapping{UncodedSpocID: spocID, Name: name, Email: email}
		if err := s.mappingRepo.CreateSpocMapping(ctx, mapping); err != nil {
			// unique-constraint hits land here; an existing mapping wins
			summary.Skipped++
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("line %d: SPOC ID %s already mapped", line, spocID))
			continue
		}
		summary.Imported++
	}

	s.logger.Info("SPOC mapping import finished",
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("total", summary.Total))
	return summary, nil
}

// ImportBrandChannelMappings bulk-loads "Numeric Value,Brand Channel" rows.
// Each numeric value maps to exactly one label; rows repeating a code are
// skipped with a warning, as are rows whose code is not a number.
func (s *MappingService) ImportBrandChannelMappings(ctx context.Context, r io.Reader) (*domain.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	summary := &domain.ImportSummary{}
	seen := make(map[int]bool)
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "Numeric Value") {
			continue
		}

		summary.Total++
		if len(record) < 2 {
			summary.Skipped++
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("line %d: expected 2 columns, got %d", line, len(record)))
			continue
		}

		rawCode := strings.TrimSpace(record[0])
		channel := strings.TrimSpace(record[1])
		if rawCode == "" || channel == "" {
			summary.Skipped++
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("line %d: empty field", line))
			continue
		}
		code, err := strconv.Atoi(rawCode)
		if err != nil || code <= 0 {
			summary.Skipped++
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("line %d: numeric value %q is not a positive number", line, rawCode))
			continue
		}
		if seen[code] {
			summary.Skipped++
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("line %d: duplicate numeric value %d", line, code))
			continue
		}
		seen[code] = true

		mapping := &domain.BrandChannelMapping{NumericValue: code, BrandChannel: channel}
		if err := s.mappingRepo.CreateBrandChannelMapping(ctx, mapping); err != nil {
			summary.Skipped++
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("line %d: numeric value %d already mapped", line, code))
			continue
		}
		summary.Imported++
	}

	s.logger.Info("Brand channel mapping import finished",
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("total", summary.Total))
	return summary, nil
}

package validation_test

import (
	"testing"

	"github.com/uncoded/onboarding-api/internal/domain"
	"github.com/uncoded/onboarding-api/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPAN(t *testing.T) {
	assert.True(t, validation.ValidPAN("ABCDE1234F"))
	assert.False(t, validation.ValidPAN("abcde1234f"))
	assert.False(t, validation.ValidPAN("ABCD1234F"))
	assert.False(t, validation.ValidPAN("ABCDE12345"))
	assert.False(t, validation.ValidPAN(""))
}

func TestValidGSTIN(t *testing.T) {
	assert.True(t, validation.ValidGSTIN("27ABCDE1234F1Z5"))
	assert.False(t, validation.ValidGSTIN("27ABCDE1234F1X5"), "14th character must be Z")
	assert.False(t, validation.ValidGSTIN("27ABCDE1234F0Z5"), "13th character cannot be 0")
	assert.False(t, validation.ValidGSTIN("27ABCDE1234F1Z"))
}

func TestValidTIN(t *testing.T) {
	assert.True(t, validation.ValidTIN("12-3456789"))
	assert.False(t, validation.ValidTIN("123456789"))
	assert.False(t, validation.ValidTIN("12-345678"))
}

func TestValidVAT(t *testing.T) {
	assert.True(t, validation.ValidVAT("AE123456789"))
	assert.False(t, validation.ValidVAT("A1234567890"))
	assert.False(t, validation.ValidVAT("AE12345678"))
}

func TestValidIFSC(t *testing.T) {
	assert.True(t, validation.ValidIFSC("HDFC0001234"))
	assert.True(t, validation.ValidIFSC("SBIN0ABC123"))
	assert.False(t, validation.ValidIFSC("HDF00012345"))
	assert.False(t, validation.ValidIFSC("HDFC001234"))
}

func TestValidAccountNumber(t *testing.T) {
	assert.True(t, validation.ValidAccountNumber("123456789"))
	assert.True(t, validation.ValidAccountNumber("123456789012345678"))
	assert.False(t, validation.ValidAccountNumber("12345678"), "too short")
	assert.False(t, validation.ValidAccountNumber("1234567890123456789"), "too long")
	assert.False(t, validation.ValidAccountNumber("12345678A"))
}

func TestValidMobile(t *testing.T) {
	assert.True(t, validation.ValidMobile("+91-9876543210", domain.CountryIndia))
	assert.False(t, validation.ValidMobile("9876543210", domain.CountryIndia))

	assert.True(t, validation.ValidMobile("+1-555-1234", domain.CountryUSA))
	assert.False(t, validation.ValidMobile("+1-5551-234", domain.CountryUSA))

	assert.True(t, validation.ValidMobile("+971-50123456", domain.CountryUAE))
	assert.True(t, validation.ValidMobile("+971-501234567", domain.CountryUAE))
	assert.False(t, validation.ValidMobile("+971-5012345", domain.CountryUAE))

	assert.False(t, validation.ValidMobile("+91-9876543210", "germany"))
}

func TestValidTaxID(t *testing.T) {
	assert.True(t, validation.ValidTaxID("ABCDE1234F", domain.CountryIndia))
	assert.True(t, validation.ValidTaxID("12-3456789", domain.CountryUSA))
	assert.True(t, validation.ValidTaxID("AE123456789", domain.CountryUAE))

	// identifiers do not cross countries
	assert.False(t, validation.ValidTaxID("ABCDE1234F", domain.CountryUSA))
	assert.False(t, validation.ValidTaxID("12-3456789", domain.CountryIndia))
}

func TestTaxIDType(t *testing.T) {
	assert.Equal(t, "PAN", validation.TaxIDType(domain.CountryIndia))
	assert.Equal(t, "TIN", validation.TaxIDType(domain.CountryUSA))
	assert.Equal(t, "VAT", validation.TaxIDType(domain.CountryUAE))
	assert.Equal(t, "Tax ID", validation.TaxIDType("germany"))
}

func validRegistration() domain.RegisterPartnerRequest {
	return domain.RegisterPartnerRequest{
		OwnerName:          "Asha Patel",
		FirmName:           "Patel Trading Co",
		Email:              "asha@pateltrading.example",
		Mobile:             "+91-9876543210",
		Country:            domain.CountryIndia,
		Business:           domain.BusinessSales,
		UncodedSpocID:      "42",
		PANNumber:          "ABCDE1234F",
		GSTINNumber:        "27ABCDE1234F1Z5",
		PaymentModes:       []string{"upi"},
		InvoicingFrequency: domain.InvoicingWeekly,
		InvoicingType:      domain.InvoicingConsolidated,
		Locations: []domain.LocationRequest{
			{AddressLine1: "12 MG Road", City: "Pune", State: "Maharashtra", PostalCode: "411001"},
		},
	}
}

func fieldTags(err error) map[string]string {
	tags := map[string]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			tags[fe.Field()] = fe.Tag()
		}
	}
	return tags
}

func TestNewValidator_RegisterPartnerRequest(t *testing.T) {
	v := validation.NewValidator()

	t.Run("valid request passes", func(t *testing.T) {
		req := validRegistration()
		assert.NoError(t, v.Struct(req))
	})

	t.Run("mobile format checked against country", func(t *testing.T) {
		req := validRegistration()
		req.Country = domain.CountryUSA
		req.TaxID = "12-3456789"
		req.PANNumber = ""
		req.GSTINNumber = ""

		err := v.Struct(req)
		require.Error(t, err)
		tags := fieldTags(err)
		assert.Equal(t, "mobile", tags["mobile"])
	})

	t.Run("tax ID checked against country", func(t *testing.T) {
		req := validRegistration()
		req.TaxID = "12-3456789" // US TIN on an Indian registration

		err := v.Struct(req)
		require.Error(t, err)
		tags := fieldTags(err)
		assert.Equal(t, "taxid", tags["taxId"])
	})

	t.Run("custom pan tag", func(t *testing.T) {
		req := validRegistration()
		req.PANNumber = "NOTAPAN"

		err := v.Struct(req)
		require.Error(t, err)
		tags := fieldTags(err)
		assert.Equal(t, "pan", tags["panNumber"])
	})

	t.Run("required fields enforced", func(t *testing.T) {
		req := validRegistration()
		req.Locations = nil
		req.PaymentModes = nil

		err := v.Struct(req)
		require.Error(t, err)
		tags := fieldTags(err)
		assert.Equal(t, "required", tags["locations"])
		assert.Equal(t, "required", tags["paymentModes"])
	})
}

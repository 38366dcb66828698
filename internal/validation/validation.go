// Package validation holds the field formats collected during partner
// registration and wires them into the request validator as custom tags.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/uncoded/onboarding-api/internal/domain"
)

var (
	panRegex   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstinRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	tinRegex   = regexp.MustCompile(`^[0-9]{2}-[0-9]{7}$`)
	vatRegex   = regexp.MustCompile(`^[A-Z]{2}[0-9]{9}$`)
	ifscRegex  = regexp.MustCompile(`^[A-Z]{4}[0-9A-Z]{7}$`)
	acctRegex  = regexp.MustCompile(`^[0-9]{9,18}$`)

	mobileRegex = map[domain.Country]*regexp.Regexp{
		domain.CountryUSA:   regexp.MustCompile(`^\+1-[0-9]{3}-[0-9]{4}$`),
		domain.CountryIndia: regexp.MustCompile(`^\+91-[0-9]{10}$`),
		domain.CountryUAE:   regexp.MustCompile(`^\+971-[0-9]{8,9}$`),
	}
)

// ValidPAN reports whether s is a well-formed Indian PAN number
func ValidPAN(s string) bool {
	return panRegex.MatchString(s)
}

// ValidGSTIN reports whether s is a well-formed GSTIN number
func ValidGSTIN(s string) bool {
	return gstinRegex.MatchString(s)
}

// ValidTIN reports whether s is a well-formed US TIN
func ValidTIN(s string) bool {
	return tinRegex.MatchString(s)
}

// ValidVAT reports whether s is a well-formed VAT registration number
func ValidVAT(s string) bool {
	return vatRegex.MatchString(s)
}

// ValidIFSC reports whether s is a well-formed IFSC bank branch code
func ValidIFSC(s string) bool {
	return ifscRegex.MatchString(s)
}

// ValidAccountNumber reports whether s is a plausible bank account number
func ValidAccountNumber(s string) bool {
	return acctRegex.MatchString(s)
}

// ValidMobile checks the mobile number format for the given country.
// Unknown countries always fail.
func ValidMobile(mobile string, country domain.Country) bool {
	re, ok := mobileRegex[country]
	if !ok {
		return false
	}
	return re.MatchString(mobile)
}

// ValidTaxID validates a tax identifier for the country it was issued in.
// India uses PAN, USA uses TIN and UAE uses VAT.
func ValidTaxID(taxID string, country domain.Country) bool {
	switch country {
	case domain.CountryIndia:
		return ValidPAN(taxID)
	case domain.CountryUSA:
		return ValidTIN(taxID)
	case domain.CountryUAE:
		return ValidVAT(taxID)
	default:
		return false
	}
}

// TaxIDType names the identifier collected for a country
func TaxIDType(country domain.Country) string {
	switch country {
	case domain.CountryIndia:
		return "PAN"
	case domain.CountryUSA:
		return "TIN"
	case domain.CountryUAE:
		return "VAT"
	default:
		return "Tax ID"
	}
}

// NewValidator builds a validator with the registration field formats
// registered as custom tags. JSON tag names are reported in errors.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// these tags validate format only, not existence in any registry
	_ = v.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
		return ValidPAN(fl.Field().String())
	})
	_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		return ValidGSTIN(fl.Field().String())
	})
	_ = v.RegisterValidation("ifsc", func(fl validator.FieldLevel) bool {
		return ValidIFSC(fl.Field().String())
	})
	_ = v.RegisterValidation("account_number", func(fl validator.FieldLevel) bool {
		return ValidAccountNumber(fl.Field().String())
	})

	// mobile and tax ID formats depend on the sibling country field
	v.RegisterStructValidation(registerPartnerStructLevel, domain.RegisterPartnerRequest{})

	return v
}

func registerPartnerStructLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(domain.RegisterPartnerRequest)
	if req.Mobile != "" && !ValidMobile(req.Mobile, req.Country) {
		sl.ReportError(req.Mobile, "mobile", "Mobile", "mobile", "")
	}
	if req.TaxID != "" && !ValidTaxID(req.TaxID, req.Country) {
		sl.ReportError(req.TaxID, "taxId", "TaxID", "taxid", "")
	}
}

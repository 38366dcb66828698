// Package ocr extracts banking details from scanned cheque images. Text
// recognition itself is pluggable; the parsing of recognized text into
// structured fields lives here.
package ocr

import (
	"context"
	"io"
	"regexp"
	"strings"
)

// Recognizer turns an image into raw text. Implementations wrap an external
// OCR engine or service.
type Recognizer interface {
	Recognize(ctx context.Context, image io.Reader) (string, error)
}

// BankingDetails holds the fields extracted from a cheque
type BankingDetails struct {
	AccountHolderName string  `json:"accountHolderName"`
	AccountNumber     string  `json:"accountNumber"`
	BankName          string  `json:"bankName"`
	IFSCCode          string  `json:"ifscCode"`
	RawText           string  `json:"rawText,omitempty"`
	Confidence        float64 `json:"confidence"`
}

var (
	ifscPattern    = regexp.MustCompile(`\b[A-Z]{4}[0-9A-Z]{7}\b`)
	accountPattern = regexp.MustCompile(`\b[0-9]{9,18}\b`)
	namePattern    = regexp.MustCompile(`(?i)(?:PAY|PAYEE|NAME|HOLDER|MR|MS|MRS|DR)[\s:.]+([A-Z][A-Z ]{2,49})`)
	cleanPattern   = regexp.MustCompile(`[^\w\s&.-]`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Bank names recognized on Indian cheques, most specific first. The bare
// "BANK" entry is a catch-all and must stay last.
var bankPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)STATE BANK OF INDIA|\bSBI\b`),
	regexp.MustCompile(`(?i)HDFC BANK|\bHDFC\b`),
	regexp.MustCompile(`(?i)ICICI BANK|\bICICI\b`),
	regexp.MustCompile(`(?i)AXIS BANK|\bAXIS\b`),
	regexp.MustCompile(`(?i)KOTAK MAHINDRA BANK|\bKOTAK\b`),
	regexp.MustCompile(`(?i)PUNJAB NATIONAL BANK|\bPNB\b`),
	regexp.MustCompile(`(?i)BANK OF BARODA`),
	regexp.MustCompile(`(?i)CANARA BANK`),
	regexp.MustCompile(`(?i)UNION BANK`),
	regexp.MustCompile(`(?i)INDIAN OVERSEAS BANK|\bIOB\b`),
	regexp.MustCompile(`(?i)INDIAN BANK`),
	regexp.MustCompile(`(?i)CENTRAL BANK`),
	regexp.MustCompile(`(?i)UCO BANK`),
	regexp.MustCompile(`(?i)YES BANK`),
	regexp.MustCompile(`(?i)INDUSIND BANK`),
	regexp.MustCompile(`(?i)FEDERAL BANK`),
	regexp.MustCompile(`(?i)SOUTH INDIAN BANK`),
	regexp.MustCompile(`(?i)KARUR VYSYA BANK|\bKVB\b`),
	regexp.MustCompile(`(?i)CITY UNION BANK`),
	regexp.MustCompile(`(?i)STANDARD CHARTERED`),
	regexp.MustCompile(`(?i)CITIBANK`),
	regexp.MustCompile(`(?i)HSBC`),
	regexp.MustCompile(`(?i)DEUTSCHE BANK`),
	regexp.MustCompile(`(?i)\bBANK\b`),
}

// ParseBankingDetails extracts structured banking fields from raw OCR text.
// Missing fields are left empty rather than reported as errors; callers
// decide whether a partial extraction is usable.
func ParseBankingDetails(text string) BankingDetails {
	details := BankingDetails{RawText: text}

	if m := ifscPattern.FindString(text); m != "" {
		details.IFSCCode = m
	}

	// the longest digit run in range is most likely the account number
	if matches := accountPattern.FindAllString(text, -1); len(matches) > 0 {
		longest := matches[0]
		for _, m := range matches[1:] {
			if len(m) > len(longest) {
				longest = m
			}
		}
		details.AccountNumber = longest
	}

	for _, p := range bankPatterns {
		if m := p.FindString(text); m != "" {
			details.BankName = cleanText(strings.ToUpper(m))
			break
		}
	}

	if m := namePattern.FindStringSubmatch(text); len(m) > 1 {
		details.AccountHolderName = cleanText(strings.ToUpper(strings.TrimSpace(m[1])))
	}

	details.Confidence = scoreConfidence(details)
	return details
}

// scoreConfidence weights each recovered field. The account number and IFSC
// code matter most for settlement setup.
func scoreConfidence(d BankingDetails) float64 {
	score := 0.0
	if d.AccountNumber != "" {
		score += 0.35
	}
	if d.IFSCCode != "" {
		score += 0.35
	}
	if d.BankName != "" {
		score += 0.2
	}
	if d.AccountHolderName != "" {
		score += 0.1
	}
	return score
}

func cleanText(s string) string {
	s = cleanPattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Validate reports problems with an extraction that make it unusable for
// banking setup
func (d BankingDetails) Validate() []string {
	var errs []string
	if len(d.AccountNumber) < 9 || len(d.AccountNumber) > 18 {
		errs = append(errs, "account number not found or malformed")
	}
	if !ifscPattern.MatchString(d.IFSCCode) {
		errs = append(errs, "IFSC code not found or malformed")
	}
	if len(d.BankName) < 3 {
		errs = append(errs, "bank name not found")
	}
	return errs
}

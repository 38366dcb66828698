package ocr_test

import (
	"context"
	"strings"
	"testing"

	"github.com/uncoded/onboarding-api/internal/ocr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chequeText = `HDFC BANK
PAY: RAMESH GUPTA
A/C 123456789012
IFSC HDFC0001234
`

func TestParseBankingDetails(t *testing.T) {
	t.Run("full extraction", func(t *testing.T) {
		d := ocr.ParseBankingDetails(chequeText)

		assert.Equal(t, "123456789012", d.AccountNumber)
		assert.Equal(t, "HDFC0001234", d.IFSCCode)
		assert.Equal(t, "HDFC BANK", d.BankName)
		assert.Equal(t, "RAMESH GUPTA", d.AccountHolderName)
		assert.InDelta(t, 1.0, d.Confidence, 0.001)
	})

	t.Run("longest digit run wins as account number", func(t *testing.T) {
		d := ocr.ParseBankingDetails("CHQ 123456789 A/C 98765432109876")
		assert.Equal(t, "98765432109876", d.AccountNumber)
	})

	t.Run("digit runs outside 9-18 are ignored", func(t *testing.T) {
		d := ocr.ParseBankingDetails("DATE 20240115 PIN 411001")
		assert.Empty(t, d.AccountNumber)
	})

	t.Run("specific bank pattern beats the generic catch-all", func(t *testing.T) {
		d := ocr.ParseBankingDetails("STATE BANK OF INDIA BRANCH PUNE")
		assert.Equal(t, "STATE BANK OF INDIA", d.BankName)

		d = ocr.ParseBankingDetails("SOME COOPERATIVE BANK LTD")
		assert.Equal(t, "BANK", d.BankName)
	})

	t.Run("empty text yields zero confidence", func(t *testing.T) {
		d := ocr.ParseBankingDetails("")
		assert.Empty(t, d.AccountNumber)
		assert.Empty(t, d.IFSCCode)
		assert.Empty(t, d.BankName)
		assert.Zero(t, d.Confidence)
	})

	t.Run("partial extraction scores partial confidence", func(t *testing.T) {
		d := ocr.ParseBankingDetails("A/C 123456789012")
		assert.InDelta(t, 0.35, d.Confidence, 0.001)
	})
}

func TestBankingDetails_Validate(t *testing.T) {
	t.Run("complete details pass", func(t *testing.T) {
		d := ocr.ParseBankingDetails(chequeText)
		assert.Empty(t, d.Validate())
	})

	t.Run("missing fields are reported", func(t *testing.T) {
		d := ocr.BankingDetails{}
		errs := d.Validate()
		require.Len(t, errs, 3)
		assert.Contains(t, errs[0], "account number")
		assert.Contains(t, errs[1], "IFSC")
		assert.Contains(t, errs[2], "bank name")
	})
}

func TestPassthroughRecognizer(t *testing.T) {
	r := &ocr.PassthroughRecognizer{}

	text, err := r.Recognize(context.Background(), strings.NewReader(chequeText))
	require.NoError(t, err)
	assert.Equal(t, chequeText, text)
}

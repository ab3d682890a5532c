package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// Credit card fees: 2.9% + EUR 0.30 per transaction, rounded half-up to two
// decimals.
var (
	creditCardFeeRate = decimal.RequireFromString("0.029")
	creditCardFeeFlat = decimal.RequireFromString("0.30")
)

const (
	cardNumberKey     = "cardNumber"
	cvvKey            = "cvv"
	expiryDateKey     = "expiryDate"
	cardHolderNameKey = "cardHolderName"

	cardLengthErrMsg  = "Card number must be 13-19 digits"
	cardLuhnErrMsg    = "Invalid card number - failed Luhn check"
	cvvErrMsg         = "CVV must be 3-4 digits"
	expiryFormatMsg   = "Expiry date must be in MM/yyyy format"
	cardExpiredMsg    = "Card has expired"
	insufficientFunds = "Insufficient funds"
)

var (
	cardCleanupPattern = regexp.MustCompile(`[\s-]`)
	cardLengthPattern  = regexp.MustCompile(`^\d{13,19}$`)
	cvvPattern         = regexp.MustCompile(`^\d{3,4}$`)
	expiryPattern      = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{4}$`)
)

// CreditCardHandler processes credit card payments.
type CreditCardHandler struct {
	sampler     dispatch.Sampler
	clock       clockz.Clock
	failureRate float64
}

// NewCreditCardHandler creates the credit card handler. failureRate is the
// probability of a simulated "insufficient funds" rejection.
func NewCreditCardHandler(sampler dispatch.Sampler, clock clockz.Clock, failureRate float64) *CreditCardHandler {
	return &CreditCardHandler{sampler: sampler, clock: clock, failureRate: failureRate}
}

// Validate checks card number (Luhn + length), CVV, expiry date and
// cardholder name presence.
func (h *CreditCardHandler) Validate(req Request) (dispatch.ValidationResult, error) {
	cardNumber, err := req.Details.Require(cardNumberKey)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}
	cvv, err := req.Details.Require(cvvKey)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}
	expiry, err := req.Details.Require(expiryDateKey)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}
	if _, err := req.Details.Require(cardHolderNameKey); err != nil {
		return dispatch.ValidationResult{}, err
	}

	var violations []string

	clean := cardCleanupPattern.ReplaceAllString(cardNumber, "")
	switch {
	case !cardLengthPattern.MatchString(clean):
		violations = append(violations, cardLengthErrMsg)
	case !passesLuhnCheck(clean):
		violations = append(violations, cardLuhnErrMsg)
	}

	if !cvvPattern.MatchString(cvv) {
		violations = append(violations, cvvErrMsg)
	}

	violations = append(violations, h.validateExpiry(expiry)...)

	if len(violations) > 0 {
		return dispatch.Failed(violations...), nil
	}
	return dispatch.OK(), nil
}

// Execute simulates the charge and returns a completed result.
func (h *CreditCardHandler) Execute(req Request) (*Result, error) {
	if err := dispatch.SimulateFailure(h.sampler, h.failureRate, insufficientFunds); err != nil {
		return nil, err
	}
	fee, _ := h.EstimateFee(req)
	return completedResult(req, fee, h.clock.Now()), nil
}

// EstimateFee computes 2.9% + EUR 0.30, rounded half-up to two decimals.
func (h *CreditCardHandler) EstimateFee(req Request) (decimal.Decimal, error) {
	return req.Amount.Mul(creditCardFeeRate).Add(creditCardFeeFlat).Round(2), nil
}

// validateExpiry checks MM/yyyy format and that the card is still valid; a
// card stays valid through the last day of its stated month.
func (h *CreditCardHandler) validateExpiry(expiry string) []string {
	if !expiryPattern.MatchString(expiry) {
		return []string{expiryFormatMsg}
	}

	parts := strings.SplitN(expiry, "/", 2)
	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])

	// Day zero of the following month is the last day of the stated month.
	lastDay := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 0, time.UTC)
	if lastDay.Before(h.clock.Now().UTC()) {
		return []string{cardExpiredMsg}
	}
	return nil
}

// passesLuhnCheck applies the Luhn checksum: from the right, double every
// second digit (subtracting 9 when the double exceeds 9) and require the sum
// to be a multiple of ten.
func passesLuhnCheck(cardNumber string) bool {
	sum := 0
	alternate := false
	for i := len(cardNumber) - 1; i >= 0; i-- {
		digit := int(cardNumber[i] - '0')
		if alternate {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		alternate = !alternate
	}
	return sum%10 == 0
}

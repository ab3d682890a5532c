package payment

import (
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// PayPal fees: 3.4% + EUR 0.35 per transaction, rounded half-up to two
// decimals.
var (
	payPalFeeRate = decimal.RequireFromString("0.034")
	payPalFeeFlat = decimal.RequireFromString("0.35")
)

const (
	payPalEmailKey = "email"
	payPalTokenKey = "token"

	payPalEmailErrMsg = "Email must be in format: smth@gmail.com"
	payPalTokenErrMsg = "Token must be in format: Bearer [10 tokens]"
)

// The account email is restricted to gmail.com addresses; the OAuth token is
// a ten-hex-character bearer token.
var (
	payPalEmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@gmail\.com$`)
	payPalTokenPattern = regexp.MustCompile(`^Bearer [a-fA-F0-9]{10}$`)
)

// PayPalHandler processes PayPal payments.
type PayPalHandler struct {
	sampler     dispatch.Sampler
	clock       clockz.Clock
	failureRate float64
}

// NewPayPalHandler creates the PayPal handler.
func NewPayPalHandler(sampler dispatch.Sampler, clock clockz.Clock, failureRate float64) *PayPalHandler {
	return &PayPalHandler{sampler: sampler, clock: clock, failureRate: failureRate}
}

// Validate checks the account email and the OAuth token.
func (h *PayPalHandler) Validate(req Request) (dispatch.ValidationResult, error) {
	email, err := req.Details.Require(payPalEmailKey)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}
	token, err := req.Details.Require(payPalTokenKey)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}

	var violations []string
	if !payPalEmailPattern.MatchString(email) {
		violations = append(violations, payPalEmailErrMsg)
	}
	if !payPalTokenPattern.MatchString(token) {
		violations = append(violations, payPalTokenErrMsg)
	}

	if len(violations) > 0 {
		return dispatch.Failed(violations...), nil
	}
	return dispatch.OK(), nil
}

// Execute simulates the transfer and returns a completed result.
func (h *PayPalHandler) Execute(req Request) (*Result, error) {
	if err := dispatch.SimulateFailure(h.sampler, h.failureRate, insufficientFunds); err != nil {
		return nil, err
	}
	fee, _ := h.EstimateFee(req)
	return completedResult(req, fee, h.clock.Now()), nil
}

// EstimateFee computes 3.4% + EUR 0.35, rounded half-up to two decimals.
func (h *PayPalHandler) EstimateFee(req Request) (decimal.Decimal, error) {
	return req.Amount.Mul(payPalFeeRate).Add(payPalFeeFlat).Round(2), nil
}

package notification

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// SMS delivery costs EUR 0.05 per 160-character segment. Messages above 1600
// characters are rejected.
var smsSegmentCost = decimal.RequireFromString("0.05")

const (
	smsSegmentLength    = 160
	smsMessageMaxLength = 1600

	smsPhoneErrMsg      = "Phone number must be in E.164 format"
	smsGatewayErrReason = "SMS gateway timeout"
)

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// SMSHandler delivers notifications over the simulated SMS gateway.
type SMSHandler struct {
	sampler     dispatch.Sampler
	clock       clockz.Clock
	failureRate float64
}

// NewSMSHandler creates the SMS handler.
func NewSMSHandler(sampler dispatch.Sampler, clock clockz.Clock, failureRate float64) *SMSHandler {
	return &SMSHandler{sampler: sampler, clock: clock, failureRate: failureRate}
}

// Validate checks the E.164 phone number and the total message length.
func (h *SMSHandler) Validate(req Request) (dispatch.ValidationResult, error) {
	recipient, err := requireRecipient(req)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}
	if _, err := requireMessage(req); err != nil {
		return dispatch.ValidationResult{}, err
	}

	var violations []string
	if !e164Pattern.MatchString(recipient) {
		violations = append(violations, smsPhoneErrMsg)
	}
	if len([]rune(req.Message)) > smsMessageMaxLength {
		violations = append(violations, fmt.Sprintf("Message must not exceed %d characters", smsMessageMaxLength))
	}

	if len(violations) > 0 {
		return dispatch.Failed(violations...), nil
	}
	return dispatch.OK(), nil
}

// Send simulates the gateway handoff and returns a sent result.
func (h *SMSHandler) Send(req Request) (*Result, error) {
	if err := dispatch.SimulateFailure(h.sampler, h.failureRate, smsGatewayErrReason); err != nil {
		return nil, err
	}
	cost, _ := h.EstimateCost(req)
	return sentResult(req, cost, "SMSGW", h.clock.Now()), nil
}

// EstimateCost multiplies the per-segment cost by the segment count; a
// message occupies one segment per started 160 characters.
func (h *SMSHandler) EstimateCost(req Request) (decimal.Decimal, error) {
	length := len([]rune(req.Message))
	segments := (length + smsSegmentLength - 1) / smsSegmentLength
	if segments < 1 {
		segments = 1
	}
	return smsSegmentCost.Mul(decimal.NewFromInt(int64(segments))), nil
}

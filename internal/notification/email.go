package notification

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// Email delivery costs a flat EUR 0.001 per message.
var emailCost = decimal.RequireFromString("0.001")

const (
	emailSubjectMaxLength = 200
	emailMessageMaxLength = 10000

	emailAddressErrMsg     = "Invalid email address format"
	emailProviderErrReason = "Email provider unavailable"
)

var emailAddressPattern = regexp.MustCompile(`^[\w+_.-]+@[\w.-]+$`)

// EmailHandler delivers notifications over the simulated SMTP gateway.
type EmailHandler struct {
	sampler     dispatch.Sampler
	clock       clockz.Clock
	failureRate float64
}

// NewEmailHandler creates the email handler.
func NewEmailHandler(sampler dispatch.Sampler, clock clockz.Clock, failureRate float64) *EmailHandler {
	return &EmailHandler{sampler: sampler, clock: clock, failureRate: failureRate}
}

// Validate checks the recipient address format and the subject/message length
// limits.
func (h *EmailHandler) Validate(req Request) (dispatch.ValidationResult, error) {
	recipient, err := requireRecipient(req)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}
	if _, err := requireMessage(req); err != nil {
		return dispatch.ValidationResult{}, err
	}

	var violations []string
	if !emailAddressPattern.MatchString(recipient) {
		violations = append(violations, emailAddressErrMsg)
	}
	if len([]rune(req.Subject)) > emailSubjectMaxLength {
		violations = append(violations, fmt.Sprintf("Subject must not exceed %d characters", emailSubjectMaxLength))
	}
	if len([]rune(req.Message)) > emailMessageMaxLength {
		violations = append(violations, fmt.Sprintf("Message must not exceed %d characters", emailMessageMaxLength))
	}

	if len(violations) > 0 {
		return dispatch.Failed(violations...), nil
	}
	return dispatch.OK(), nil
}

// Send simulates the SMTP handoff and returns a sent result.
func (h *EmailHandler) Send(req Request) (*Result, error) {
	if err := dispatch.SimulateFailure(h.sampler, h.failureRate, emailProviderErrReason); err != nil {
		return nil, err
	}
	cost, _ := h.EstimateCost(req)
	return sentResult(req, cost, "SMTP", h.clock.Now()), nil
}

// EstimateCost returns the flat per-message cost.
func (h *EmailHandler) EstimateCost(req Request) (decimal.Decimal, error) {
	return emailCost, nil
}

func requireRecipient(req Request) (string, error) {
	return dispatch.RequireValue("recipient", req.Recipient)
}

func requireMessage(req Request) (string, error) {
	return dispatch.RequireValue("message", req.Message)
}

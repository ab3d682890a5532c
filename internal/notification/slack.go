package notification

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

const (
	slackMessageMaxLength = 4000

	slackRecipientErrMsg = "Recipient must be a #channel or @user"
	slackAPIErrReason    = "Slack API rate limited"
)

var slackRecipientPattern = regexp.MustCompile(`^[#@][\w-]+$`)

// SlackHandler delivers notifications to the simulated Slack workspace.
// Workspace messages are free.
type SlackHandler struct {
	sampler     dispatch.Sampler
	clock       clockz.Clock
	failureRate float64
}

// NewSlackHandler creates the Slack handler.
func NewSlackHandler(sampler dispatch.Sampler, clock clockz.Clock, failureRate float64) *SlackHandler {
	return &SlackHandler{sampler: sampler, clock: clock, failureRate: failureRate}
}

// Validate checks the #channel/@user recipient format and the message length.
func (h *SlackHandler) Validate(req Request) (dispatch.ValidationResult, error) {
	recipient, err := requireRecipient(req)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}
	if _, err := requireMessage(req); err != nil {
		return dispatch.ValidationResult{}, err
	}

	var violations []string
	if !slackRecipientPattern.MatchString(recipient) {
		violations = append(violations, slackRecipientErrMsg)
	}
	if len([]rune(req.Message)) > slackMessageMaxLength {
		violations = append(violations, fmt.Sprintf("Message must not exceed %d characters", slackMessageMaxLength))
	}

	if len(violations) > 0 {
		return dispatch.Failed(violations...), nil
	}
	return dispatch.OK(), nil
}

// Send simulates the workspace API call and returns a sent result.
func (h *SlackHandler) Send(req Request) (*Result, error) {
	if err := dispatch.SimulateFailure(h.sampler, h.failureRate, slackAPIErrReason); err != nil {
		return nil, err
	}
	cost, _ := h.EstimateCost(req)
	return sentResult(req, cost, "SLACK", h.clock.Now()), nil
}

// EstimateCost returns zero; workspace messages are free.
func (h *SlackHandler) EstimateCost(req Request) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

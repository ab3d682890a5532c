package notification

import (
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// Push delivery costs a flat EUR 0.0001 per message.
var pushCost = decimal.RequireFromString("0.0001")

const (
	deviceTokenKey = "deviceToken"

	pushPayloadMaxBytes = 4096

	pushTokenErrMsg      = "Device token must be 64 hexadecimal characters"
	pushPayloadErrMsg    = "Notification payload must be under 4KB"
	pushServiceErrReason = "Push service unavailable"
)

var deviceTokenPattern = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)

// PushHandler delivers notifications over the simulated mobile push service.
type PushHandler struct {
	sampler     dispatch.Sampler
	clock       clockz.Clock
	failureRate float64
}

// NewPushHandler creates the push handler.
func NewPushHandler(sampler dispatch.Sampler, clock clockz.Clock, failureRate float64) *PushHandler {
	return &PushHandler{sampler: sampler, clock: clock, failureRate: failureRate}
}

// Validate checks the device token format and the estimated payload size
// (message + subject + metadata).
func (h *PushHandler) Validate(req Request) (dispatch.ValidationResult, error) {
	if _, err := requireRecipient(req); err != nil {
		return dispatch.ValidationResult{}, err
	}
	if _, err := requireMessage(req); err != nil {
		return dispatch.ValidationResult{}, err
	}
	token, err := req.Metadata.Require(deviceTokenKey)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}

	var violations []string
	if !deviceTokenPattern.MatchString(token) {
		violations = append(violations, pushTokenErrMsg)
	}
	if estimatedPayloadSize(req) >= pushPayloadMaxBytes {
		violations = append(violations, pushPayloadErrMsg)
	}

	if len(violations) > 0 {
		return dispatch.Failed(violations...), nil
	}
	return dispatch.OK(), nil
}

// Send simulates the push service handoff and returns a sent result.
func (h *PushHandler) Send(req Request) (*Result, error) {
	if err := dispatch.SimulateFailure(h.sampler, h.failureRate, pushServiceErrReason); err != nil {
		return nil, err
	}
	cost, _ := h.EstimateCost(req)
	return sentResult(req, cost, "FCM", h.clock.Now()), nil
}

// EstimateCost returns the flat per-message cost.
func (h *PushHandler) EstimateCost(req Request) (decimal.Decimal, error) {
	return pushCost, nil
}

func estimatedPayloadSize(req Request) int {
	size := len(req.Message) + len(req.Subject)
	for k, v := range req.Metadata {
		size += len(k) + len(v)
	}
	return size
}

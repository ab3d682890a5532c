package notification

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// Request is a single notification to send. Built by the caller, immutable
// once built, consumed by exactly one handler.
type Request struct {
	Recipient string
	Subject   string
	Message   string
	Channel   Channel
	Priority  Priority
	Metadata  dispatch.Params
}

// Result is the immutable outcome of a completed send.
type Result struct {
	NotificationID    string          `json:"notification_id"`
	Status            Status          `json:"status"`
	Channel           Channel         `json:"channel"`
	SentAt            time.Time       `json:"sent_at"`
	ProviderReference string          `json:"provider_reference,omitempty"`
	Cost              decimal.Decimal `json:"cost"`
}

// MarshalJSON renders the cost through dispatch.FormatMoney, keeping the
// sub-cent precision of the cheaper channels.
func (r *Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal(&struct {
		*alias
		Cost string `json:"cost"`
	}{
		alias: (*alias)(r),
		Cost:  dispatch.FormatMoney(r.Cost),
	})
}

// Handler is the polymorphic contract every notification channel implements.
// The semantics mirror the payment Handler: Validate is deterministic and
// returns the ordered violation list, Send assumes validation passed, and
// EstimateCost computes the delivery cost without sending.
type Handler interface {
	Validate(req Request) (dispatch.ValidationResult, error)
	Send(req Request) (*Result, error)
	EstimateCost(req Request) (decimal.Decimal, error)
}

const notificationIDPrefix = "NOTIF"

func sentResult(req Request, cost decimal.Decimal, providerPrefix string, at time.Time) *Result {
	return &Result{
		NotificationID:    dispatch.NewIdentifier(notificationIDPrefix),
		Status:            StatusSent,
		Channel:           req.Channel,
		SentAt:            at,
		ProviderReference: dispatch.NewIdentifier(providerPrefix),
		Cost:              cost,
	}
}

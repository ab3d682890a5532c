// Package audit persists dispatch outcomes for statistics and reporting. The
// dispatch core never writes here directly; the services hand finished
// results to the recorder.
package audit

import "time"

// Record kinds.
const (
	KindPayment      = "payment"
	KindNotification = "notification"
)

// Record is one persisted dispatch outcome.
type Record struct {
	ID           int64     `json:"id"`
	Kind         string    `json:"kind"`
	Discriminant string    `json:"discriminant"`
	Identifier   string    `json:"identifier"`
	Status       string    `json:"status"`
	Amount       string    `json:"amount,omitempty"`
	Fee          string    `json:"fee,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	Recipient    string    `json:"recipient,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// StatusCount aggregates records per kind and status for reporting.
type StatusCount struct {
	Kind   string
	Status string
	Count  int64
}

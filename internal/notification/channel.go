// Package notification implements the simulated notification dispatch domain:
// the channel handlers (email, SMS, push, Slack), their validation rules and
// cost formulas, and the dispatching service that routes requests through the
// handler registry.
package notification

import (
	"strings"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// Channel identifies a notification delivery handler. The set is closed and
// defined at compile time.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
	ChannelPush  Channel = "PUSH"
	ChannelSlack Channel = "SLACK"
)

// Channels returns the declared channel set, used for fail-fast registry
// construction.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelPush, ChannelSlack}
}

// ParseChannel converts caller input into a Channel. Unknown values fail with
// UnsupportedDiscriminantError so the shell can map them to a client error.
func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush, ChannelSlack:
		return c, nil
	}
	return "", &dispatch.UnsupportedDiscriminantError{Kind: "notification channel", Value: s}
}

// Priority orders notifications for downstream consumers. The core does not
// act on it; it is carried through to the audit trail.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

// Status is the outcome of a send attempt.
type Status string

const (
	StatusSent   Status = "SENT"
	StatusFailed Status = "FAILED"
)

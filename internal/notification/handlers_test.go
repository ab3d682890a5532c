package notification

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

func neverFail() dispatch.Sampler {
	return dispatch.SampleFunc(func() float64 { return 0.99 })
}

func alwaysFail() dispatch.Sampler {
	return dispatch.SampleFunc(func() float64 { return 0.0 })
}

func TestEmailHandler_Validate(t *testing.T) {
	h := NewEmailHandler(neverFail(), clockz.RealClock, 0.1)

	tests := []struct {
		name      string
		req       Request
		violation string
	}{
		{
			name: "valid email passes",
			req:  Request{Recipient: "ops@example.com", Subject: "hi", Message: "body", Channel: ChannelEmail},
		},
		{
			name:      "malformed address rejected",
			req:       Request{Recipient: "not-an-email", Message: "body", Channel: ChannelEmail},
			violation: "Invalid email address format",
		},
		{
			name: "oversized subject rejected",
			req: Request{
				Recipient: "ops@example.com",
				Subject:   strings.Repeat("s", 201),
				Message:   "body",
				Channel:   ChannelEmail,
			},
			violation: "Subject must not exceed 200 characters",
		},
		{
			name: "oversized message rejected",
			req: Request{
				Recipient: "ops@example.com",
				Message:   strings.Repeat("m", 10001),
				Channel:   ChannelEmail,
			},
			violation: "Message must not exceed 10000 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vr, err := h.Validate(tt.req)
			require.NoError(t, err)

			if tt.violation == "" {
				assert.True(t, vr.Valid)
			} else {
				assert.False(t, vr.Valid)
				assert.Contains(t, vr.Errors, tt.violation)
			}
		})
	}
}

func TestEmailHandler_MissingRecipient(t *testing.T) {
	h := NewEmailHandler(neverFail(), clockz.RealClock, 0.1)

	_, err := h.Validate(Request{Message: "body", Channel: ChannelEmail})
	require.Error(t, err)

	var missing *dispatch.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "recipient", missing.Field)
}

func TestEmailHandler_EstimateCost(t *testing.T) {
	h := NewEmailHandler(neverFail(), clockz.RealClock, 0.1)

	cost, err := h.EstimateCost(Request{Recipient: "ops@example.com", Message: "body"})
	require.NoError(t, err)
	assert.Equal(t, "0.001", cost.String())
}

func TestSMSHandler_EstimateCostSegments(t *testing.T) {
	h := NewSMSHandler(neverFail(), clockz.RealClock, 0.1)

	tests := []struct {
		name     string
		length   int
		expected string
	}{
		{name: "single segment", length: 160, expected: "0.05"},
		{name: "two segments at 161 chars", length: 161, expected: "0.10"},
		{name: "short message is one segment", length: 1, expected: "0.05"},
		{name: "ten segments", length: 1600, expected: "0.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := h.EstimateCost(Request{
				Recipient: "+306912345678",
				Message:   strings.Repeat("x", tt.length),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cost.StringFixed(2))
		})
	}
}

func TestSMSHandler_Validate(t *testing.T) {
	h := NewSMSHandler(neverFail(), clockz.RealClock, 0.1)

	tests := []struct {
		name      string
		recipient string
		message   string
		violation string
	}{
		{
			name:      "valid E.164 number passes",
			recipient: "+306912345678",
			message:   "hello",
		},
		{
			name:      "number without plus rejected",
			recipient: "306912345678",
			message:   "hello",
			violation: "Phone number must be in E.164 format",
		},
		{
			name:      "leading zero rejected",
			recipient: "+0306912345678",
			message:   "hello",
			violation: "Phone number must be in E.164 format",
		},
		{
			name:      "message above 1600 chars rejected",
			recipient: "+306912345678",
			message:   strings.Repeat("x", 1601),
			violation: "Message must not exceed 1600 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vr, err := h.Validate(Request{Recipient: tt.recipient, Message: tt.message, Channel: ChannelSMS})
			require.NoError(t, err)

			if tt.violation == "" {
				assert.True(t, vr.Valid)
			} else {
				assert.False(t, vr.Valid)
				assert.Contains(t, vr.Errors, tt.violation)
			}
		})
	}
}

func TestPushHandler_Validate(t *testing.T) {
	h := NewPushHandler(neverFail(), clockz.RealClock, 0.1)
	validToken := strings.Repeat("ab12", 16)

	tests := []struct {
		name      string
		req       Request
		violation string
	}{
		{
			name: "valid token and payload pass",
			req: Request{
				Recipient: "device-1",
				Message:   "ping",
				Channel:   ChannelPush,
				Metadata:  dispatch.Params{"deviceToken": validToken},
			},
		},
		{
			name: "short token rejected",
			req: Request{
				Recipient: "device-1",
				Message:   "ping",
				Channel:   ChannelPush,
				Metadata:  dispatch.Params{"deviceToken": "abc123"},
			},
			violation: "Device token must be 64 hexadecimal characters",
		},
		{
			name: "oversized payload rejected",
			req: Request{
				Recipient: "device-1",
				Message:   strings.Repeat("x", 5000),
				Channel:   ChannelPush,
				Metadata:  dispatch.Params{"deviceToken": validToken},
			},
			violation: "Notification payload must be under 4KB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vr, err := h.Validate(tt.req)
			require.NoError(t, err)

			if tt.violation == "" {
				assert.True(t, vr.Valid)
			} else {
				assert.False(t, vr.Valid)
				assert.Contains(t, vr.Errors, tt.violation)
			}
		})
	}
}

func TestPushHandler_MissingDeviceToken(t *testing.T) {
	h := NewPushHandler(neverFail(), clockz.RealClock, 0.1)

	_, err := h.Validate(Request{Recipient: "device-1", Message: "ping", Channel: ChannelPush})
	require.Error(t, err)

	var missing *dispatch.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "deviceToken", missing.Field)
}

func TestSlackHandler_Validate(t *testing.T) {
	h := NewSlackHandler(neverFail(), clockz.RealClock, 0.1)

	tests := []struct {
		name      string
		recipient string
		message   string
		violation string
	}{
		{name: "channel recipient passes", recipient: "#payments-alerts", message: "deploy done"},
		{name: "user recipient passes", recipient: "@mike", message: "deploy done"},
		{
			name:      "bare name rejected",
			recipient: "payments-alerts",
			message:   "deploy done",
			violation: "Recipient must be a #channel or @user",
		},
		{
			name:      "message above 4000 chars rejected",
			recipient: "#payments-alerts",
			message:   strings.Repeat("x", 4001),
			violation: "Message must not exceed 4000 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vr, err := h.Validate(Request{Recipient: tt.recipient, Message: tt.message, Channel: ChannelSlack})
			require.NoError(t, err)

			if tt.violation == "" {
				assert.True(t, vr.Valid)
			} else {
				assert.False(t, vr.Valid)
				assert.Contains(t, vr.Errors, tt.violation)
			}
		})
	}
}

func TestSlackHandler_CostIsZero(t *testing.T) {
	h := NewSlackHandler(neverFail(), clockz.RealClock, 0.1)

	cost, err := h.EstimateCost(Request{Recipient: "#ops", Message: "hi"})
	require.NoError(t, err)
	assert.True(t, cost.IsZero())
}

func TestHandlers_SendSimulatedFailures(t *testing.T) {
	clock := clockz.NewFakeClock()

	tests := []struct {
		name    string
		handler Handler
		req     Request
		reason  string
	}{
		{
			name:    "email provider unavailable",
			handler: NewEmailHandler(alwaysFail(), clock, 0.1),
			req:     Request{Recipient: "ops@example.com", Message: "body", Channel: ChannelEmail},
			reason:  "Email provider unavailable",
		},
		{
			name:    "sms gateway timeout",
			handler: NewSMSHandler(alwaysFail(), clock, 0.1),
			req:     Request{Recipient: "+306912345678", Message: "hi", Channel: ChannelSMS},
			reason:  "SMS gateway timeout",
		},
		{
			name:    "push service unavailable",
			handler: NewPushHandler(alwaysFail(), clock, 0.1),
			req: Request{
				Recipient: "device-1",
				Message:   "ping",
				Channel:   ChannelPush,
				Metadata:  dispatch.Params{"deviceToken": strings.Repeat("ab12", 16)},
			},
			reason: "Push service unavailable",
		},
		{
			name:    "slack rate limited",
			handler: NewSlackHandler(alwaysFail(), clock, 0.1),
			req:     Request{Recipient: "#ops", Message: "hi", Channel: ChannelSlack},
			reason:  "Slack API rate limited",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.handler.Send(tt.req)
			require.Error(t, err)

			var perr *dispatch.ProcessingError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.reason, perr.Reason)
		})
	}
}

func TestHandlers_SendProducesIdentifiersAndTimestamps(t *testing.T) {
	clock := clockz.NewFakeClock()
	h := NewEmailHandler(neverFail(), clock, 0.1)

	result, err := h.Send(Request{Recipient: "ops@example.com", Message: "body", Channel: ChannelEmail})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, result.Status)
	assert.True(t, strings.HasPrefix(result.NotificationID, "NOTIF-"))
	assert.True(t, strings.HasPrefix(result.ProviderReference, "SMTP-"))
	assert.True(t, result.SentAt.Equal(clock.Now()))
	assert.Equal(t, "0.001", result.Cost.String())
}

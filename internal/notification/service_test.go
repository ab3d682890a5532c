package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/audit"
	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

type mockRecorder struct {
	mu      sync.Mutex
	records []*audit.Record
}

func (m *mockRecorder) Record(ctx context.Context, rec *audit.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func newTestService(t *testing.T, sampler dispatch.Sampler, recorder Recorder) Service {
	t.Helper()
	registry, err := NewRegistry(DefaultSimulationConfig(), sampler, clockz.NewFakeClock())
	require.NoError(t, err)
	return NewService(registry, recorder, nil, &mockLogger{})
}

func TestService_SendEmail(t *testing.T) {
	recorder := &mockRecorder{}
	svc := newTestService(t, neverFail(), recorder)

	result, err := svc.Send(context.Background(), Request{
		Recipient: "ops@example.com",
		Subject:   "Build finished",
		Message:   "All green.",
		Channel:   ChannelEmail,
		Priority:  PriorityNormal,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, result.Status)
	assert.NotEmpty(t, result.NotificationID)
	assert.Equal(t, ChannelEmail, result.Channel)

	require.Len(t, recorder.records, 1)
	rec := recorder.records[0]
	assert.Equal(t, audit.KindNotification, rec.Kind)
	assert.Equal(t, "EMAIL", rec.Discriminant)
	assert.Equal(t, "SENT", rec.Status)
	assert.Equal(t, "ops@example.com", rec.Recipient)
}

func TestService_SendUnsupportedChannel(t *testing.T) {
	svc := newTestService(t, neverFail(), nil)

	_, err := svc.Send(context.Background(), Request{
		Recipient: "ops@example.com",
		Message:   "hi",
		Channel:   Channel("PIGEON"),
	})
	require.Error(t, err)

	var unsupported *dispatch.UnsupportedDiscriminantError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "notification channel", unsupported.Kind)
}

func TestService_SendValidationFailureStopsDispatch(t *testing.T) {
	svc := newTestService(t, alwaysFail(), nil)

	// The sampler would force a delivery failure, but validation stops the
	// dispatch first.
	_, err := svc.Send(context.Background(), Request{
		Recipient: "not-a-number",
		Message:   "hi",
		Channel:   ChannelSMS,
	})
	require.Error(t, err)

	var verr *dispatch.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Violations, "Phone number must be in E.164 format")
}

func TestService_EstimateCost(t *testing.T) {
	svc := newTestService(t, neverFail(), nil)

	cost, err := svc.EstimateCost(context.Background(), Request{
		Recipient: "+306912345678",
		Message:   "short",
		Channel:   ChannelSMS,
	})
	require.NoError(t, err)
	assert.Equal(t, "0.05", cost.StringFixed(2))
}

func TestService_SupportedChannels(t *testing.T) {
	svc := newTestService(t, neverFail(), nil)

	assert.Equal(t, []Channel{ChannelEmail, ChannelPush, ChannelSlack, ChannelSMS}, svc.SupportedChannels())
}

func TestResult_JSONKeepsSubCentCost(t *testing.T) {
	result := &Result{
		NotificationID: "NOTIF-AAAA1111",
		Status:         StatusSent,
		Channel:        ChannelEmail,
		Cost:           decimal.RequireFromString("0.001"),
	}

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "0.001", got["cost"])

	result.Channel = ChannelSMS
	result.Cost = decimal.RequireFromString("0.1")

	raw, err = json.Marshal(result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "0.10", got["cost"])
}

func TestParseChannel(t *testing.T) {
	c, err := ParseChannel("slack")
	require.NoError(t, err)
	assert.Equal(t, ChannelSlack, c)

	_, err = ParseChannel("PIGEON")
	var unsupported *dispatch.UnsupportedDiscriminantError
	require.True(t, errors.As(err, &unsupported))
}

package notification

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/audit"
	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Recorder receives finished dispatch outcomes for persistence. Recording is
// best-effort; a recorder failure never fails the dispatch.
type Recorder interface {
	Record(ctx context.Context, rec *audit.Record) error
}

// MetricsObserver counts dispatch outcomes.
type MetricsObserver interface {
	ObserveDispatch(kind, discriminant, status string)
}

// SimulationConfig holds the failure-injection rates for the notification
// handlers.
type SimulationConfig struct {
	EmailFailureRate float64
	SMSFailureRate   float64
	PushFailureRate  float64
	SlackFailureRate float64
}

// DefaultSimulationConfig returns a uniform 10% delivery failure rate across
// channels.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		EmailFailureRate: 0.10,
		SMSFailureRate:   0.10,
		PushFailureRate:  0.10,
		SlackFailureRate: 0.10,
	}
}

// NewRegistry wires every declared channel to its handler. Fails at startup
// if the wiring is incomplete.
func NewRegistry(cfg SimulationConfig, sampler dispatch.Sampler, clock clockz.Clock) (*dispatch.Registry[Channel, Handler], error) {
	return dispatch.NewRegistry("notification channel", Channels(), map[Channel]Handler{
		ChannelEmail: NewEmailHandler(sampler, clock, cfg.EmailFailureRate),
		ChannelSMS:   NewSMSHandler(sampler, clock, cfg.SMSFailureRate),
		ChannelPush:  NewPushHandler(sampler, clock, cfg.PushFailureRate),
		ChannelSlack: NewSlackHandler(sampler, clock, cfg.SlackFailureRate),
	})
}

// Service dispatches notification requests to the handler registered for
// their channel.
type Service interface {
	Send(ctx context.Context, req Request) (*Result, error)
	EstimateCost(ctx context.Context, req Request) (decimal.Decimal, error)
	SupportedChannels() []Channel
}

type serviceImpl struct {
	registry *dispatch.Registry[Channel, Handler]
	recorder Recorder
	metrics  MetricsObserver
	logger   Logger
}

// NewService creates a new notification Service. recorder and metrics may be
// nil.
func NewService(registry *dispatch.Registry[Channel, Handler], recorder Recorder, metrics MetricsObserver, logger Logger) Service {
	return &serviceImpl{
		registry: registry,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger,
	}
}

// Send resolves the handler for the request's channel, validates, sends, and
// surfaces the result or the typed error unmodified.
func (s *serviceImpl) Send(ctx context.Context, req Request) (*Result, error) {
	handler, err := s.registry.Resolve(req.Channel)
	if err != nil {
		s.observe(string(req.Channel), "unsupported")
		return nil, err
	}

	vr, err := handler.Validate(req)
	if err != nil {
		s.observe(string(req.Channel), "invalid")
		return nil, err
	}
	if !vr.Valid {
		s.logger.Info("Notification validation failed",
			"channel", req.Channel,
			"violations", len(vr.Errors),
		)
		s.observe(string(req.Channel), "invalid")
		return nil, vr.Err()
	}

	result, err := handler.Send(req)
	if err != nil {
		s.logger.Error("Notification delivery failed",
			"channel", req.Channel,
			"error", err,
		)
		s.observe(string(req.Channel), "failed")
		s.record(ctx, req, nil, err)
		return nil, err
	}

	s.logger.Info("Notification sent",
		"channel", req.Channel,
		"notification_id", result.NotificationID,
		"cost", result.Cost.String(),
	)
	s.observe(string(req.Channel), "sent")
	s.record(ctx, req, result, nil)

	return result, nil
}

// EstimateCost resolves the handler and delegates; no validation or delivery
// happens.
func (s *serviceImpl) EstimateCost(ctx context.Context, req Request) (decimal.Decimal, error) {
	handler, err := s.registry.Resolve(req.Channel)
	if err != nil {
		return decimal.Zero, err
	}
	return handler.EstimateCost(req)
}

// SupportedChannels lists the registered channels in lexical order.
func (s *serviceImpl) SupportedChannels() []Channel {
	channels := s.registry.Discriminants()
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	return channels
}

func (s *serviceImpl) observe(channel, status string) {
	if s.metrics != nil {
		s.metrics.ObserveDispatch(audit.KindNotification, channel, status)
	}
}

func (s *serviceImpl) record(ctx context.Context, req Request, result *Result, sendErr error) {
	if s.recorder == nil {
		return
	}

	rec := &audit.Record{
		Kind:         audit.KindNotification,
		Discriminant: string(req.Channel),
		Recipient:    req.Recipient,
	}

	if result != nil {
		rec.Identifier = result.NotificationID
		rec.Status = string(result.Status)
		rec.Fee = result.Cost.String()
		rec.CreatedAt = result.SentAt
	} else {
		rec.Status = string(StatusFailed)
		var perr *dispatch.ProcessingError
		if errors.As(sendErr, &perr) {
			rec.ErrorMessage = perr.Reason
		}
	}

	if err := s.recorder.Record(ctx, rec); err != nil {
		s.logger.Error("Failed to record notification outcome",
			"channel", req.Channel,
			"error", err,
		)
	}
}

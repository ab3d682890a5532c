package payment

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

// SimulationConfig holds the failure-injection rates for the payment
// handlers.
type SimulationConfig struct {
	CardFailureRate        float64
	PayPalFailureRate      float64
	BankFailureRate        float64
	CryptoCongestionChance float64
	CryptoCongestionRate   float64
}

// DefaultSimulationConfig returns the observed production rates: 10% for
// card, PayPal and bank transfers; crypto congestion-gated 15% -> 30%.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		CardFailureRate:        0.10,
		PayPalFailureRate:      0.10,
		BankFailureRate:        0.10,
		CryptoCongestionChance: 0.15,
		CryptoCongestionRate:   0.30,
	}
}

// NewRegistry wires every declared payment method to its handler. Fails at
// startup if the wiring is incomplete.
func NewRegistry(cfg SimulationConfig, sampler dispatch.Sampler, clock clockz.Clock) (*dispatch.Registry[Method, Handler], error) {
	return dispatch.NewRegistry("payment method", Methods(), map[Method]Handler{
		MethodCreditCard:   NewCreditCardHandler(sampler, clock, cfg.CardFailureRate),
		MethodPayPal:       NewPayPalHandler(sampler, clock, cfg.PayPalFailureRate),
		MethodCrypto:       NewCryptoHandler(sampler, clock, cfg.CryptoCongestionChance, cfg.CryptoCongestionRate),
		MethodBankTransfer: NewBankTransferHandler(sampler, clock, cfg.BankFailureRate),
	})
}

// Service dispatches payment requests to the handler registered for their
// method.
type Service interface {
	Process(ctx context.Context, req Request) (*Result, error)
	EstimateFee(ctx context.Context, req Request) (decimal.Decimal, error)
	SupportedMethods() []Method
}

type serviceImpl struct {
	registry *dispatch.Registry[Method, Handler]
	recorder Recorder
	metrics  MetricsObserver
	logger   Logger
}

// NewService creates a new payment Service. recorder and metrics may be nil.
func NewService(registry *dispatch.Registry[Method, Handler], recorder Recorder, metrics MetricsObserver, logger Logger) Service {
	return &serviceImpl{
		registry: registry,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger,
	}
}

// Process resolves the handler for the request's method, validates, executes,
// and surfaces the result or the typed error unmodified.
func (s *serviceImpl) Process(ctx context.Context, req Request) (*Result, error) {
	handler, err := s.registry.Resolve(req.Method)
	if err != nil {
		s.observe(string(req.Method), "unsupported")
		return nil, err
	}

	vr, err := handler.Validate(req)
	if err != nil {
		s.observe(string(req.Method), "invalid")
		return nil, err
	}
	if !vr.Valid {
		s.logger.Info("Payment validation failed",
			"method", req.Method,
			"violations", len(vr.Errors),
		)
		s.observe(string(req.Method), "invalid")
		return nil, vr.Err()
	}

	result, err := handler.Execute(req)
	if err != nil {
		s.logger.Error("Payment processing failed",
			"method", req.Method,
			"error", err,
		)
		s.observe(string(req.Method), "failed")
		s.record(ctx, req, nil, err)
		return nil, err
	}

	s.logger.Info("Payment completed",
		"method", req.Method,
		"transaction_id", result.TransactionID,
		"fee", result.Fee.String(),
	)
	s.observe(string(req.Method), "completed")
	s.record(ctx, req, result, nil)

	return result, nil
}

// EstimateFee resolves the handler and delegates; no validation or execution
// happens.
func (s *serviceImpl) EstimateFee(ctx context.Context, req Request) (decimal.Decimal, error) {
	handler, err := s.registry.Resolve(req.Method)
	if err != nil {
		return decimal.Zero, err
	}
	return handler.EstimateFee(req)
}

// SupportedMethods lists the registered payment methods in lexical order.
func (s *serviceImpl) SupportedMethods() []Method {
	methods := s.registry.Discriminants()
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods
}

func (s *serviceImpl) observe(method, status string) {
	if s.metrics != nil {
		s.metrics.ObserveDispatch(audit.KindPayment, method, status)
	}
}

func (s *serviceImpl) record(ctx context.Context, req Request, result *Result, procErr error) {
	if s.recorder == nil {
		return
	}

	rec := &audit.Record{
		Kind:         audit.KindPayment,
		Discriminant: string(req.Method),
		Amount:       req.Amount.String(),
		Currency:     string(req.Currency),
	}

	if result != nil {
		rec.Identifier = result.TransactionID
		rec.Status = string(result.Status)
		rec.Fee = result.Fee.String()
		rec.CreatedAt = result.Timestamp
	} else {
		rec.Status = string(StatusFailed)
		var perr *dispatch.ProcessingError
		if errors.As(procErr, &perr) {
			rec.ErrorMessage = perr.Reason
		}
	}

	if err := s.recorder.Record(ctx, rec); err != nil {
		s.logger.Error("Failed to record payment outcome",
			"method", req.Method,
			"error", err,
		)
	}
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/miketheofan/dispatchlab/internal/audit"
	"github.com/miketheofan/dispatchlab/internal/dispatch"
	"github.com/miketheofan/dispatchlab/internal/notification"
	"github.com/miketheofan/dispatchlab/internal/payment"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	paymentService      payment.Service
	notificationService notification.Service
	recordStore         RecordStore
	reporter            Reporter
	reportDir           string
	logger              Logger
}

// RecordStore reads persisted dispatch records for the API.
type RecordStore interface {
	ListRecent(ctx context.Context, kind string, limit int) ([]*audit.Record, error)
}

// Reporter writes the transaction report workbook to disk.
type Reporter interface {
	WriteReport(ctx context.Context, outputPath string) error
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	paymentService payment.Service,
	notificationService notification.Service,
	recordStore RecordStore,
	reporter Reporter,
	reportDir string,
	logger Logger,
) *Handlers {
	return &Handlers{
		paymentService:      paymentService,
		notificationService: notificationService,
		recordStore:         recordStore,
		reporter:            reporter,
		reportDir:           reportDir,
		logger:              logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details []string    `json:"details,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// PaymentRequest represents the JSON body for payment endpoints
type PaymentRequest struct {
	Amount   decimal.Decimal   `json:"amount"`
	Currency string            `json:"currency"`
	Method   string            `json:"method"`
	Details  map[string]string `json:"details"`
}

// NotificationRequest represents the JSON body for notification endpoints
type NotificationRequest struct {
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Message   string            `json:"message"`
	Channel   string            `json:"channel"`
	Priority  string            `json:"priority"`
	Metadata  map[string]string `json:"metadata"`
}

// EstimateResponse represents a fee or cost estimate
type EstimateResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

// MarshalJSON renders the estimate through dispatch.FormatMoney so fees keep
// their two-decimal shape and sub-cent costs keep their precision.
func (e EstimateResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount string `json:"amount"`
	}{Amount: dispatch.FormatMoney(e.Amount)})
}

// ReportResponse represents the generated report location
type ReportResponse struct {
	Path string `json:"path"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// ProcessPayment handles POST /api/payments/process
func (h *Handlers) ProcessPayment(c *gin.Context) {
	req, ok := h.bindPaymentRequest(c)
	if !ok {
		return
	}

	result, err := h.paymentService.Process(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// EstimatePaymentFee handles POST /api/payments/estimate-fee
func (h *Handlers) EstimatePaymentFee(c *gin.Context) {
	req, ok := h.bindPaymentRequest(c)
	if !ok {
		return
	}

	fee, err := h.paymentService.EstimateFee(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    EstimateResponse{Amount: fee},
	})
}

// ListPaymentMethods handles GET /api/payments/methods
func (h *Handlers) ListPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.paymentService.SupportedMethods(),
	})
}

// ListNotificationChannels handles GET /api/notifications/channels
func (h *Handlers) ListNotificationChannels(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.notificationService.SupportedChannels(),
	})
}

// SendNotification handles POST /api/notifications/send
func (h *Handlers) SendNotification(c *gin.Context) {
	req, ok := h.bindNotificationRequest(c)
	if !ok {
		return
	}

	result, err := h.notificationService.Send(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// EstimateNotificationCost handles POST /api/notifications/estimate-cost
func (h *Handlers) EstimateNotificationCost(c *gin.Context) {
	req, ok := h.bindNotificationRequest(c)
	if !ok {
		return
	}

	cost, err := h.notificationService.EstimateCost(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    EstimateResponse{Amount: cost},
	})
}

// ListRecords handles GET /api/records
func (h *Handlers) ListRecords(c *gin.Context) {
	kind := c.Query("kind")
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Error:   "limit must be an integer between 1 and 100",
			})
			return
		}
		limit = parsed
	}

	records, err := h.recordStore.ListRecent(c.Request.Context(), kind, limit)
	if err != nil {
		h.logger.Error("Failed to list records", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve records",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    records,
	})
}

// GenerateReport handles GET /api/reports/transactions
func (h *Handlers) GenerateReport(c *gin.Context) {
	name := fmt.Sprintf("transactions_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	outputPath := filepath.Join(h.reportDir, name)

	if err := h.reporter.WriteReport(c.Request.Context(), outputPath); err != nil {
		h.logger.Error("Report generation failed", "path", outputPath, "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "report generation failed",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    ReportResponse{Path: outputPath},
	})
}

func (h *Handlers) bindPaymentRequest(c *gin.Context) (payment.Request, bool) {
	var body PaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Error("Invalid payment request body", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return payment.Request{}, false
	}

	currency, err := payment.ParseCurrency(body.Currency)
	if err != nil {
		h.writeError(c, err)
		return payment.Request{}, false
	}

	method, err := payment.ParseMethod(body.Method)
	if err != nil {
		h.writeError(c, err)
		return payment.Request{}, false
	}

	return payment.Request{
		Amount:   body.Amount,
		Currency: currency,
		Method:   method,
		Details:  dispatch.Params(body.Details),
	}, true
}

func (h *Handlers) bindNotificationRequest(c *gin.Context) (notification.Request, bool) {
	var body NotificationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Error("Invalid notification request body", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return notification.Request{}, false
	}

	channel, err := notification.ParseChannel(body.Channel)
	if err != nil {
		h.writeError(c, err)
		return notification.Request{}, false
	}

	priority := notification.Priority(body.Priority)
	if priority == "" {
		priority = notification.PriorityNormal
	}

	return notification.Request{
		Recipient: body.Recipient,
		Subject:   body.Subject,
		Message:   body.Message,
		Channel:   channel,
		Priority:  priority,
		Metadata:  dispatch.Params(body.Metadata),
	}, true
}

// writeError maps the typed dispatch errors to HTTP statuses. Caller input
// problems are 400, processing failures and everything else are 500.
func (h *Handlers) writeError(c *gin.Context, err error) {
	var missing *dispatch.MissingFieldError
	var validation *dispatch.ValidationError
	var unsupported *dispatch.UnsupportedDiscriminantError
	var processing *dispatch.ProcessingError

	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   missing.Error(),
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "validation failed",
			Details: validation.Violations,
		})
	case errors.As(err, &unsupported):
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   unsupported.Error(),
		})
	case errors.As(err, &processing):
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   processing.Error(),
		})
	default:
		h.logger.Error("Unexpected dispatch error", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "internal server error",
		})
	}
}

package payment

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// Request is a single payment to process. Built by the caller, immutable once
// built, consumed by exactly one handler.
type Request struct {
	Amount   decimal.Decimal
	Currency Currency
	Method   Method
	Details  dispatch.Params
}

// Result is the immutable outcome of a completed payment dispatch.
type Result struct {
	Status        Status          `json:"status"`
	TransactionID string          `json:"transaction_id"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	Currency      Currency        `json:"currency"`
	Fee           decimal.Decimal `json:"fee"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	Method        Method          `json:"method"`
	Timestamp     time.Time       `json:"timestamp"`
}

// MarshalJSON renders the money fields through dispatch.FormatMoney so
// two-decimal amounts keep their trailing zero on the wire.
func (r *Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal(&struct {
		*alias
		NetAmount   string `json:"net_amount"`
		Fee         string `json:"fee"`
		GrossAmount string `json:"gross_amount"`
	}{
		alias:       (*alias)(r),
		NetAmount:   dispatch.FormatMoney(r.NetAmount),
		Fee:         dispatch.FormatMoney(r.Fee),
		GrossAmount: dispatch.FormatMoney(r.GrossAmount),
	})
}

// Handler is the polymorphic contract every payment method implements.
//
// Validate is a deterministic function of the request parameter bag: missing
// required fields fail with MissingFieldError before any method-specific rule
// runs; rule violations come back as an ordered list in the ValidationResult.
// Execute assumes validation already passed and performs fee computation,
// failure simulation and identifier/timestamp generation. EstimateFee computes
// the fee without executing.
type Handler interface {
	Validate(req Request) (dispatch.ValidationResult, error)
	Execute(req Request) (*Result, error)
	EstimateFee(req Request) (decimal.Decimal, error)
}

const txnIDPrefix = "TXN"

func completedResult(req Request, fee decimal.Decimal, at time.Time) *Result {
	return &Result{
		Status:        StatusCompleted,
		TransactionID: dispatch.NewIdentifier(txnIDPrefix),
		NetAmount:     req.Amount,
		Currency:      req.Currency,
		Fee:           fee,
		GrossAmount:   req.Amount.Add(fee),
		Method:        req.Method,
		Timestamp:     at,
	}
}

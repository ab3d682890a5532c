package payment

import (
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

const (
	ibanKey              = "iban"
	bicCodeKey           = "bicCode"
	accountHolderNameKey = "accountHolderName"

	ibanErrMsg = "IBAN must be in format: GR[tokens]"
	bicErrMsg  = "BIC Code is not supported"
)

var (
	ibanPattern = regexp.MustCompile(`^GR\d+$`)
	bicPattern  = regexp.MustCompile(`^\d{5}$`)
)

// BankTransferHandler processes direct bank transfers. Transfers carry no
// processing fee.
type BankTransferHandler struct {
	sampler     dispatch.Sampler
	clock       clockz.Clock
	failureRate float64
}

// NewBankTransferHandler creates the bank transfer handler.
func NewBankTransferHandler(sampler dispatch.Sampler, clock clockz.Clock, failureRate float64) *BankTransferHandler {
	return &BankTransferHandler{sampler: sampler, clock: clock, failureRate: failureRate}
}

// Validate checks the IBAN, the BIC code and account holder name presence.
func (h *BankTransferHandler) Validate(req Request) (dispatch.ValidationResult, error) {
	iban, err := req.Details.Require(ibanKey)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}
	bic, err := req.Details.Require(bicCodeKey)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}
	if _, err := req.Details.Require(accountHolderNameKey); err != nil {
		return dispatch.ValidationResult{}, err
	}

	var violations []string
	if !ibanPattern.MatchString(iban) {
		violations = append(violations, ibanErrMsg)
	}
	if !bicPattern.MatchString(bic) {
		violations = append(violations, bicErrMsg)
	}

	if len(violations) > 0 {
		return dispatch.Failed(violations...), nil
	}
	return dispatch.OK(), nil
}

// Execute simulates the transfer and returns a completed result.
func (h *BankTransferHandler) Execute(req Request) (*Result, error) {
	if err := dispatch.SimulateFailure(h.sampler, h.failureRate, insufficientFunds); err != nil {
		return nil, err
	}
	fee, _ := h.EstimateFee(req)
	return completedResult(req, fee, h.clock.Now()), nil
}

// EstimateFee returns zero; bank transfers are free.
func (h *BankTransferHandler) EstimateFee(req Request) (decimal.Decimal, error) {
	return decimal.Zero.Round(2), nil
}

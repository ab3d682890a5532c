// Package payment implements the simulated payment processing domain: the
// method handlers (credit card, PayPal, crypto, bank transfer), their
// validation rules and fee formulas, and the dispatching service that routes
// requests through the handler registry.
package payment

import (
	"strings"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// Method identifies a payment processing handler. The set is closed and
// defined at compile time.
type Method string

const (
	MethodCreditCard   Method = "CREDIT_CARD"
	MethodPayPal       Method = "PAYPAL"
	MethodCrypto       Method = "CRYPTO"
	MethodBankTransfer Method = "BANK_TRANSFER"
)

// Methods returns the declared payment method set, used for fail-fast
// registry construction.
func Methods() []Method {
	return []Method{MethodCreditCard, MethodPayPal, MethodCrypto, MethodBankTransfer}
}

// ParseMethod converts caller input into a Method. Unknown values fail with
// UnsupportedDiscriminantError so the shell can map them to a client error.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case MethodCreditCard, MethodPayPal, MethodCrypto, MethodBankTransfer:
		return m, nil
	}
	return "", &dispatch.UnsupportedDiscriminantError{Kind: "payment method", Value: s}
}

// Currency is the ISO-style currency tag carried on requests. Amounts are not
// converted; the tag is informational.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// ParseCurrency converts caller input into a Currency.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP:
		return c, nil
	}
	return "", &dispatch.UnsupportedDiscriminantError{Kind: "currency", Value: s}
}

// Status is the outcome of a processing attempt.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

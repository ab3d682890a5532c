package dispatch

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type method string

const (
	methodCard method = "CREDIT_CARD"
	methodWire method = "WIRE"
)

type stubHandler struct{ name string }

func TestNewRegistry_FailsFastOnMissingHandler(t *testing.T) {
	_, err := NewRegistry("payment method", []method{methodCard, methodWire}, map[method]*stubHandler{
		methodCard: {name: "card"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
	assert.Contains(t, err.Error(), "WIRE")
}

func TestNewRegistry_FailsFastOnUndeclaredEntry(t *testing.T) {
	_, err := NewRegistry("payment method", []method{methodCard}, map[method]*stubHandler{
		methodCard: {name: "card"},
		methodWire: {name: "wire"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared discriminant")
}

func TestRegistry_ResolveReturnsRegisteredHandler(t *testing.T) {
	reg, err := NewRegistry("payment method", []method{methodCard, methodWire}, map[method]*stubHandler{
		methodCard: {name: "card"},
		methodWire: {name: "wire"},
	})
	require.NoError(t, err)

	for _, m := range []method{methodCard, methodWire} {
		h, err := reg.Resolve(m)
		require.NoError(t, err)
		assert.NotNil(t, h)
	}
}

func TestRegistry_ResolveUnknownDiscriminant(t *testing.T) {
	reg, err := NewRegistry("payment method", []method{methodCard}, map[method]*stubHandler{
		methodCard: {name: "card"},
	})
	require.NoError(t, err)

	_, err = reg.Resolve(method("CARRIER_PIGEON"))
	require.Error(t, err)

	var unsupported *UnsupportedDiscriminantError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "payment method", unsupported.Kind)
	assert.Equal(t, "CARRIER_PIGEON", unsupported.Value)
}

func TestValidationResult_Invariant(t *testing.T) {
	ok := OK()
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Errors)
	assert.NoError(t, ok.Err())

	failed := Failed("first", "second")
	assert.False(t, failed.Valid)
	assert.Equal(t, []string{"first", "second"}, failed.Errors)

	var verr *ValidationError
	require.True(t, errors.As(failed.Err(), &verr))
	assert.Equal(t, []string{"first", "second"}, verr.Violations)

	assert.Panics(t, func() { Failed() })
}

func TestParams_Require(t *testing.T) {
	p := Params{"email": "a@b.com", "blank": "   "}

	v, err := p.Require("email")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", v)

	for _, key := range []string{"blank", "missing"} {
		_, err := p.Require(key)
		require.Error(t, err)

		var missing *MissingFieldError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, key, missing.Field)
		assert.Contains(t, err.Error(), key+" is required")
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"3.2":    "3.20",
		"103.2":  "103.20",
		"100":    "100.00",
		"0.05":   "0.05",
		"0.1":    "0.10",
		"0.001":  "0.001",
		"0.0001": "0.0001",
		"0":      "0.00",
	}

	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestSimulateFailure(t *testing.T) {
	fail := SampleFunc(func() float64 { return 0.05 })
	err := SimulateFailure(fail, 0.1, "insufficient funds")
	require.Error(t, err)

	var perr *ProcessingError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "insufficient funds", perr.Reason)

	pass := SampleFunc(func() float64 { return 0.95 })
	assert.NoError(t, SimulateFailure(pass, 0.1, "insufficient funds"))
}

func TestNewIdentifier(t *testing.T) {
	id := NewIdentifier("TXN")
	assert.True(t, strings.HasPrefix(id, "TXN-"))
	assert.Len(t, id, len("TXN-")+8)
	assert.Equal(t, strings.ToUpper(id), id)
}

func TestNewIdentifier_NoCollisionsUnderConcurrency(t *testing.T) {
	const n = 200
	ids := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- NewIdentifier("TXN")
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate identifier %s", id)
		seen[id] = struct{}{}
	}
}

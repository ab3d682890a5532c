package payment

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/clockz"

	"github.com/miketheofan/dispatchlab/internal/dispatch"
)

// Crypto fees: 1.0% + a simulated network gas fee tier, rounded half-up to
// two decimals. Payments below EUR 10.00 are rejected.
var (
	cryptoFeeRate    = decimal.RequireFromString("0.01")
	cryptoMinAmount  = decimal.RequireFromString("10.00")
	gasFeeLowTier    = decimal.RequireFromString("1.00")
	gasFeeMediumTier = decimal.RequireFromString("2.50")
	gasFeeHighTier   = decimal.RequireFromString("5.00")
)

const (
	networkKey       = "network"
	walletAddressKey = "walletAddress"

	networkBitcoin  = "BITCOIN"
	networkEthereum = "ETHEREUM"

	cryptoMinAmountErrMsg = "Cryptocurrency payment minimum is €10.00"
	invalidNetworkErrMsg  = "Network type is not supported"
	bitcoinAddressErrMsg  = "Invalid Bitcoin address format"
	ethereumAddressErrMsg = "Invalid Ethereum address format"
	networkCongestionMsg  = "High network congestion - try again"
)

var (
	bitcoinAddressPattern  = regexp.MustCompile(`^(1|3|bc1)[a-zA-HJ-NP-Z0-9]{25,62}$`)
	ethereumAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
)

// CryptoHandler processes cryptocurrency payments on the Bitcoin and Ethereum
// networks.
type CryptoHandler struct {
	sampler          dispatch.Sampler
	clock            clockz.Clock
	congestionChance float64
	congestionRate   float64
}

// NewCryptoHandler creates the crypto handler. congestionChance is the
// probability that the network congestion check runs at all; congestionRate
// is the failure probability once it does.
func NewCryptoHandler(sampler dispatch.Sampler, clock clockz.Clock, congestionChance, congestionRate float64) *CryptoHandler {
	return &CryptoHandler{
		sampler:          sampler,
		clock:            clock,
		congestionChance: congestionChance,
		congestionRate:   congestionRate,
	}
}

// Validate enforces the minimum amount, a supported network, and a wallet
// address matching the declared network's format.
func (h *CryptoHandler) Validate(req Request) (dispatch.ValidationResult, error) {
	walletAddress, err := req.Details.Require(walletAddressKey)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}
	network, err := req.Details.Require(networkKey)
	if err != nil {
		return dispatch.ValidationResult{}, err
	}

	var violations []string
	if req.Amount.LessThan(cryptoMinAmount) {
		violations = append(violations, cryptoMinAmountErrMsg)
	}

	switch strings.ToUpper(network) {
	case networkBitcoin:
		if !bitcoinAddressPattern.MatchString(walletAddress) {
			violations = append(violations, bitcoinAddressErrMsg)
		}
	case networkEthereum:
		if !ethereumAddressPattern.MatchString(walletAddress) {
			violations = append(violations, ethereumAddressErrMsg)
		}
	default:
		violations = append(violations, invalidNetworkErrMsg)
	}

	if len(violations) > 0 {
		return dispatch.Failed(violations...), nil
	}
	return dispatch.OK(), nil
}

// Execute simulates the on-chain transfer. When the congestion check fires it
// fails with the configured congestion rate.
func (h *CryptoHandler) Execute(req Request) (*Result, error) {
	if h.sampler.Float64() < h.congestionChance {
		if err := dispatch.SimulateFailure(h.sampler, h.congestionRate, networkCongestionMsg); err != nil {
			return nil, err
		}
	}
	fee, _ := h.EstimateFee(req)
	return completedResult(req, fee, h.clock.Now()), nil
}

// EstimateFee computes 1.0% plus the sampled gas fee tier, rounded half-up to
// two decimals. The gas fee varies per call with simulated congestion.
func (h *CryptoHandler) EstimateFee(req Request) (decimal.Decimal, error) {
	return req.Amount.Mul(cryptoFeeRate).Add(h.networkGasFee()).Round(2), nil
}

// networkGasFee draws the simulated congestion tier: 50% low (EUR 1.00), 35%
// medium (EUR 2.50), 15% high (EUR 5.00).
func (h *CryptoHandler) networkGasFee() decimal.Decimal {
	switch draw := h.sampler.Float64(); {
	case draw < 0.5:
		return gasFeeLowTier
	case draw < 0.85:
		return gasFeeMediumTier
	default:
		return gasFeeHighTier
	}
}

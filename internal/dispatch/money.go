package dispatch

import "github.com/shopspring/decimal"

// FormatMoney renders a monetary amount with at least two decimal places, so
// a rounded fee of 3.2 goes over the wire as "3.20". Sub-cent amounts keep
// their full precision; per-unit costs such as 0.001 must not collapse to
// "0.00".
func FormatMoney(d decimal.Decimal) string {
	if d.Exponent() < -2 {
		return d.String()
	}
	return d.StringFixed(2)
}

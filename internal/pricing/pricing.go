// Package pricing holds the money rules of the store. Amounts are whole
// Colombian pesos (COP has no minor unit in practice).
package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

var hundred = decimal.NewFromInt(100)

// Discount computes the amount taken off subtotal. Percentages are rounded
// half away from zero; the result is always within [0, subtotal].
func Discount(t DiscountType, value, subtotal int64) int64 {
	if subtotal <= 0 || value <= 0 {
		return 0
	}

	var amount int64
	switch t {
	case DiscountPercentage:
		amount = decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(value)).
			Div(hundred).
			Round(0).
			IntPart()
	case DiscountFixed:
		amount = value
	}

	if amount > subtotal {
		return subtotal
	}
	return amount
}

// LineTotal returns price * quantity.
func LineTotal(price int64, quantity int) int64 {
	return price * int64(quantity)
}

// FormatCOP renders n the way prices are shown in the storefront: $50.000
func FormatCOP(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	b.WriteString(sign)
	b.WriteByte('$')
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

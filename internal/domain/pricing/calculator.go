package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PricePlaces is the precision CalculatePrice rounds to.
const PricePlaces = 2

var hundred = decimal.NewFromInt(100)

// PriceInput carries the formula parameters. The zero value prices to zero.
type PriceInput struct {
	WeightGrams   decimal.Decimal
	RatePerUnit   decimal.Decimal
	MarkupPercent decimal.Decimal
}

// normalized clamps weight and rate at zero; markup may be any sign.
func (in PriceInput) normalized() PriceInput {
	if in.WeightGrams.IsNegative() {
		in.WeightGrams = decimal.Zero
	}
	if in.RatePerUnit.IsNegative() {
		in.RatePerUnit = decimal.Zero
	}
	return in
}

// CalculatePrice computes weight * rate * (1 + markup/100) rounded half-up to two places.
// A markup below -100% would go negative; the result is floored at zero.
func CalculatePrice(in PriceInput) decimal.Decimal {
	in = in.normalized()
	factor := decimal.NewFromInt(1).Add(in.MarkupPercent.Div(hundred))
	price := in.WeightGrams.Mul(in.RatePerUnit).Mul(factor).Round(PricePlaces)
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// ListingPrice applies the storefront policy on top of CalculatePrice: sub-unit amounts
// are dropped, never rounded up.
func ListingPrice(price decimal.Decimal) decimal.Decimal {
	if price.IsNegative() {
		return decimal.Zero
	}
	return price.Floor()
}

// ParseAmount reads operator input such as "5000" or " 12.5 ". Blank or non-numeric
// text is treated as zero.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// FormatMoney renders an amount the way the Admin API expects money strings.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(PricePlaces)
}

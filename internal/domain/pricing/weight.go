// Package pricing derives metal weights from variant options, prices variants from a
// per-gram rate and markup, and decides which variants need a price update.
package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"jewelry-pricer/internal/domain/model"
)

var weightLabels = map[string]struct{}{
	"weight": {},
	"wt":     {},
	"grams":  {},
	"gram":   {},
	"g":      {},
	"gms":    {},
}

// digits with optional thousands separators and an optional fraction, or a bare fraction
var numberPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?|\.\d+`)

// ExtractWeight returns the weight in grams carried by the first option whose name is a
// recognised weight label. Missing labels and unparsable values yield zero.
func ExtractWeight(options []model.SelectedOption) decimal.Decimal {
	for _, opt := range options {
		name := strings.ToLower(opt.Name)
		if _, ok := weightLabels[name]; !ok {
			continue
		}
		return parseWeightValue(opt.Value)
	}
	return decimal.Zero
}

func parseWeightValue(value string) decimal.Decimal {
	match := numberPattern.FindString(value)
	if match == "" {
		return decimal.Zero
	}
	match = strings.ReplaceAll(match, ",", "")
	if strings.HasPrefix(match, ".") {
		match = "0" + match
	}
	weight, err := decimal.NewFromString(match)
	if err != nil || weight.IsNegative() {
		return decimal.Zero
	}
	return weight
}

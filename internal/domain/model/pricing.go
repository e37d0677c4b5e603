package model

import "github.com/shopspring/decimal"

// PricingConfig is the operator supplied rate and markup for one collection.
// A collection whose rate is not positive is unconfigured.
type PricingConfig struct {
	RatePerUnit   decimal.Decimal `json:"ratePerGram"`
	MarkupPercent decimal.Decimal `json:"percent"`
}

func (p PricingConfig) Configured() bool {
	return p.RatePerUnit.IsPositive()
}

type PricedRow struct {
	Key             string          `json:"uniqueKey"`
	Serial          int             `json:"sNo"`
	CollectionID    string          `json:"collectionId"`
	CollectionTitle string          `json:"collectionTitle"`
	ProductID       string          `json:"productId"`
	ProductTitle    string          `json:"title"`
	VariantID       string          `json:"variantId"`
	VariantTitle    string          `json:"variantTitle"`
	WeightGrams     decimal.Decimal `json:"weightGrams"`
	RatePerUnit     decimal.Decimal `json:"ratePerGram"`
	MarkupPercent   decimal.Decimal `json:"percent"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	NewPrice        decimal.Decimal `json:"newPrice"`
	IsFirstInGroup  bool            `json:"isFirstInGroup"`
	HasWeight       bool            `json:"hasWeight"`
}

type ChangeRequest struct {
	ProductID string          `json:"productId"`
	VariantID string          `json:"variantId"`
	NewPrice  decimal.Decimal `json:"newPrice"`
}

type ProductError struct {
	ProductID string `json:"productId"`
	Messages  string `json:"messages"`
}

// BatchResult is the folded outcome of one Apply call. An empty change list yields
// OK=false with nothing updated; otherwise OK is true iff Errors is empty.
type BatchResult struct {
	OK      bool           `json:"ok"`
	Updated int            `json:"updated"`
	Errors  []ProductError `json:"errors"`
}

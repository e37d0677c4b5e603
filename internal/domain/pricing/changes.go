package pricing

import (
	"github.com/shopspring/decimal"

	"jewelry-pricer/internal/domain/model"
)

// MinPriceDelta is the smallest absolute difference worth a remote write. Product policy.
var MinPriceDelta = decimal.NewFromInt(1)

func IsEligible(row model.PricedRow) bool {
	if !row.HasWeight || !row.RatePerUnit.IsPositive() {
		return false
	}
	return row.NewPrice.Sub(row.BasePrice).Abs().GreaterThanOrEqual(MinPriceDelta)
}

func DetectChanges(rows []model.PricedRow) []model.ChangeRequest {
	changes := make([]model.ChangeRequest, 0)
	for _, row := range rows {
		if !IsEligible(row) {
			continue
		}
		changes = append(changes, model.ChangeRequest{
			ProductID: row.ProductID,
			VariantID: row.VariantID,
			NewPrice:  row.NewPrice,
		})
	}
	return changes
}

// CountChanges reports how many rows DetectChanges would emit.
func CountChanges(rows []model.PricedRow) int {
	count := 0
	for _, row := range rows {
		if IsEligible(row) {
			count++
		}
	}
	return count
}

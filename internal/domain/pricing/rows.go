package pricing

import (
	"github.com/shopspring/decimal"

	"jewelry-pricer/internal/domain/model"
)

type groupKey struct {
	productID string
	weight    string
}

type variantGroup struct {
	product model.Product
	weight  decimal.Decimal
	members []model.Variant
}

// ComputeRows flattens the selected collections into priced rows. Variants of one product
// that share a derived weight form a group: the price is computed once from the first
// member and copied to the rest. Groups keep first-seen order so the output is stable for
// a given input.
func ComputeRows(collections []model.Collection, configs map[string]model.PricingConfig) []model.PricedRow {
	rows := make([]model.PricedRow, 0, countVariants(collections))
	serial := 0
	for _, collection := range collections {
		cfg := configs[collection.ID]
		for _, group := range groupVariants(collection) {
			newPrice := groupPrice(group, cfg)
			for idx, variant := range group.members {
				serial++
				rows = append(rows, model.PricedRow{
					Key:             collection.ID + "-" + variant.ID,
					Serial:          serial,
					CollectionID:    collection.ID,
					CollectionTitle: collection.Title,
					ProductID:       group.product.ID,
					ProductTitle:    group.product.Title,
					VariantID:       variant.ID,
					VariantTitle:    variant.Title,
					WeightGrams:     group.weight,
					RatePerUnit:     cfg.RatePerUnit,
					MarkupPercent:   cfg.MarkupPercent,
					BasePrice:       variant.Price,
					NewPrice:        newPrice,
					IsFirstInGroup:  idx == 0,
					HasWeight:       group.weight.IsPositive(),
				})
			}
		}
	}
	return rows
}

func groupVariants(collection model.Collection) []*variantGroup {
	index := make(map[groupKey]*variantGroup)
	ordered := make([]*variantGroup, 0)
	for _, product := range collection.Products {
		for _, variant := range product.Variants {
			weight := ExtractWeight(variant.SelectedOptions)
			key := groupKey{productID: product.ID, weight: weight.String()}
			group, ok := index[key]
			if !ok {
				group = &variantGroup{product: product, weight: weight}
				index[key] = group
				ordered = append(ordered, group)
			}
			group.members = append(group.members, variant)
		}
	}
	return ordered
}

// groupPrice prices the group from its representative. Without weight metadata the
// representative's current price is kept as is.
func groupPrice(group *variantGroup, cfg model.PricingConfig) decimal.Decimal {
	representative := group.members[0]
	calculated := representative.Price
	if group.weight.IsPositive() {
		calculated = CalculatePrice(PriceInput{
			WeightGrams:   group.weight,
			RatePerUnit:   cfg.RatePerUnit,
			MarkupPercent: cfg.MarkupPercent,
		})
	}
	return ListingPrice(calculated)
}

func countVariants(collections []model.Collection) int {
	total := 0
	for _, collection := range collections {
		for _, product := range collection.Products {
			total += len(product.Variants)
		}
	}
	return total
}

package pricing

import (
	"jewelry-pricer/internal/domain/model"
)

const DefaultPageSize = 50

type Summary struct {
	TotalCollections int `json:"totalCollections"`
	TotalProducts    int `json:"totalProducts"`
}

// Summarize counts the selected collections and the variant entries they hold.
func Summarize(collections []model.Collection) Summary {
	return Summary{
		TotalCollections: len(collections),
		TotalProducts:    countVariants(collections),
	}
}

// SelectCollections keeps the catalog order and drops ids that are not selected.
func SelectCollections(collections []model.Collection, ids []string) []model.Collection {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	selected := make([]model.Collection, 0, len(ids))
	for _, collection := range collections {
		if _, ok := wanted[collection.ID]; ok {
			selected = append(selected, collection)
		}
	}
	return selected
}

// InvalidCollections lists the collections that have no positive rate configured.
func InvalidCollections(collections []model.Collection, configs map[string]model.PricingConfig) []model.Collection {
	invalid := make([]model.Collection, 0)
	for _, collection := range collections {
		if cfg, ok := configs[collection.ID]; ok && cfg.Configured() {
			continue
		}
		invalid = append(invalid, collection)
	}
	return invalid
}

// Prioritize returns a copy of rows with the given collection first, keeping relative
// order otherwise, and renumbers serials from 1. Unknown or empty ids return rows as is.
func Prioritize(rows []model.PricedRow, collectionID string) []model.PricedRow {
	if collectionID == "" || !containsCollection(rows, collectionID) {
		return rows
	}
	sorted := make([]model.PricedRow, 0, len(rows))
	for _, row := range rows {
		if row.CollectionID == collectionID {
			sorted = append(sorted, row)
		}
	}
	for _, row := range rows {
		if row.CollectionID != collectionID {
			sorted = append(sorted, row)
		}
	}
	for i := range sorted {
		sorted[i].Serial = i + 1
	}
	return sorted
}

func containsCollection(rows []model.PricedRow, collectionID string) bool {
	for _, row := range rows {
		if row.CollectionID == collectionID {
			return true
		}
	}
	return false
}

func PageCount(total, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Paginate returns the 1-based page of rows. Pages past the end are empty.
func Paginate(rows []model.PricedRow, page, perPage int) []model.PricedRow {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(rows) {
		return []model.PricedRow{}
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

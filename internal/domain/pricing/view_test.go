package pricing

import (
	"testing"

	"jewelry-pricer/internal/domain/model"
)

func TestSummarize(t *testing.T) {
	got := Summarize(sampleCollections())
	if got.TotalCollections != 2 || got.TotalProducts != 6 {
		t.Fatalf("Summarize = %+v", got)
	}
}

func TestSelectCollectionsKeepsCatalogOrder(t *testing.T) {
	selected := SelectCollections(sampleCollections(), []string{"gid://shopify/Collection/2", "gid://shopify/Collection/1", "missing"})
	if len(selected) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(selected))
	}
	if selected[0].ID != "gid://shopify/Collection/1" {
		t.Fatalf("first selected = %s", selected[0].ID)
	}
}

func TestInvalidCollections(t *testing.T) {
	invalid := InvalidCollections(sampleCollections(), sampleConfigs())
	if len(invalid) != 1 || invalid[0].Title != "Silver" {
		t.Fatalf("invalid = %+v", invalid)
	}

	configs := sampleConfigs()
	configs["gid://shopify/Collection/2"] = model.PricingConfig{RatePerUnit: dec("0"), MarkupPercent: dec("5")}
	if got := InvalidCollections(sampleCollections(), configs); len(got) != 1 {
		t.Fatalf("zero rate should stay invalid, got %d", len(got))
	}
}

func TestPrioritize(t *testing.T) {
	rows := ComputeRows(sampleCollections(), sampleConfigs())
	sorted := Prioritize(rows, "gid://shopify/Collection/2")

	if sorted[0].VariantID != "v6" || sorted[0].Serial != 1 {
		t.Fatalf("priority row = %+v", sorted[0])
	}
	if sorted[1].VariantID != "v1" || sorted[1].Serial != 2 {
		t.Fatalf("second row = %+v", sorted[1])
	}
	if rows[5].Serial != 6 {
		t.Fatalf("source rows must not be renumbered")
	}

	same := Prioritize(rows, "unknown")
	if len(same) != len(rows) || same[0].VariantID != "v1" {
		t.Fatalf("unknown collection should keep order")
	}
}

func TestPaginate(t *testing.T) {
	rows := make([]model.PricedRow, 120)
	for i := range rows {
		rows[i].Serial = i + 1
	}

	if got := PageCount(len(rows), 50); got != 3 {
		t.Fatalf("PageCount = %d", got)
	}
	if got := PageCount(0, 50); got != 0 {
		t.Fatalf("PageCount(0) = %d", got)
	}

	page := Paginate(rows, 3, 50)
	if len(page) != 20 || page[0].Serial != 101 {
		t.Fatalf("page 3 = len %d first %d", len(page), page[0].Serial)
	}
	if got := Paginate(rows, 0, 0); len(got) != DefaultPageSize || got[0].Serial != 1 {
		t.Fatalf("defaults not applied")
	}
	if got := Paginate(rows, 9, 50); len(got) != 0 {
		t.Fatalf("page past end should be empty")
	}
}

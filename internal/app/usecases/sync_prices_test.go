package usecases

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"jewelry-pricer/internal/domain/model"
)

type fakeCatalog struct {
	collections []model.Collection
	err         error
}

func (f *fakeCatalog) ListCollections(context.Context) ([]model.Collection, error) {
	return f.collections, f.err
}

type fakeRateStore struct {
	configs map[string]model.PricingConfig
	err     error
}

func (f *fakeRateStore) LoadPricingConfigs(context.Context) (map[string]model.PricingConfig, error) {
	return f.configs, f.err
}

func (f *fakeRateStore) SavePricingConfig(_ context.Context, id string, cfg model.PricingConfig) error {
	f.configs[id] = cfg
	return nil
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) add(level, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+" "+value)
}

func (l *recordingLogger) Log(value string)        { l.add("info", value) }
func (l *recordingLogger) LogWarning(value string) { l.add("warn", value) }
func (l *recordingLogger) LogSuccess(value string) { l.add("success", value) }
func (l *recordingLogger) LogError(value string, err error) {
	l.add("error", value+": "+err.Error())
}

func (l *recordingLogger) contains(level, fragment string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		if strings.HasPrefix(entry, level+" ") && strings.Contains(entry, fragment) {
			return true
		}
	}
	return false
}

func weighted(id, productID, weight, price string) model.Variant {
	return model.Variant{
		ID:              id,
		ProductID:       productID,
		Title:           weight,
		Price:           decimal.RequireFromString(price),
		SelectedOptions: []model.SelectedOption{{Name: "Weight", Value: weight}},
	}
}

func ringsCatalog() []model.Collection {
	return []model.Collection{
		{
			ID:    "gid://shopify/Collection/1",
			Title: "Gold rings",
			Products: []model.Product{
				{ID: "p1", Title: "Band", Variants: []model.Variant{
					weighted("v1", "p1", "10g", "50000"),
					weighted("v2", "p1", "10g", "50000"),
				}},
				{ID: "p2", Title: "Signet", Variants: []model.Variant{
					weighted("v3", "p2", "2g", "11000.40"),
				}},
			},
		},
		{
			ID:    "gid://shopify/Collection/2",
			Title: "Silver chains",
			Products: []model.Product{
				{ID: "p3", Title: "Chain", Variants: []model.Variant{
					weighted("v4", "p3", "20g", "100"),
				}},
			},
		},
	}
}

func rateOverride(rate string) PricingOverride {
	return PricingOverride{RatePerUnit: decimal.NewNullDecimal(decimal.RequireFromString(rate))}
}

func goldRate() map[string]PricingOverride {
	gold := rateOverride("5000")
	gold.MarkupPercent = decimal.NewNullDecimal(decimal.NewFromInt(10))
	return map[string]PricingOverride{"gid://shopify/Collection/1": gold}
}

func TestPreviewRequiresSelection(t *testing.T) {
	svc := NewPriceSync(&fakeCatalog{}, nil, nil, nil, nil)
	if _, err := svc.Preview(context.Background(), RunOptions{}); !errors.Is(err, ErrNoCollectionSelected) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Preview(context.Background(), RunOptions{CollectionIDs: []string{"missing"}}); !errors.Is(err, ErrNoCollectionSelected) {
		t.Fatalf("err = %v", err)
	}
}

func TestPreviewComputesRowsAndChanges(t *testing.T) {
	svc := NewPriceSync(&fakeCatalog{collections: ringsCatalog()}, nil, nil, nil, nil)

	preview, err := svc.Preview(context.Background(), RunOptions{
		CollectionIDs: []string{"gid://shopify/Collection/1", "gid://shopify/Collection/2"},
		Overrides:     goldRate(),
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.TotalRows != 4 || len(preview.Rows) != 4 {
		t.Fatalf("rows = %d/%d", len(preview.Rows), preview.TotalRows)
	}
	// v1 and v2 move from 50000 to 55000; v3 is 11000 vs 11000.40 and stays.
	if preview.Changed != 2 || len(preview.Changes) != 2 {
		t.Fatalf("changed = %d", preview.Changed)
	}
	if !preview.Changes[0].NewPrice.Equal(decimal.NewFromInt(55000)) {
		t.Fatalf("new price = %s", preview.Changes[0].NewPrice)
	}
	if len(preview.InvalidCollections) != 1 || preview.InvalidCollections[0] != "gid://shopify/Collection/2" {
		t.Fatalf("invalid = %v", preview.InvalidCollections)
	}
	if preview.Summary.TotalCollections != 2 || preview.Summary.TotalProducts != 4 {
		t.Fatalf("summary = %+v", preview.Summary)
	}
	if preview.PageCount != 1 || preview.Page != 1 {
		t.Fatalf("page = %d/%d", preview.Page, preview.PageCount)
	}
}

func TestPreviewPriorityAndPaging(t *testing.T) {
	svc := NewPriceSync(&fakeCatalog{collections: ringsCatalog()}, nil, nil, nil, nil)

	preview, err := svc.Preview(context.Background(), RunOptions{
		CollectionIDs:        []string{"gid://shopify/Collection/1", "gid://shopify/Collection/2"},
		Overrides:            goldRate(),
		PriorityCollectionID: "gid://shopify/Collection/2",
		Page:                 1,
		PerPage:              3,
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.PageCount != 2 || len(preview.Rows) != 3 {
		t.Fatalf("paging = %d rows, %d pages", len(preview.Rows), preview.PageCount)
	}
	if preview.Rows[0].VariantID != "v4" || preview.Rows[0].Serial != 1 {
		t.Fatalf("first row = %+v", preview.Rows[0])
	}
	if preview.Changed != 2 {
		t.Fatalf("priority view must not change detection, changed = %d", preview.Changed)
	}
}

func TestPreviewFlagsOverrideStore(t *testing.T) {
	store := &fakeRateStore{configs: map[string]model.PricingConfig{
		"gid://shopify/Collection/1": {RatePerUnit: decimal.NewFromInt(1)},
		"gid://shopify/Collection/2": {RatePerUnit: decimal.NewFromInt(10)},
	}}
	svc := NewPriceSync(&fakeCatalog{collections: ringsCatalog()}, nil, store, nil, nil)

	preview, err := svc.Preview(context.Background(), RunOptions{
		CollectionIDs: []string{"gid://shopify/Collection/1", "gid://shopify/Collection/2"},
		Overrides:     goldRate(),
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	// gold from flags: v1,v2 change. silver from store: 20g*10 = 200 vs 100.
	if preview.Changed != 3 {
		t.Fatalf("changed = %d", preview.Changed)
	}
	if len(preview.InvalidCollections) != 0 {
		t.Fatalf("invalid = %v", preview.InvalidCollections)
	}
}

func TestPreviewRateOverrideKeepsStoredMarkup(t *testing.T) {
	store := &fakeRateStore{configs: map[string]model.PricingConfig{
		"gid://shopify/Collection/1": {RatePerUnit: decimal.NewFromInt(100), MarkupPercent: decimal.NewFromInt(10)},
	}}
	svc := NewPriceSync(&fakeCatalog{collections: ringsCatalog()}, nil, store, nil, nil)

	preview, err := svc.Preview(context.Background(), RunOptions{
		CollectionIDs: []string{"gid://shopify/Collection/1"},
		Overrides:     map[string]PricingOverride{"gid://shopify/Collection/1": rateOverride("5000")},
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	row := preview.Rows[0]
	if !row.RatePerUnit.Equal(decimal.NewFromInt(5000)) || !row.MarkupPercent.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("rate/markup = %s/%s, want 5000/10", row.RatePerUnit, row.MarkupPercent)
	}
	if !row.NewPrice.Equal(decimal.NewFromInt(55000)) {
		t.Fatalf("new price = %s, want 55000", row.NewPrice)
	}
}

func TestPreviewMarkupOverrideKeepsStoredRate(t *testing.T) {
	store := &fakeRateStore{configs: map[string]model.PricingConfig{
		"gid://shopify/Collection/1": {RatePerUnit: decimal.NewFromInt(5000), MarkupPercent: decimal.NewFromInt(50)},
	}}
	svc := NewPriceSync(&fakeCatalog{collections: ringsCatalog()}, nil, store, nil, nil)

	preview, err := svc.Preview(context.Background(), RunOptions{
		CollectionIDs: []string{"gid://shopify/Collection/1"},
		Overrides: map[string]PricingOverride{
			"gid://shopify/Collection/1": {MarkupPercent: decimal.NewNullDecimal(decimal.NewFromInt(10))},
		},
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !preview.Rows[0].NewPrice.Equal(decimal.NewFromInt(55000)) {
		t.Fatalf("new price = %s, want 55000", preview.Rows[0].NewPrice)
	}
}

func TestPreviewStoreError(t *testing.T) {
	store := &fakeRateStore{err: errors.New("db down")}
	svc := NewPriceSync(&fakeCatalog{collections: ringsCatalog()}, nil, store, nil, nil)
	if _, err := svc.Preview(context.Background(), RunOptions{CollectionIDs: []string{"gid://shopify/Collection/1"}}); err == nil {
		t.Fatalf("expected store error")
	}
}

func TestRunAppliesChanges(t *testing.T) {
	prices := newFakePriceService()
	logger := &recordingLogger{}
	svc := NewPriceSync(&fakeCatalog{collections: ringsCatalog()}, NewPriceApplier(prices, logger, nil, 2), nil, logger, nil)

	report, err := svc.Run(context.Background(), RunOptions{
		CollectionIDs: []string{"gid://shopify/Collection/1"},
		Overrides:     goldRate(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.RunID == "" || !report.Applied {
		t.Fatalf("report = %+v", report)
	}
	if !report.Result.OK || report.Result.Updated != 2 {
		t.Fatalf("result = %+v", report.Result)
	}
	if got := prices.calls["p1"]; len(got) != 2 {
		t.Fatalf("p1 writes = %+v", got)
	}
	if !logger.contains("success", "updated 2 variants") {
		t.Fatalf("missing success log: %v", logger.entries)
	}
}

func TestRunNoChanges(t *testing.T) {
	prices := newFakePriceService()
	logger := &recordingLogger{}
	svc := NewPriceSync(&fakeCatalog{collections: ringsCatalog()}, NewPriceApplier(prices, nil, nil, 2), nil, logger, nil)

	report, err := svc.Run(context.Background(), RunOptions{CollectionIDs: []string{"gid://shopify/Collection/2"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Applied || report.Changed != 0 {
		t.Fatalf("report = %+v", report)
	}
	if len(prices.calls) != 0 {
		t.Fatalf("unexpected writes")
	}
	if !logger.contains("warn", "No price changes detected") {
		t.Fatalf("missing skip log: %v", logger.entries)
	}
	if !logger.contains("warn", "gid://shopify/Collection/2") {
		t.Fatalf("missing unconfigured collection warning: %v", logger.entries)
	}
}

func TestRunDryRun(t *testing.T) {
	prices := newFakePriceService()
	svc := NewPriceSync(&fakeCatalog{collections: ringsCatalog()}, NewPriceApplier(prices, nil, nil, 2), nil, nil, nil)

	report, err := svc.Run(context.Background(), RunOptions{
		CollectionIDs: []string{"gid://shopify/Collection/1"},
		Overrides:     goldRate(),
		DryRun:        true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Applied || report.Changed != 2 || !report.DryRun {
		t.Fatalf("report = %+v", report)
	}
	if len(prices.calls) != 0 {
		t.Fatalf("dry run wrote prices")
	}
}

func TestRunReportsFailures(t *testing.T) {
	prices := newFakePriceService()
	prices.failures["p1"] = errors.New("timeout")
	logger := &recordingLogger{}
	svc := NewPriceSync(&fakeCatalog{collections: ringsCatalog()}, NewPriceApplier(prices, nil, nil, 2), nil, logger, nil)

	report, err := svc.Run(context.Background(), RunOptions{
		CollectionIDs: []string{"gid://shopify/Collection/1"},
		Overrides:     goldRate(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Result.OK || len(report.Result.Errors) != 1 {
		t.Fatalf("result = %+v", report.Result)
	}
	if !logger.contains("error", "failed to update some prices") || !logger.contains("error", "p1: timeout") {
		t.Fatalf("missing failure log: %v", logger.entries)
	}
}

func TestRunCatalogError(t *testing.T) {
	logger := &recordingLogger{}
	svc := NewPriceSync(&fakeCatalog{err: errors.New("unauthorized")}, nil, nil, logger, nil)

	if _, err := svc.Run(context.Background(), RunOptions{CollectionIDs: []string{"c"}}); err == nil {
		t.Fatalf("expected error")
	}
	if !logger.contains("error", "unauthorized") {
		t.Fatalf("missing error log: %v", logger.entries)
	}
}

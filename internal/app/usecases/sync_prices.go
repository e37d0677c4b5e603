package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"jewelry-pricer/internal/adapters/shopify"
	"jewelry-pricer/internal/adapters/storage"
	"jewelry-pricer/internal/domain/model"
	"jewelry-pricer/internal/domain/pricing"
	"jewelry-pricer/internal/logging"
	"jewelry-pricer/internal/metrics"
)

var ErrNoCollectionSelected = errors.New("select a collection first")

type SyncPricesService interface {
	Preview(ctx context.Context, opts RunOptions) (PreviewResult, error)
	Run(ctx context.Context, opts RunOptions) (RunReport, error)
}

// RunOptions describes one pricing pass. Overrides win over the rate store field by field.
type RunOptions struct {
	CollectionIDs        []string
	Overrides            map[string]PricingOverride
	PriorityCollectionID string
	Page                 int
	PerPage              int
	DryRun               bool
}

// PricingOverride is caller supplied pricing for one collection. Fields that are not Valid
// keep the stored value.
type PricingOverride struct {
	RatePerUnit   decimal.NullDecimal
	MarkupPercent decimal.NullDecimal
}

func (o PricingOverride) apply(cfg model.PricingConfig) model.PricingConfig {
	if o.RatePerUnit.Valid {
		cfg.RatePerUnit = o.RatePerUnit.Decimal
	}
	if o.MarkupPercent.Valid {
		cfg.MarkupPercent = o.MarkupPercent.Decimal
	}
	return cfg
}

type PreviewResult struct {
	Rows               []model.PricedRow     `json:"rows"`
	TotalRows          int                   `json:"totalRows"`
	Page               int                   `json:"page"`
	PageCount          int                   `json:"pageCount"`
	Summary            pricing.Summary       `json:"summary"`
	Changed            int                   `json:"changed"`
	InvalidCollections []string              `json:"invalidCollections"`
	Changes            []model.ChangeRequest `json:"-"`
}

type RunReport struct {
	RunID   string            `json:"runId"`
	Changed int               `json:"changed"`
	DryRun  bool              `json:"dryRun"`
	Applied bool              `json:"applied"`
	Result  model.BatchResult `json:"result"`
}

type PriceSync struct {
	catalog shopify.CatalogService
	applier ApplyPricesService
	rates   storage.RateStore
	logger  logging.LoggerService
	metrics *metrics.Recorder
}

// NewPriceSync wires a pricing run. rates may be nil when no store is configured.
func NewPriceSync(catalog shopify.CatalogService, applier ApplyPricesService, rates storage.RateStore, logger logging.LoggerService, recorder *metrics.Recorder) *PriceSync {
	return &PriceSync{
		catalog: catalog,
		applier: applier,
		rates:   rates,
		logger:  logger,
		metrics: recorder,
	}
}

func (s *PriceSync) Preview(ctx context.Context, opts RunOptions) (PreviewResult, error) {
	if len(opts.CollectionIDs) == 0 {
		return PreviewResult{}, ErrNoCollectionSelected
	}

	configs, err := s.pricingConfigs(ctx, opts.Overrides)
	if err != nil {
		return PreviewResult{}, err
	}

	catalog, err := s.catalog.ListCollections(ctx)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("list collections: %w", err)
	}

	selected := pricing.SelectCollections(catalog, opts.CollectionIDs)
	if len(selected) == 0 {
		return PreviewResult{}, fmt.Errorf("%w: none of %s exist", ErrNoCollectionSelected, strings.Join(opts.CollectionIDs, ", "))
	}

	invalid := pricing.InvalidCollections(selected, configs)
	invalidIDs := make([]string, 0, len(invalid))
	for _, collection := range invalid {
		invalidIDs = append(invalidIDs, collection.ID)
	}

	rows := pricing.ComputeRows(selected, configs)
	changes := pricing.DetectChanges(rows)

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = pricing.DefaultPageSize
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	view := pricing.Prioritize(rows, opts.PriorityCollectionID)

	return PreviewResult{
		Rows:               pricing.Paginate(view, page, perPage),
		TotalRows:          len(rows),
		Page:               page,
		PageCount:          pricing.PageCount(len(rows), perPage),
		Summary:            pricing.Summarize(selected),
		Changed:            pricing.CountChanges(rows),
		InvalidCollections: invalidIDs,
		Changes:            changes,
	}, nil
}

// Run prices the selected collections and writes every eligible change unless DryRun is
// set. A non-ok batch result is reported in the RunReport, not as an error.
func (s *PriceSync) Run(ctx context.Context, opts RunOptions) (RunReport, error) {
	report := RunReport{RunID: uuid.NewString(), DryRun: opts.DryRun}
	s.log(fmt.Sprintf("Price sync started run=%s collections=%d", report.RunID, len(opts.CollectionIDs)))

	preview, err := s.Preview(ctx, opts)
	if err != nil {
		if s.logger != nil {
			s.logger.LogError(fmt.Sprintf("Error prepare prices run=%s", report.RunID), err)
		}
		return report, err
	}
	if len(preview.InvalidCollections) > 0 && s.logger != nil {
		s.logger.LogWarning(fmt.Sprintf(
			"Collections without a positive rate are skipped run=%s collections=%s",
			report.RunID,
			strings.Join(preview.InvalidCollections, ", "),
		))
	}

	report.Changed = preview.Changed
	s.metrics.ObserveChanges(preview.Changed)

	if preview.Changed == 0 {
		if s.logger != nil {
			s.logger.LogWarning(fmt.Sprintf("No price changes detected run=%s", report.RunID))
		}
		return report, nil
	}

	if opts.DryRun {
		s.log(fmt.Sprintf("Dry run: %d price changes not applied run=%s", preview.Changed, report.RunID))
		return report, nil
	}

	result, err := s.applier.Apply(ctx, preview.Changes)
	if err != nil {
		return report, err
	}
	report.Applied = true
	report.Result = result

	if s.logger != nil {
		if result.OK {
			s.logger.LogSuccess(fmt.Sprintf("Price sync completed run=%s updated %d variants", report.RunID, result.Updated))
		} else {
			s.logger.LogError(
				fmt.Sprintf("Price sync failed to update some prices run=%s updated=%d", report.RunID, result.Updated),
				batchError(result),
			)
		}
	}

	return report, nil
}

func (s *PriceSync) pricingConfigs(ctx context.Context, overrides map[string]PricingOverride) (map[string]model.PricingConfig, error) {
	configs := make(map[string]model.PricingConfig)
	if s.rates != nil {
		stored, err := s.rates.LoadPricingConfigs(ctx)
		if err != nil {
			return nil, err
		}
		for id, cfg := range stored {
			configs[id] = cfg
		}
	}
	for id, override := range overrides {
		configs[id] = override.apply(configs[id])
	}
	return configs, nil
}

func (s *PriceSync) log(message string) {
	if s.logger != nil {
		s.logger.Log(message)
	}
}

func batchError(result model.BatchResult) error {
	parts := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.ProductID, e.Messages))
	}
	if len(parts) == 0 {
		return errors.New("no variants updated")
	}
	return errors.New(strings.Join(parts, "; "))
}

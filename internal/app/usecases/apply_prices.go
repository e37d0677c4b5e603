package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jewelry-pricer/internal/adapters/shopify"
	"jewelry-pricer/internal/domain/model"
	"jewelry-pricer/internal/logging"
	"jewelry-pricer/internal/metrics"
)

const defaultApplyConcurrency = 4

type ApplyPricesService interface {
	Apply(ctx context.Context, changes []model.ChangeRequest) (model.BatchResult, error)
}

type PriceApplier struct {
	shopifyClient shopify.PriceService
	logger        logging.LoggerService
	metrics       *metrics.Recorder
	concurrency   int
}

type productChanges struct {
	productID string
	changes   []model.ChangeRequest
}

type productOutcome struct {
	updated int
	err     *model.ProductError
}

func NewPriceApplier(shopifyClient shopify.PriceService, logger logging.LoggerService, recorder *metrics.Recorder, concurrency int) *PriceApplier {
	if concurrency < 1 {
		concurrency = defaultApplyConcurrency
	}
	return &PriceApplier{
		shopifyClient: shopifyClient,
		logger:        logger,
		metrics:       recorder,
		concurrency:   concurrency,
	}
}

// Apply writes the changes one product at a time. Product failures are collected in
// the result and never stop the other products. The returned error is only set when
// ctx is cancelled, in which case the partial result is discarded.
func (a *PriceApplier) Apply(ctx context.Context, changes []model.ChangeRequest) (model.BatchResult, error) {
	if len(changes) == 0 {
		return model.BatchResult{OK: false, Updated: 0, Errors: []model.ProductError{}}, nil
	}

	started := time.Now()
	groups, skipped := partitionByProduct(changes)
	if skipped > 0 && a.logger != nil {
		a.logger.LogWarning(fmt.Sprintf("Skipped %d invalid price changes", skipped))
	}

	outcomes := make([]productOutcome, len(groups))
	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)

	for i, group := range groups {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcomes[i] = a.applyProduct(ctx, group)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return model.BatchResult{}, err
	}

	result := foldOutcomes(outcomes)
	a.metrics.ObserveResult(result, started)
	return result, nil
}

func (a *PriceApplier) applyProduct(ctx context.Context, group productChanges) productOutcome {
	inputs := make([]shopify.VariantPriceInput, 0, len(group.changes))
	for _, change := range group.changes {
		inputs = append(inputs, shopify.VariantPriceInput{
			VariantID: change.VariantID,
			Price:     change.NewPrice,
		})
	}

	err := a.shopifyClient.UpdateVariantPrices(ctx, group.productID, inputs)
	a.metrics.ObserveProductBatch(err == nil)
	if err == nil {
		return productOutcome{updated: len(group.changes)}
	}

	if a.logger != nil && ctx.Err() == nil {
		a.logger.LogError(fmt.Sprintf("Error update prices product=%s", group.productID), err)
	}
	return productOutcome{err: &model.ProductError{
		ProductID: group.productID,
		Messages:  productErrorMessage(err),
	}}
}

func productErrorMessage(err error) string {
	var userErrs *shopify.UserErrorsError
	if errors.As(err, &userErrs) {
		if messages := userErrs.Messages(); messages != "" {
			return messages
		}
	}
	return err.Error()
}

// partitionByProduct drops changes without ids or with a non-positive price and groups
// the rest by product in first-seen order.
func partitionByProduct(changes []model.ChangeRequest) ([]productChanges, int) {
	index := make(map[string]int)
	groups := make([]productChanges, 0)
	skipped := 0

	for _, change := range changes {
		change.ProductID = strings.TrimSpace(change.ProductID)
		change.VariantID = strings.TrimSpace(change.VariantID)
		if change.ProductID == "" || change.VariantID == "" || !change.NewPrice.IsPositive() {
			skipped++
			continue
		}
		i, ok := index[change.ProductID]
		if !ok {
			i = len(groups)
			index[change.ProductID] = i
			groups = append(groups, productChanges{productID: change.ProductID})
		}
		groups[i].changes = append(groups[i].changes, change)
	}

	return groups, skipped
}

func foldOutcomes(outcomes []productOutcome) model.BatchResult {
	result := model.BatchResult{Errors: []model.ProductError{}}
	for _, outcome := range outcomes {
		result.Updated += outcome.updated
		if outcome.err != nil {
			result.Errors = append(result.Errors, *outcome.err)
		}
	}
	result.OK = len(result.Errors) == 0
	return result
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"jewelry-pricer/internal/adapters/storage"
	"jewelry-pricer/internal/app/usecases"
	"jewelry-pricer/internal/domain/model"
	"jewelry-pricer/internal/domain/pricing"
	mid "jewelry-pricer/internal/http/middleware"
)

const (
	errInvalidChanges = "Invalid JSON in 'changes'"
	errNoChanges      = "No changes provided"
)

type PricingHandler struct {
	sync    usecases.SyncPricesService
	applier usecases.ApplyPricesService
	rates   storage.RateStore
}

// NewPricingHandler builds the pricing endpoints. rates may be nil, which disables the
// rate endpoints.
func NewPricingHandler(sync usecases.SyncPricesService, applier usecases.ApplyPricesService, rates storage.RateStore) *PricingHandler {
	return &PricingHandler{sync: sync, applier: applier, rates: rates}
}

type updatePricesResponse struct {
	OK      bool                 `json:"ok"`
	Error   string               `json:"error,omitempty"`
	Updated int                  `json:"updated"`
	Errors  []model.ProductError `json:"errors"`
}

// amount accepts numbers, numeric strings, blanks and null. Blank and null leave it unset
// so the stored value applies; unreadable text counts as zero.
type amount decimal.NullDecimal

func (a *amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(strings.Trim(string(b), `"`))
	if raw == "" || raw == "null" {
		*a = amount{}
		return nil
	}
	*a = amount(decimal.NewNullDecimal(pricing.ParseAmount(raw)))
	return nil
}

type pricingInput struct {
	RatePerGram amount `json:"ratePerGram"`
	Percent     amount `json:"percent"`
}

func (p pricingInput) override() usecases.PricingOverride {
	return usecases.PricingOverride{
		RatePerUnit:   decimal.NullDecimal(p.RatePerGram),
		MarkupPercent: decimal.NullDecimal(p.Percent),
	}
}

func (p pricingInput) config() model.PricingConfig {
	return model.PricingConfig{
		RatePerUnit:   p.RatePerGram.Decimal,
		MarkupPercent: p.Percent.Decimal,
	}
}

type previewRequest struct {
	CollectionIDs        []string                `json:"collectionIds"`
	Pricing              map[string]pricingInput `json:"pricing"`
	PriorityCollectionID string                  `json:"priorityCollectionId"`
	Page                 int                     `json:"page"`
	PerPage              int                     `json:"perPage"`
}

type saveRateRequest struct {
	CollectionID string `json:"collectionId"`
	pricingInput
}

// UpdatePrices applies the form field "changes", a JSON array of
// {productId, variantId, newPrice}.
func (h *PricingHandler) UpdatePrices(c echo.Context) error {
	log := mid.Logger(c)

	raw := strings.TrimSpace(c.FormValue("changes"))
	if raw == "" {
		raw = "[]"
	}
	if !json.Valid([]byte(raw)) {
		log.Warn("Rejected price update", zap.String("reason", errInvalidChanges))
		return c.JSON(http.StatusBadRequest, updatePricesResponse{Error: errInvalidChanges, Errors: []model.ProductError{}})
	}

	changes := decodeChanges([]byte(raw))
	if len(changes) == 0 {
		return c.JSON(http.StatusOK, updatePricesResponse{Error: errNoChanges, Errors: []model.ProductError{}})
	}

	result, err := h.applier.Apply(c.Request().Context(), changes)
	if err != nil {
		log.Warn("Price update abandoned", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, updatePricesResponse{Error: err.Error(), Errors: []model.ProductError{}})
	}

	log.Info("Price update finished",
		zap.Bool("ok", result.OK),
		zap.Int("submitted", len(changes)),
		zap.Int("updated", result.Updated),
		zap.Int("failed_products", len(result.Errors)))
	return c.JSON(http.StatusOK, result)
}

// decodeChanges reads a JSON array of changes. A non-array document yields nothing;
// entries that do not decode are kept as empty changes so the updater drops them.
func decodeChanges(raw []byte) []model.ChangeRequest {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	changes := make([]model.ChangeRequest, 0, len(items))
	for _, item := range items {
		var change model.ChangeRequest
		if err := json.Unmarshal(item, &change); err != nil {
			change = model.ChangeRequest{}
		}
		changes = append(changes, change)
	}
	return changes
}

func (h *PricingHandler) Preview(c echo.Context) error {
	log := mid.Logger(c)

	var req previewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	overrides := make(map[string]usecases.PricingOverride, len(req.Pricing))
	for id, input := range req.Pricing {
		overrides[id] = input.override()
	}

	preview, err := h.sync.Preview(c.Request().Context(), usecases.RunOptions{
		CollectionIDs:        req.CollectionIDs,
		Overrides:            overrides,
		PriorityCollectionID: req.PriorityCollectionID,
		Page:                 req.Page,
		PerPage:              req.PerPage,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrNoCollectionSelected) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		log.Error("Failed to build preview", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error(), "requestId": mid.GetRequestID(c)})
	}

	log.Info("Preview built",
		zap.Int("collections", preview.Summary.TotalCollections),
		zap.Int("rows", preview.TotalRows),
		zap.Int("changed", preview.Changed))
	return c.JSON(http.StatusOK, preview)
}

func (h *PricingHandler) ListRates(c echo.Context) error {
	if h.rates == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "rate store is not configured"})
	}
	configs, err := h.rates.LoadPricingConfigs(c.Request().Context())
	if err != nil {
		mid.Logger(c).Error("Failed to load rates", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load rates", "requestId": mid.GetRequestID(c)})
	}
	return c.JSON(http.StatusOK, configs)
}

func (h *PricingHandler) SaveRate(c echo.Context) error {
	if h.rates == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "rate store is not configured"})
	}
	var req saveRateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	cfg := req.config()
	if strings.TrimSpace(req.CollectionID) == "" || !cfg.Configured() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "collectionId and a positive ratePerGram are required"})
	}
	if err := h.rates.SavePricingConfig(c.Request().Context(), req.CollectionID, cfg); err != nil {
		mid.Logger(c).Error("Failed to save rate", zap.String("collection_id", req.CollectionID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save rate", "requestId": mid.GetRequestID(c)})
	}
	return c.JSON(http.StatusOK, cfg)
}

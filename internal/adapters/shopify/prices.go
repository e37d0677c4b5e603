package shopify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"jewelry-pricer/internal/adapters/shopify/dto"
	"jewelry-pricer/internal/domain/pricing"
)

// PriceService writes variant prices. One call updates variants of a single product.
type PriceService interface {
	UpdateVariantPrices(ctx context.Context, productID string, variants []VariantPriceInput) error
}

type VariantPriceInput struct {
	VariantID string
	Price     decimal.Decimal
}

type UserErrorDetail struct {
	Field   string
	Message string
}

// UserErrorsError means the mutation was accepted by the transport but rejected by
// business rules.
type UserErrorsError struct {
	Action string
	Errors []UserErrorDetail
}

func (e *UserErrorsError) Error() string {
	if e == nil {
		return "shopify user errors"
	}
	if len(e.Errors) == 0 {
		return fmt.Sprintf("shopify %s failed with user errors", e.Action)
	}
	return fmt.Sprintf("shopify %s failed: %s", e.Action, e.Messages())
}

// Messages joins the field/message pairs as "field: message, field: message".
func (e *UserErrorsError) Messages() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		field := strings.TrimSpace(err.Field)
		message := strings.TrimSpace(err.Message)
		if field == "" {
			parts = append(parts, message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, message))
	}
	return strings.Join(parts, ", ")
}

const productVariantsBulkUpdateMutation = `
mutation productVariantsBulkUpdate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
	productVariantsBulkUpdate(productId: $productId, variants: $variants) {
		product { id }
		productVariants { id price }
		userErrors { field message }
	}
}`

func (c *Client) UpdateVariantPrices(ctx context.Context, productID string, variants []VariantPriceInput) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return errors.New("shopify product id is required")
	}
	if len(variants) == 0 {
		return nil
	}

	payload := make([]map[string]any, 0, len(variants))
	for _, v := range variants {
		payload = append(payload, map[string]any{
			"id":    v.VariantID,
			"price": pricing.FormatMoney(v.Price),
		})
	}

	var data dto.ProductVariantsBulkUpdateData
	err := c.graphqlRequest(ctx, productVariantsBulkUpdateMutation, map[string]any{
		"productId": productID,
		"variants":  payload,
	}, &data)
	if err != nil {
		return err
	}
	return userErrorsToDetailedError("productVariantsBulkUpdate", data.ProductVariantsBulkUpdate.UserErrors)
}

func userErrorsToDetailedError(action string, errs []dto.ShopifyUserError) error {
	if len(errs) == 0 {
		return nil
	}
	details := make([]UserErrorDetail, 0, len(errs))
	for _, e := range errs {
		field := strings.Join(e.Field, ".")
		message := strings.TrimSpace(e.Message)
		if field == "" && message == "" {
			continue
		}
		details = append(details, UserErrorDetail{Field: field, Message: message})
	}
	if len(details) == 0 {
		details = append(details, UserErrorDetail{Message: "user errors returned"})
	}
	return &UserErrorsError{Action: action, Errors: details}
}

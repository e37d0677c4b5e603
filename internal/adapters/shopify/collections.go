package shopify

import (
	"context"
	"fmt"
	"strings"

	"jewelry-pricer/internal/adapters/shopify/dto"
	"jewelry-pricer/internal/domain/model"
	"jewelry-pricer/internal/domain/pricing"
)

const catalogPageSize = 50

// CatalogService supplies a fully materialised collection -> product -> variant snapshot.
type CatalogService interface {
	ListCollections(ctx context.Context) ([]model.Collection, error)
}

const collectionsQuery = `
query collections($first: Int!, $after: String) {
	collections(first: $first, after: $after) {
		nodes { id title handle }
		pageInfo { hasNextPage endCursor }
	}
}`

const collectionProductsQuery = `
query collectionProducts($id: ID!, $first: Int!, $after: String, $variantsFirst: Int!) {
	collection(id: $id) {
		id
		products(first: $first, after: $after) {
			nodes {
				id
				title
				handle
				status
				variants(first: $variantsFirst) {
					nodes {
						id
						title
						price
						selectedOptions { name value }
					}
					pageInfo { hasNextPage endCursor }
				}
			}
			pageInfo { hasNextPage endCursor }
		}
	}
}`

const productVariantsQuery = `
query productVariants($id: ID!, $first: Int!, $after: String) {
	product(id: $id) {
		id
		variants(first: $first, after: $after) {
			nodes {
				id
				title
				price
				selectedOptions { name value }
			}
			pageInfo { hasNextPage endCursor }
		}
	}
}`

func (c *Client) ListCollections(ctx context.Context) ([]model.Collection, error) {
	collections := make([]model.Collection, 0)
	after := ""
	for {
		variables := map[string]any{"first": catalogPageSize}
		if after != "" {
			variables["after"] = after
		}
		var data dto.CollectionsQueryData
		if err := c.graphqlQuery(ctx, collectionsQuery, variables, &data); err != nil {
			return nil, fmt.Errorf("list collections: %w", err)
		}
		for _, node := range data.Collections.Nodes {
			products, err := c.collectionProducts(ctx, node.ID)
			if err != nil {
				return nil, err
			}
			collections = append(collections, model.Collection{
				ID:       strings.TrimSpace(node.ID),
				Title:    strings.TrimSpace(node.Title),
				Handle:   strings.TrimSpace(node.Handle),
				Products: products,
			})
		}
		if !data.Collections.PageInfo.HasNextPage {
			break
		}
		after = data.Collections.PageInfo.EndCursor
		if strings.TrimSpace(after) == "" {
			break
		}
	}
	return collections, nil
}

func (c *Client) collectionProducts(ctx context.Context, collectionID string) ([]model.Product, error) {
	products := make([]model.Product, 0)
	after := ""
	for {
		variables := map[string]any{
			"id":            collectionID,
			"first":         catalogPageSize,
			"variantsFirst": catalogPageSize,
		}
		if after != "" {
			variables["after"] = after
		}
		var data dto.CollectionProductsQueryData
		if err := c.graphqlQuery(ctx, collectionProductsQuery, variables, &data); err != nil {
			return nil, fmt.Errorf("list products of %s: %w", collectionID, err)
		}
		if data.Collection == nil {
			c.logWarning(fmt.Sprintf("shopify collection not found id=%s", collectionID))
			return products, nil
		}
		for _, node := range data.Collection.Products.Nodes {
			variants := node.Variants.Nodes
			if node.Variants.PageInfo.HasNextPage {
				rest, err := c.productVariants(ctx, node.ID, node.Variants.PageInfo.EndCursor)
				if err != nil {
					return nil, err
				}
				variants = append(variants, rest...)
			}
			products = append(products, mapShopifyProduct(node, variants))
		}
		if !data.Collection.Products.PageInfo.HasNextPage {
			break
		}
		after = data.Collection.Products.PageInfo.EndCursor
		if strings.TrimSpace(after) == "" {
			break
		}
	}
	return products, nil
}

func (c *Client) productVariants(ctx context.Context, productID, after string) ([]dto.ShopifyVariant, error) {
	variants := make([]dto.ShopifyVariant, 0)
	for strings.TrimSpace(after) != "" {
		var data dto.ProductVariantsQueryData
		err := c.graphqlQuery(ctx, productVariantsQuery, map[string]any{
			"id":    productID,
			"first": catalogPageSize,
			"after": after,
		}, &data)
		if err != nil {
			return nil, fmt.Errorf("list variants of %s: %w", productID, err)
		}
		if data.Product == nil {
			break
		}
		variants = append(variants, data.Product.Variants.Nodes...)
		if !data.Product.Variants.PageInfo.HasNextPage {
			break
		}
		after = data.Product.Variants.PageInfo.EndCursor
	}
	return variants, nil
}

func mapShopifyProduct(p dto.ShopifyProduct, variants []dto.ShopifyVariant) model.Product {
	product := model.Product{
		ID:       strings.TrimSpace(p.ID),
		Title:    strings.TrimSpace(p.Title),
		Handle:   strings.TrimSpace(p.Handle),
		Status:   strings.TrimSpace(p.Status),
		Variants: make([]model.Variant, 0, len(variants)),
	}
	for _, v := range variants {
		options := make([]model.SelectedOption, 0, len(v.SelectedOptions))
		for _, opt := range v.SelectedOptions {
			options = append(options, model.SelectedOption{Name: opt.Name, Value: opt.Value})
		}
		product.Variants = append(product.Variants, model.Variant{
			ID:              strings.TrimSpace(v.ID),
			ProductID:       product.ID,
			Title:           strings.TrimSpace(v.Title),
			Price:           pricing.ParseAmount(v.Price),
			SelectedOptions: options,
		})
	}
	return product
}

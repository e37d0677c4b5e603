package dto

type ProductVariantsBulkUpdateData struct {
	ProductVariantsBulkUpdate struct {
		Product *struct {
			ID string `json:"id,omitempty"`
		} `json:"product,omitempty"`
		ProductVariants []struct {
			ID    string `json:"id,omitempty"`
			Price string `json:"price,omitempty"`
		} `json:"productVariants,omitempty"`
		UserErrors []ShopifyUserError `json:"userErrors,omitempty"`
	} `json:"productVariantsBulkUpdate"`
}

package dto

type ShopifyCollection struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Handle string `json:"handle,omitempty"`
}

type CollectionsQueryData struct {
	Collections struct {
		Nodes    []ShopifyCollection `json:"nodes,omitempty"`
		PageInfo ShopifyPageInfo     `json:"pageInfo,omitempty"`
	} `json:"collections"`
}

type CollectionProductsQueryData struct {
	Collection *struct {
		ID       string                   `json:"id,omitempty"`
		Products ShopifyProductConnection `json:"products,omitempty"`
	} `json:"collection,omitempty"`
}

package model

import "github.com/shopspring/decimal"

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Variant struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"productId"`
	Title           string           `json:"title"`
	Price           decimal.Decimal  `json:"price"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
}

type Product struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Handle   string    `json:"handle,omitempty"`
	Status   string    `json:"status,omitempty"`
	Variants []Variant `json:"variants"`
}

type Collection struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Handle   string    `json:"handle,omitempty"`
	Products []Product `json:"products"`
}

package models

import "github.com/shopspring/decimal"

// Restaurant is a venue listed by the backend.
type Restaurant struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Rating  decimal.Decimal `json:"rating"`
	Active  bool            `json:"active"`
	Address string          `json:"address,omitempty"`
}

// MenuItem is a product offered by a restaurant. It is also the "product"
// payload sent when adding to the cart.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
}

package models

import "github.com/shopspring/decimal"

// Product is a catalog document
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

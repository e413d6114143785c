package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCreditCard = "Credit Card"
	UnknownCity             = "Unknown"
)

// SalesSummary is the analytics view of a completed order
type SalesSummary struct {
	OrderID       string          `json:"orderId"`
	UserID        int64           `json:"userId"`
	SaleDate      time.Time       `json:"saleDate"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        OrderStatus     `json:"status"`
	TotalItems    int             `json:"totalItems"`
	Items         []SalesItem     `json:"items"`
	PaymentMethod string          `json:"paymentMethod"`
	CustomerCity  string          `json:"customerCity"`
}

type SalesItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// NewSalesSummary flattens an order for the analytics sinks.
func NewSalesSummary(order *Order) SalesSummary {
	items := make([]SalesItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, SalesItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	return SalesSummary{
		OrderID:       order.ID,
		UserID:        order.UserID,
		SaleDate:      order.OrderDate,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		TotalItems:    len(order.Items),
		Items:         items,
		PaymentMethod: PaymentMethodCreditCard,
		CustomerCity:  CityFromShippingAddress(order.ShippingAddress),
	}
}

// CityFromShippingAddress returns the third ", "-separated token of a
// shipping line, or UnknownCity when the address is missing or malformed.
func CityFromShippingAddress(address string) string {
	if address == "" {
		return UnknownCity
	}
	parts := strings.Split(address, ", ")
	if len(parts) < 3 {
		return UnknownCity
	}
	return parts[2]
}

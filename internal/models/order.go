package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// CartLine is a requested product and quantity, never persisted
type CartLine struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// OrderItem is a snapshot of a cart line priced at order creation.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subTotal"`
}

// Order is a paid purchase. It is a document keyed by ID and partitioned by UserID.
type Order struct {
	ID              string          `json:"id"`
	UserID          int64           `json:"userId"`
	OrderDate       time.Time       `json:"orderDate"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress string          `json:"shippingAddress,omitempty"`
	PaymentInfo     string          `json:"paymentInfo"`
	TransactionID   string          `json:"transactionId"`
}

// NewOrderItem prices a cart line against a product.
func NewOrderItem(product *Product, quantity int) OrderItem {
	return OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    quantity,
		Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

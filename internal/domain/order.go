package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	// OrderStatusPending is the initial status set at checkout.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessed is set exclusively by the fulfillment worker.
	OrderStatusProcessed OrderStatus = "processed"
)

type Order struct {
	ID            int64           `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Status        OrderStatus     `json:"status"`
	Total         decimal.Decimal `json:"total"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
}

// OrderItem is an immutable line of a persisted order. Price is the catalog
// price captured at checkout time, never re-read afterwards.
type OrderItem struct {
	OrderID  int64           `json:"order_id"`
	CarID    int64           `json:"car_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

package domain

import "github.com/shopspring/decimal"

// OrderCreatedEvent is the wire payload published after a checkout commits.
// The fulfillment worker only relies on order_id; everything else is
// informational and must survive round-tripping as-is.
type OrderCreatedEvent struct {
	OrderID       int64           `json:"order_id"`
	SessionID     string          `json:"session_id"`
	Items         []CartEntry     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
}

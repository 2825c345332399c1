package domain

import "github.com/shopspring/decimal"

// Car is a catalog item. Rows are read-only for this application; prices
// are snapshotted into order items at checkout time.
type Car struct {
	ID          int64           `json:"id"`
	Make        string          `json:"make"`
	Model       string          `json:"model"`
	Year        int             `json:"year"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

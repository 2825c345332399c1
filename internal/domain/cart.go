package domain

// CartEntry is one pending line in a session cart. Entries are unique per
// car: adding the same car again accumulates the quantity.
type CartEntry struct {
	CarID    int64 `json:"car_id"`
	Quantity int   `json:"quantity"`
}

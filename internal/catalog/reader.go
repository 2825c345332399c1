package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
)

// Reader gives read-only access to the car catalog. It never mutates rows;
// checkout snapshots prices from it.
type Reader struct {
	db *sql.DB
}

func NewReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

func (r *Reader) List(ctx context.Context) ([]domain.Car, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, make, model, year, price, description, COALESCE(image, '')
		 FROM cars ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query cars: %w", err)
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var c domain.Car
		if err := rows.Scan(&c.ID, &c.Make, &c.Model, &c.Year, &c.Price, &c.Description, &c.Image); err != nil {
			return nil, fmt.Errorf("scan car row: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return cars, nil
}

// FetchPrices returns current prices for the requested ids in one query.
// Ids not present in the catalog are simply absent from the result.
func (r *Reader) FetchPrices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, price FROM cars WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query car prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var price decimal.Decimal
		if err := rows.Scan(&id, &price); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		prices[id] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return prices, nil
}

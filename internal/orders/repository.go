package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// Ledger is the transactional store of orders and order items. The web tier
// only inserts; the fulfillment worker only updates status — never both
// concurrently for the same order.
type Ledger interface {
	Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, []domain.OrderItem, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// DB exposes the underlying pool for read-only collaborators (the catalog
// reader shares the connection).
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Create persists an order and its items in a single transaction. On any
// failure the whole transaction rolls back and nothing is visible.
func (r *Repository) Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var orderID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (total, customer_name, customer_email)
		 VALUES ($1, $2, $3) RETURNING id`,
		order.Total, nullable(order.CustomerName), nullable(order.CustomerEmail),
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, car_id, quantity, price)
			 VALUES ($1, $2, $3, $4)`,
			orderID, it.CarID, it.Quantity, it.Price,
		); err != nil {
			return 0, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return orderID, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	var name, email sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, status, total, customer_name, customer_email
		 FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.CreatedAt, &o.Status, &o.Total, &name, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("query order by id: %w", err)
	}
	o.CustomerName = name.String
	o.CustomerEmail = email.String

	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, car_id, quantity, price
		 FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.OrderID, &it.CarID, &it.Quantity, &it.Price); err != nil {
			return nil, nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("row iteration error: %w", err)
	}

	return &o, items, nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, status, total, customer_name, customer_email
		 FROM orders ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var name, email sql.NullString
		if err := rows.Scan(&o.ID, &o.CreatedAt, &o.Status, &o.Total, &name, &email); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		o.CustomerName = name.String
		o.CustomerEmail = email.String
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus is idempotent: re-applying the same status is a no-op with
// no error. Unknown ids report ErrOrderNotFound.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
	"github.com/shaydevops2024/e-commerce-car-store/internal/orders"
)

// OrderReader fetches persisted orders for display.
type OrderReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, []domain.OrderItem, error)
}

type OrdersHandler struct {
	ledger  OrderReader
	logger  *zap.Logger
	timeout time.Duration
}

func NewOrdersHandler(ledger OrderReader, logger *zap.Logger, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		ledger:  ledger,
		logger:  logger,
		timeout: timeout,
	}
}

type OrderResponseDTO struct {
	Order *domain.Order      `json:"order"`
	Items []domain.OrderItem `json:"items"`
}

// GET /api/orders/{id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a positive integer")
		return
	}

	order, items, err := h.ledger.GetByID(ctx, id)
	if errors.Is(err, orders.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to load order", zap.Error(err), zap.Int64("order_id", id))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}
	if items == nil {
		items = []domain.OrderItem{}
	}

	respondJSON(w, http.StatusOK, OrderResponseDTO{Order: order, Items: items})
}

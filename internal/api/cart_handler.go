package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/cart"
	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
)

type CartHandler struct {
	store   cart.Store
	logger  *zap.Logger
	timeout time.Duration
}

func NewCartHandler(store cart.Store, logger *zap.Logger, timeout time.Duration) *CartHandler {
	return &CartHandler{
		store:   store,
		logger:  logger,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	CarID    int64 `json:"car_id"`
	Quantity int   `json:"quantity"`
}

type CartResponseDTO struct {
	SessionID string             `json:"session_id"`
	Items     []domain.CartEntry `json:"items"`
}

// GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sid := ensureSession(w, r)

	items, err := h.store.Get(ctx, sid)
	if err != nil {
		h.logger.Error("failed to read cart", zap.Error(err), zap.String("session_id", sid))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to read cart")
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{SessionID: sid, Items: items})
}

// POST /api/cart
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sid := ensureSession(w, r)

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CarID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_car_id", "car_id must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	items, err := h.store.Add(ctx, sid, req.CarID, req.Quantity)
	if err != nil {
		h.logger.Error("failed to add cart item", zap.Error(err), zap.String("session_id", sid))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	respondJSON(w, http.StatusCreated, CartResponseDTO{SessionID: sid, Items: items})
}

// DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sid := ensureSession(w, r)

	if err := h.store.Clear(ctx, sid); err != nil {
		h.logger.Error("failed to clear cart", zap.Error(err), zap.String("session_id", sid))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{SessionID: sid, Items: []domain.CartEntry{}})
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/checkout"
)

// CheckoutService turns a session cart into an order.
type CheckoutService interface {
	Checkout(ctx context.Context, req checkout.Request) (int64, error)
}

type CheckoutHandler struct {
	service CheckoutService
	logger  *zap.Logger
	timeout time.Duration
}

func NewCheckoutHandler(service CheckoutService, logger *zap.Logger, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger,
		timeout: timeout,
	}
}

type CheckoutRequestDTO struct {
	SessionID     string `json:"session_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

type CheckoutResponseDTO struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// The session may come in the body (programmatic callers) or ride the
	// cookie (browser flow). No minting here: checkout never starts a session.
	sid := req.SessionID
	if sid == "" {
		sid = sessionFromCookie(r)
	}

	orderID, err := h.service.Checkout(ctx, checkout.Request{
		SessionID:     sid,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		h.handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{OrderID: orderID, Status: "created"})
}

func (h *CheckoutHandler) handleCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptySession):
		respondError(w, http.StatusBadRequest, "empty_session", "no session")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart empty")
	default:
		var perr *checkout.PersistenceError
		if errors.As(err, &perr) {
			h.logger.Error("checkout transaction failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "persistence_error", perr.Err.Error())
			return
		}
		h.logger.Error("checkout failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
	}
}

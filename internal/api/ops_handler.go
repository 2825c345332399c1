package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
	"github.com/shaydevops2024/e-commerce-car-store/internal/ops"
)

// OrderLister feeds the recent-orders panel of the dashboard.
type OrderLister interface {
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
}

type OpsHandler struct {
	controller *ops.Controller
	ledger     OrderLister
	logger     *zap.Logger
	timeout    time.Duration
}

func NewOpsHandler(controller *ops.Controller, ledger OrderLister, logger *zap.Logger, timeout time.Duration) *OpsHandler {
	return &OpsHandler{
		controller: controller,
		ledger:     ledger,
		logger:     logger,
		timeout:    timeout,
	}
}

type ServiceLogDTO struct {
	Log string `json:"log"`
}

type RedisStatusDTO struct {
	Status string `json:"status"`
}

// POST /api/service/{service}/{action}
func (h *OpsHandler) Control(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	service := chi.URLParam(r, "service")
	action := chi.URLParam(r, "action")

	lines, err := h.controller.Control(ctx, service, action)
	switch {
	case errors.Is(err, ops.ErrUnknownService):
		respondError(w, http.StatusBadRequest, "unknown_service", "unknown service: "+service)
		return
	case errors.Is(err, ops.ErrUnknownAction):
		respondError(w, http.StatusBadRequest, "unknown_action", "unknown action: "+action)
		return
	case err != nil:
		h.logger.Error("service control failed",
			zap.String("service", service),
			zap.String("action", action),
			zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, ServiceLogDTO{Log: strings.Join(lines, "\n")})
		return
	}

	respondJSON(w, http.StatusOK, ServiceLogDTO{Log: strings.Join(lines, "\n")})
}

// GET /api/status/redis
func (h *OpsHandler) RedisStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.controller.RedisStatus(ctx); err != nil {
		h.logger.Warn("redis status probe failed", zap.Error(err))
		respondJSON(w, http.StatusOK, RedisStatusDTO{Status: "down"})
		return
	}
	respondJSON(w, http.StatusOK, RedisStatusDTO{Status: "up"})
}

// GET /api/status/queue
func (h *OpsHandler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status, err := h.controller.QueueStatusReport(ctx)
	if err != nil {
		h.logger.Warn("queue status probe failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "queue_unavailable", "failed to inspect queue")
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// GET /api/status/orders
func (h *OpsHandler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	recent, err := h.ledger.ListRecent(ctx, 10)
	if err != nil {
		h.logger.Error("failed to list recent orders", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	if recent == nil {
		recent = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, recent)
}

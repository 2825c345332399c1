package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
)

// CatalogReader lists the cars on sale.
// Consumers define this interface, not the Postgres implementation.
type CatalogReader interface {
	List(ctx context.Context) ([]domain.Car, error)
}

type CarHandler struct {
	catalog CatalogReader
	logger  *zap.Logger
	timeout time.Duration
}

func NewCarHandler(catalog CatalogReader, logger *zap.Logger, timeout time.Duration) *CarHandler {
	return &CarHandler{
		catalog: catalog,
		logger:  logger,
		timeout: timeout,
	}
}

// GET /api/cars
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cars, err := h.catalog.List(ctx)
	if err != nil {
		h.logger.Error("failed to list cars", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load catalog")
		return
	}
	if cars == nil {
		cars = []domain.Car{}
	}

	respondJSON(w, http.StatusOK, cars)
}

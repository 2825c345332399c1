package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
)

func ordersRouter(reader *mockOrderReader) http.Handler {
	h := NewOrdersHandler(reader, zap.NewNop(), time.Second)
	r := chi.NewRouter()
	r.Get("/api/orders/{id}", h.Get)
	return r
}

func TestOrdersHandler_Get(t *testing.T) {
	reader := &mockOrderReader{
		order: &domain.Order{ID: 5, Status: domain.OrderStatusPending, Total: decimal.NewFromFloat(39.98)},
		items: []domain.OrderItem{{OrderID: 5, CarID: 1, Quantity: 2, Price: decimal.NewFromFloat(19.99)}},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders/5", nil)
	rec := httptest.NewRecorder()
	ordersRouter(reader).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp OrderResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Order)
	assert.Equal(t, int64(5), resp.Order.ID)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(1), resp.Items[0].CarID)
}

func TestOrdersHandler_Get_NotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/orders/99", nil)
	rec := httptest.NewRecorder()
	ordersRouter(&mockOrderReader{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrdersHandler_Get_BadID(t *testing.T) {
	for _, id := range []string{"abc", "-3", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+id, nil)
		rec := httptest.NewRecorder()
		ordersRouter(&mockOrderReader{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "id=%s", id)
	}
}

func TestOrdersHandler_Get_ReaderError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/orders/5", nil)
	rec := httptest.NewRecorder()
	ordersRouter(&mockOrderReader{err: errBoom}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

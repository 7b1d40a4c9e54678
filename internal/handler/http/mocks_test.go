package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/unit"
)

type MockCartGateway struct {
	mock.Mock
}

func (m *MockCartGateway) CartsByUnit(ctx context.Context, unitID int64) ([]gateway.CartSummary, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.CartSummary), args.Error(1)
}

func (m *MockCartGateway) CartByID(ctx context.Context, id int64) (*gateway.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Cart), args.Error(1)
}

func (m *MockCartGateway) CreateCart(ctx context.Context, payload gateway.CartPayload) (*gateway.Cart, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Cart), args.Error(1)
}

func (m *MockCartGateway) UpdateCart(ctx context.Context, id int64, payload gateway.CartPayload) (*gateway.Cart, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Cart), args.Error(1)
}

type MockProducts struct {
	mock.Mock
}

func (m *MockProducts) Products(ctx context.Context, description string) ([]gateway.Product, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Product), args.Error(1)
}

type MockOwnerGateway struct {
	mock.Mock
}

func (m *MockOwnerGateway) Streets(ctx context.Context) ([]gateway.Street, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Street), args.Error(1)
}

func (m *MockOwnerGateway) UpdateUnit(ctx context.Context, id int64, payload gateway.UnitPayload) (*gateway.Unit, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Unit), args.Error(1)
}

func (m *MockOwnerGateway) CreateUnit(ctx context.Context, payload gateway.UnitPayload) (*gateway.Unit, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Unit), args.Error(1)
}

type MockUnits struct {
	mock.Mock
}

func (m *MockUnits) Search(ctx context.Context, filter gateway.UnitFilter) ([]gateway.Unit, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Unit), args.Error(1)
}

func (m *MockUnits) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUnits) Page(page, perPage int) unit.Page {
	return m.Called(page, perPage).Get(0).(unit.Page)
}

func (m *MockUnits) Lookup(ctx context.Context, id int64) (gateway.Unit, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(gateway.Unit), args.Error(1)
}

type routes interface {
	RegisterRoutes(router chi.Router)
}

func newRouter(handlers ...routes) *chi.Mux {
	router := chi.NewRouter()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out), "Failed to decode response body")
	return out
}

func strPtr(s string) *string { return &s }

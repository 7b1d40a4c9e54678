package transport_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/vasiliy-maslov/ecommerce-console/internal/transport"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type echoHandler struct{}

func (echoHandler) RegisterRoutes(router chi.Router) {
	router.Get("/echo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("echo"))
	})
}

func TestNewRouter(t *testing.T) {
	var pingErr error
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	})
	router := transport.NewRouter(pingerFunc(func(context.Context) error { return pingErr }), metricsHandler, echoHandler{})

	tests := []struct {
		name     string
		path     string
		pingErr  error
		wantCode int
		wantBody string
	}{
		{name: "health ok", path: "/health", wantCode: http.StatusOK, wantBody: "OK"},
		{name: "health gateway down", path: "/health", pingErr: errors.New("refused"), wantCode: http.StatusServiceUnavailable, wantBody: "gateway unreachable"},
		{name: "metrics", path: "/metrics", wantCode: http.StatusOK, wantBody: "metrics"},
		{name: "registered handler", path: "/echo", wantCode: http.StatusOK, wantBody: "echo"},
		{name: "unknown route", path: "/nope", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pingErr = tt.pingErr
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

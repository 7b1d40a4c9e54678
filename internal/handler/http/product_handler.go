package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/metrics"
	"github.com/vasiliy-maslov/ecommerce-console/internal/product"
	"github.com/vasiliy-maslov/ecommerce-console/internal/validation"
)

// ProductService maintains the product catalog.
type ProductService interface {
	List(ctx context.Context, description string) ([]gateway.Product, error)
	Get(ctx context.Context, id int64) (*gateway.Product, error)
	Create(ctx context.Context, in product.Input) (*gateway.Product, error)
	Update(ctx context.Context, id int64, in product.Input) (*gateway.Product, error)
	Delete(ctx context.Context, id int64) error
}

type ProductHandler struct {
	service  ProductService
	metrics  *metrics.Registry
	validate *validator.Validate
}

func NewProductHandler(service ProductService, m *metrics.Registry) *ProductHandler {
	return &ProductHandler{service: service, metrics: m, validate: validation.New()}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Get("/products", h.handleList)
	router.Post("/products", h.handleCreate)
	router.Get("/products/{productID}", h.handleGet)
	router.Put("/products/{productID}", h.handleUpdate)
	router.Delete("/products/{productID}", h.handleDelete)
}

func (h *ProductHandler) handleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), r.URL.Query().Get("description"))
	if err != nil {
		respondWithDomainError(w, err, "Failed to list products")
		return
	}
	if products == nil {
		products = []gateway.Product{}
	}
	respondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "productID")
	if !ok {
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, err, "Failed to get product")
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var requestPayload product.Input
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	p, err := h.service.Create(r.Context(), requestPayload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create product via service")
		respondWithDomainError(w, err, "Failed to create product")
		return
	}
	h.metrics.ProductsChanged.WithLabelValues("create").Inc()
	respondWithJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "productID")
	if !ok {
		return
	}
	var requestPayload product.Input
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	p, err := h.service.Update(r.Context(), id, requestPayload)
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to update product via service")
		respondWithDomainError(w, err, "Failed to update product")
		return
	}
	h.metrics.ProductsChanged.WithLabelValues("update").Inc()
	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "productID")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to delete product via service")
		respondWithDomainError(w, err, "Failed to delete product")
		return
	}
	h.metrics.ProductsChanged.WithLabelValues("delete").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// DashboardSource serves the order and revenue summary.
type DashboardSource interface {
	Dashboard(ctx context.Context) (*gateway.Dashboard, error)
}

type DashboardHandler struct {
	source DashboardSource
}

func NewDashboardHandler(source DashboardSource) *DashboardHandler {
	return &DashboardHandler{source: source}
}

func (h *DashboardHandler) RegisterRoutes(router chi.Router) {
	router.Get("/dashboard", h.handleGet)
}

func (h *DashboardHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.source.Dashboard(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load dashboard")
		respondWithDomainError(w, err, "Failed to load dashboard")
		return
	}
	respondWithJSON(w, http.StatusOK, d)
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-console/internal/cart"
	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/metrics"
	"github.com/vasiliy-maslov/ecommerce-console/internal/session"
	"github.com/vasiliy-maslov/ecommerce-console/internal/validation"
)

type OpenCartRequest struct {
	UnitID int64 `json:"unit_id" validate:"required,gt=0"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type UpdateCartRequest struct {
	Timestamp    *string `json:"timestamp"`
	Status       *string `json:"status" validate:"omitempty,oneof=Aberto Pago Cancelado"`
	PickupStatus *string `json:"status_retirada" validate:"omitempty,oneof=Aguardando Separado Retirado Cancelado"`
}

type CartSessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Date      string    `json:"date,omitempty"`
	Cart      cart.View `json:"cart"`
}

type QuantityResponse struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartFactory builds an unopened cart session.
type CartFactory func() *cart.Session

type CartHandler struct {
	sessions *session.Registry[*cart.Session]
	newCart  CartFactory
	loc      *time.Location
	metrics  *metrics.Registry
	validate *validator.Validate
}

func NewCartHandler(sessions *session.Registry[*cart.Session], newCart CartFactory, loc *time.Location, m *metrics.Registry) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		newCart:  newCart,
		loc:      loc,
		metrics:  m,
		validate: validation.New(),
	}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Post("/cart-sessions", h.handleOpen)
	router.Get("/cart-sessions/{id}", h.handleGet)
	router.Delete("/cart-sessions/{id}", h.handleClose)
	router.Patch("/cart-sessions/{id}", h.handleUpdate)
	router.Put("/cart-sessions/{id}/items/{productID}", h.handleSetQuantity)
	router.Post("/cart-sessions/{id}/items/{productID}/increment", h.handleIncrement)
	router.Post("/cart-sessions/{id}/items/{productID}/decrement", h.handleDecrement)
	router.Post("/cart-sessions/{id}/save", h.handleSave)
}

func (h *CartHandler) handleOpen(w http.ResponseWriter, r *http.Request) {
	var requestPayload OpenCartRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	s := h.newCart()
	if err := s.OpenCartFor(r.Context(), requestPayload.UnitID); err != nil {
		log.Error().Err(err).Int64("unit_id", requestPayload.UnitID).Msg("Failed to open cart session")
		respondWithDomainError(w, err, "Failed to open cart")
		return
	}

	id, err := h.sessions.Add(s)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register cart session")
		respondWithError(w, http.StatusInternalServerError, "Failed to open cart")
		return
	}
	h.metrics.SessionsOpened.WithLabelValues("cart").Inc()

	respondWithJSON(w, http.StatusCreated, h.response(id, s))
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, h.response(id, s))
}

func (h *CartHandler) handleClose(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Remove(id); err != nil {
		respondWithDomainError(w, err, "Failed to close cart session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateCartRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	var ts time.Time
	if requestPayload.Timestamp != nil {
		parsed, err := gateway.ParseDateTime(*requestPayload.Timestamp, h.loc)
		if err != nil {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"timestamp": "format DD/MM/YYYY HH:MM[:SS]"},
			})
			return
		}
		ts = parsed
	}

	var err error
	if requestPayload.Timestamp != nil {
		err = s.SetTimestamp(ts)
	}
	if err == nil && requestPayload.Status != nil {
		err = s.SetOrderStatus(cart.OrderStatus(*requestPayload.Status))
	}
	if err == nil && requestPayload.PickupStatus != nil {
		err = s.SetPickupStatus(cart.PickupStatus(*requestPayload.PickupStatus))
	}
	if err != nil {
		respondWithDomainError(w, err, "Failed to update cart")
		return
	}

	respondWithJSON(w, http.StatusOK, h.response(id, s))
}

func (h *CartHandler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	productID, ok := int64Param(w, r, "productID")
	if !ok {
		return
	}

	var requestPayload SetQuantityRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	if err := s.SetQuantity(productID, *requestPayload.Quantity); err != nil {
		respondWithDomainError(w, err, "Failed to set quantity")
		return
	}
	respondWithJSON(w, http.StatusOK, QuantityResponse{ProductID: productID, Quantity: s.Quantities()[productID]})
}

func (h *CartHandler) handleIncrement(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, (*cart.Session).Increment)
}

func (h *CartHandler) handleDecrement(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, (*cart.Session).Decrement)
}

func (h *CartHandler) adjust(w http.ResponseWriter, r *http.Request, op func(*cart.Session, int64) (int, error)) {
	_, s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	productID, ok := int64Param(w, r, "productID")
	if !ok {
		return
	}

	qty, err := op(s, productID)
	if err != nil {
		respondWithDomainError(w, err, "Failed to change quantity")
		return
	}
	respondWithJSON(w, http.StatusOK, QuantityResponse{ProductID: productID, Quantity: qty})
}

func (h *CartHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.lookup(w, r)
	if !ok {
		return
	}

	result, err := s.Save(r.Context())
	if err != nil {
		log.Error().Err(err).Str("session_id", id.String()).Msg("Failed to save cart via session")
		respondWithDomainError(w, err, "Failed to save cart")
		return
	}

	mode := "update"
	if result.Created {
		mode = "create"
	}
	h.metrics.CartsSaved.WithLabelValues(mode).Inc()

	if err := h.sessions.Remove(id); err != nil {
		log.Warn().Err(err).Str("session_id", id.String()).Msg("Failed to release saved cart session")
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *CartHandler) lookup(w http.ResponseWriter, r *http.Request) (uuid.UUID, *cart.Session, bool) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return uuid.Nil, nil, false
	}
	s, err := h.sessions.Get(id)
	if err != nil {
		respondWithDomainError(w, err, "Cart session not found")
		return uuid.Nil, nil, false
	}
	return id, s, true
}

func (h *CartHandler) response(id uuid.UUID, s *cart.Session) CartSessionResponse {
	view := s.View()
	resp := CartSessionResponse{SessionID: id, Cart: view}
	if view.Timestamp != nil {
		resp.Date = gateway.FormatDateTime(*view.Timestamp, h.loc)
	}
	return resp
}

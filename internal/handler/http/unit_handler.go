package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-console/internal/cart"
	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/metrics"
	"github.com/vasiliy-maslov/ecommerce-console/internal/notify"
	"github.com/vasiliy-maslov/ecommerce-console/internal/session"
)

type UnitHandler struct {
	units UnitDirectory
}

func NewUnitHandler(units UnitDirectory) *UnitHandler {
	return &UnitHandler{units: units}
}

func (h *UnitHandler) RegisterRoutes(router chi.Router) {
	router.Get("/units", h.handleList)
}

func (h *UnitHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := gateway.UnitFilter{
		Name:         q.Get("name"),
		Person:       q.Get("person"),
		CartStatus:   q.Get("cart_status"),
		PickupStatus: q.Get("pickup_status"),
	}
	if raw := q.Get("cart_id"); raw != "" {
		cartID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || cartID <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid cart_id parameter")
			return
		}
		filter.CartID = cartID
	}
	page, err := optionalInt(q.Get("page"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid page parameter")
		return
	}
	perPage, err := optionalInt(q.Get("per_page"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid per_page parameter")
		return
	}

	if _, err := h.units.Search(r.Context(), filter); err != nil {
		log.Error().Err(err).Msg("Failed to list units")
		respondWithDomainError(w, err, "Failed to list units")
		return
	}
	respondWithJSON(w, http.StatusOK, h.units.Page(page, perPage))
}

func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// Composer builds order messages.
type Composer interface {
	Compose(unit gateway.Unit, order notify.Order) (notify.Message, error)
	ForUnit(ctx context.Context, unit gateway.Unit, status string) (notify.Message, error)
}

type MessageHandler struct {
	units    UnitDirectory
	carts    *session.Registry[*cart.Session]
	composer Composer
	metrics  *metrics.Registry
}

func NewMessageHandler(units UnitDirectory, carts *session.Registry[*cart.Session], composer Composer, m *metrics.Registry) *MessageHandler {
	return &MessageHandler{units: units, carts: carts, composer: composer, metrics: m}
}

func (h *MessageHandler) RegisterRoutes(router chi.Router) {
	router.Get("/units/{id}/order-message", h.handleOrderMessage)
}

// handleOrderMessage composes from the open cart session when cart_session
// is given, otherwise from the unit's latest saved cart.
func (h *MessageHandler) handleOrderMessage(w http.ResponseWriter, r *http.Request) {
	unitID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	status := r.URL.Query().Get("status")
	if status != "" && !cart.OrderStatus(status).Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid status parameter")
		return
	}

	u, err := h.units.Lookup(r.Context(), unitID)
	if err != nil {
		log.Error().Err(err).Int64("unit_id", unitID).Msg("Failed to find unit for order message")
		respondWithDomainError(w, err, "Failed to load unit")
		return
	}

	var msg notify.Message
	if raw := r.URL.Query().Get("cart_session"); raw != "" {
		sessionID, err := uuid.FromString(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid cart_session parameter")
			return
		}
		s, err := h.carts.Get(sessionID)
		if err != nil {
			respondWithDomainError(w, err, "Cart session not found")
			return
		}
		view := s.View()
		if view.UnitID != unitID {
			respondWithError(w, http.StatusConflict, "Cart session belongs to another unit")
			return
		}
		msg, err = h.composer.Compose(u, orderFromView(view, status))
		if err != nil {
			respondWithDomainError(w, err, "Failed to compose message")
			return
		}
	} else {
		msg, err = h.composer.ForUnit(r.Context(), u, status)
		if err != nil {
			respondWithDomainError(w, err, "Failed to compose message")
			return
		}
	}

	if status == "" {
		status = "default"
	}
	h.metrics.MessagesBuilt.WithLabelValues(status).Inc()
	respondWithJSON(w, http.StatusOK, msg)
}

func orderFromView(view cart.View, status string) notify.Order {
	if status == "" {
		status = view.OrderStatus.String()
	}
	order := notify.Order{
		Number:       view.CartID,
		Status:       status,
		PickupStatus: view.PickupStatus.String(),
	}
	for _, l := range view.Lines {
		if l.Quantity > 0 {
			order.Lines = append(order.Lines, notify.Line{Description: l.Description, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
		}
	}
	return order
}

package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/metrics"
	"github.com/vasiliy-maslov/ecommerce-console/internal/owner"
	"github.com/vasiliy-maslov/ecommerce-console/internal/session"
	"github.com/vasiliy-maslov/ecommerce-console/internal/unit"
	"github.com/vasiliy-maslov/ecommerce-console/internal/validation"
)

// UnitDirectory is the unit listing as the handlers see it.
type UnitDirectory interface {
	Search(ctx context.Context, filter gateway.UnitFilter) ([]gateway.Unit, error)
	Refresh(ctx context.Context) error
	Page(page, perPage int) unit.Page
	Lookup(ctx context.Context, id int64) (gateway.Unit, error)
}

type OpenOwnerRequest struct {
	UnitID *int64 `json:"unit_id" validate:"omitempty,gt=0"`
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

type OwnerSessionResponse struct {
	SessionID uuid.UUID  `json:"session_id"`
	Form      owner.View `json:"form"`
}

type OwnerHandler struct {
	sessions *session.Registry[*owner.Form]
	gw       owner.Gateway
	units    UnitDirectory
	metrics  *metrics.Registry
	validate *validator.Validate
}

func NewOwnerHandler(sessions *session.Registry[*owner.Form], gw owner.Gateway, units UnitDirectory, m *metrics.Registry) *OwnerHandler {
	return &OwnerHandler{
		sessions: sessions,
		gw:       gw,
		units:    units,
		metrics:  m,
		validate: validation.New(),
	}
}

func (h *OwnerHandler) RegisterRoutes(router chi.Router) {
	router.Post("/owner-sessions", h.handleOpen)
	router.Get("/owner-sessions/{id}", h.handleGet)
	router.Delete("/owner-sessions/{id}", h.handleClose)
	router.Patch("/owner-sessions/{id}", h.handleApply)
	router.Put("/owner-sessions/{id}/location", h.handleSetLocation)
	router.Delete("/owner-sessions/{id}/location", h.handleClearLocation)
	router.Post("/owner-sessions/{id}/save", h.handleSave)
}

func (h *OwnerHandler) handleOpen(w http.ResponseWriter, r *http.Request) {
	var requestPayload OpenOwnerRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	var record *gateway.Unit
	if requestPayload.UnitID != nil {
		u, err := h.units.Lookup(r.Context(), *requestPayload.UnitID)
		if err != nil {
			log.Error().Err(err).Int64("unit_id", *requestPayload.UnitID).Msg("Failed to find unit for owner form")
			respondWithDomainError(w, err, "Failed to load unit")
			return
		}
		record = &u
	}

	form := owner.NewForm(h.gw, record)
	// A failed street list leaves the address as free text; the form still opens.
	_ = form.LoadStreets(r.Context())

	id, err := h.sessions.Add(form)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register owner session")
		respondWithError(w, http.StatusInternalServerError, "Failed to open form")
		return
	}
	h.metrics.SessionsOpened.WithLabelValues("owner").Inc()

	respondWithJSON(w, http.StatusCreated, OwnerSessionResponse{SessionID: id, Form: form.View()})
}

func (h *OwnerHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, form, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, OwnerSessionResponse{SessionID: id, Form: form.View()})
}

func (h *OwnerHandler) handleClose(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Remove(id); err != nil {
		respondWithDomainError(w, err, "Failed to close form")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OwnerHandler) handleApply(w http.ResponseWriter, r *http.Request) {
	id, form, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var changes owner.Changes
	if !decodeAndValidate(w, r, h.validate, &changes) {
		return
	}
	if err := form.Apply(changes); err != nil {
		respondWithDomainError(w, err, "Failed to update form")
		return
	}
	respondWithJSON(w, http.StatusOK, OwnerSessionResponse{SessionID: id, Form: form.View()})
}

func (h *OwnerHandler) handleSetLocation(w http.ResponseWriter, r *http.Request) {
	id, form, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var requestPayload LocationRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}
	if err := form.SetLocation(*requestPayload.Latitude, *requestPayload.Longitude); err != nil {
		respondWithDomainError(w, err, "Failed to set location")
		return
	}
	respondWithJSON(w, http.StatusOK, OwnerSessionResponse{SessionID: id, Form: form.View()})
}

func (h *OwnerHandler) handleClearLocation(w http.ResponseWriter, r *http.Request) {
	id, form, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := form.ClearLocation(); err != nil {
		respondWithDomainError(w, err, "Failed to clear location")
		return
	}
	respondWithJSON(w, http.StatusOK, OwnerSessionResponse{SessionID: id, Form: form.View()})
}

func (h *OwnerHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	id, form, ok := h.lookup(w, r)
	if !ok {
		return
	}

	existing := form.View().Existing
	saved, err := form.Save(r.Context())
	if err != nil {
		log.Error().Err(err).Str("session_id", id.String()).Msg("Failed to save owner form")
		respondWithDomainError(w, err, "Failed to save changes")
		return
	}

	mode := "create"
	if existing {
		mode = "update"
	}
	h.metrics.OwnersSaved.WithLabelValues(mode).Inc()

	if err := h.units.Refresh(r.Context()); err != nil {
		log.Warn().Err(err).Msg("Failed to refresh unit listing after owner save")
	}
	if err := h.sessions.Remove(id); err != nil {
		log.Warn().Err(err).Str("session_id", id.String()).Msg("Failed to release saved owner session")
	}

	respondWithJSON(w, http.StatusOK, saved)
}

func (h *OwnerHandler) lookup(w http.ResponseWriter, r *http.Request) (uuid.UUID, *owner.Form, bool) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return uuid.Nil, nil, false
	}
	form, err := h.sessions.Get(id)
	if err != nil {
		respondWithDomainError(w, err, "Owner session not found")
		return uuid.Nil, nil, false
	}
	return id, form, true
}

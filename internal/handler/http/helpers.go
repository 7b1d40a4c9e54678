package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-console/internal/cart"
	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/notify"
	"github.com/vasiliy-maslov/ecommerce-console/internal/owner"
	"github.com/vasiliy-maslov/ecommerce-console/internal/product"
	"github.com/vasiliy-maslov/ecommerce-console/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// respondWithError sends a JSON error body.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	var (
		cartValidation  *cart.ValidationError
		ownerValidation   *owner.ValidationError
		productValidation *product.ValidationError
		transportErr      *gateway.TransportError
		serverErr         *gateway.ServerError
	)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, gateway.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &cartValidation), errors.As(err, &ownerValidation), errors.As(err, &productValidation):
		return http.StatusBadRequest
	case errors.Is(err, notify.ErrNoMobile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, cart.ErrNotEditable),
		errors.Is(err, cart.ErrAlreadyOpen),
		errors.Is(err, cart.ErrFinished),
		errors.Is(err, cart.ErrSessionClosed),
		errors.Is(err, owner.ErrNotEditable),
		errors.Is(err, owner.ErrSaving),
		errors.Is(err, owner.ErrClosed):
		return http.StatusConflict
	case errors.As(err, &transportErr), errors.As(err, &serverErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage picks the operator-facing text for err.
func errorMessage(err error, fallback string) string {
	var (
		cartOp            *cart.OperationError
		ownerOp           *owner.OperationError
		ownerValidation   *owner.ValidationError
		cartValidation    *cart.ValidationError
		productValidation *product.ValidationError
	)
	switch {
	case errors.As(err, &cartOp):
		return cartOp.Message
	case errors.As(err, &ownerOp):
		return ownerOp.Message
	case errors.As(err, &ownerValidation):
		return ownerValidation.Message
	case errors.As(err, &cartValidation):
		return cartValidation.Err.Error()
	case errors.As(err, &productValidation):
		return productValidation.Message
	case errors.Is(err, session.ErrNotFound):
		return "Session not found"
	case errors.Is(err, gateway.ErrNotFound):
		return "Not found"
	case errors.Is(err, notify.ErrNoMobile):
		return "Unit has no mobile number"
	case errors.Is(err, cart.ErrAlreadyOpen):
		return "Cart session already open"
	case errors.Is(err, cart.ErrNotEditable), errors.Is(err, owner.ErrNotEditable), errors.Is(err, cart.ErrFinished):
		return "Session is not editable"
	case errors.Is(err, cart.ErrSessionClosed), errors.Is(err, owner.ErrClosed):
		return "Session was closed"
	case errors.Is(err, owner.ErrSaving):
		return "Form is saving"
	}
	return gateway.UserMessage(err, fallback)
}

func respondWithDomainError(w http.ResponseWriter, err error, fallback string) {
	var (
		ownerValidation   *owner.ValidationError
		productValidation *product.ValidationError
	)
	switch {
	case errors.As(err, &ownerValidation) && len(ownerValidation.Details) > 0:
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   ownerValidation.Message,
			Details: ownerValidation.Details,
		})
		return
	case errors.As(err, &productValidation) && len(productValidation.Details) > 0:
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   productValidation.Message,
			Details: productValidation.Details,
		})
		return
	}
	respondWithError(w, mapErrorToStatusCode(err), errorMessage(err, fallback))
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// the error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		log.Warn().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}

	err := validate.Struct(dst)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "Validation failed",
			Details: formatValidationErrors(validationErrors),
		})
		return false
	}
	log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
	respondWithError(w, http.StatusInternalServerError, "Internal validation error")
	return false
}

func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			details[fe.Field()] = fe.Tag() + "=" + fe.Param()
			continue
		}
		details[fe.Field()] = fe.Tag()
	}
	return details
}

func sessionIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("session_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}

func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		log.Warn().Str(name, raw).Msg("Failed to parse numeric parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}

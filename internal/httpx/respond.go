package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fjod/shopfront/internal/api"
	"github.com/fjod/shopfront/internal/checkout"
	"github.com/fjod/shopfront/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeError maps domain errors onto HTTP responses. API errors pass the
// server's message through verbatim; everything else gets a stable code
// the UI can branch on.
func writeError(w http.ResponseWriter, err error) {
	var rejected *checkout.CouponRejectedError
	var apiErr *api.Error

	switch {
	case errors.As(err, &rejected):
		respondError(w, http.StatusUnprocessableEntity, "coupon_rejected", rejected.Reason)
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		respondError(w, status, "upstream_error", apiErr.Message)
	case errors.Is(err, session.ErrNotAuthorized):
		respondError(w, http.StatusForbidden, "not_authorized", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrSubmitInFlight):
		respondError(w, http.StatusConflict, "submit_in_flight", err.Error())
	case errors.Is(err, checkout.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, checkout.ErrMissingFields),
		errors.Is(err, checkout.ErrGuestEmailRequired),
		errors.Is(err, checkout.ErrGuestNameRequired):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		log.Printf("unhandled error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

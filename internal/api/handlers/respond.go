package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/seid21/topia-estate-be/internal/services"
)

var validate = validator.New()

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// respondError maps service-layer sentinel errors to HTTP status codes.
// Anything unmatched is an internal failure and stays opaque to the client.
func respondError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, services.ErrInvalidParticipants),
		errors.Is(err, services.ErrMissingParticipant),
		errors.Is(err, services.ErrMalformedID),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrResetTokenInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrConversationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDuplicateTitle):
		status = http.StatusConflict
	default:
		log.Error().Err(err).Msg("Unhandled service error")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/seid21/topia-estate-be/internal/mail"
)

// ContactHandler forwards contact-form submissions to the site inbox.
type ContactHandler struct {
	mailer *mail.Mailer
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(mailer *mail.Mailer) *ContactHandler {
	return &ContactHandler{mailer: mailer}
}

// ContactPayload defines the structure for contact-form submissions.
type ContactPayload struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// Send delivers the submission by email.
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var payload ContactPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.mailer.SendContact(payload.Name, payload.Email, payload.Message); err != nil {
		log.Error().Err(err).Msg("Failed to forward contact message")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send message"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Message sent successfully"})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/seid21/topia-estate-be/internal/auth"
	"github.com/seid21/topia-estate-be/internal/models"
	"github.com/seid21/topia-estate-be/internal/services"
)

// ConversationHandler handles HTTP requests for buyer-seller threads.
type ConversationHandler struct {
	service services.ConversationServiceProvider
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(service services.ConversationServiceProvider) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// FindOrCreatePayload names the peer and optionally the listing the thread
// is about. The caller's own identity always comes from the token.
type FindOrCreatePayload struct {
	SellerID   string `json:"sellerId" validate:"required"`
	PropertyID string `json:"propertyId" validate:"omitempty"`
}

// FindOrCreate resolves the unique conversation between the caller and the
// named peer, creating it when absent.
func (h *ConversationHandler) FindOrCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
		return
	}

	var payload FindOrCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	conv, err := h.service.FindOrCreate(r.Context(), claims.UserID, payload.SellerID, payload.PropertyID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Conversation resolve failed")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, conv.View())
}

// List returns the caller's conversations, most recently active first.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
		return
	}

	convs, err := h.service.ListForUser(r.Context(), claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to list conversations")
		respondError(w, err)
		return
	}

	views := make([]models.ConversationView, 0, len(convs))
	for _, c := range convs {
		views = append(views, c.View())
	}
	respondJSON(w, http.StatusOK, views)
}

// With resolves the caller's conversation with the user in the URL,
// unscoped to any listing.
func (h *ConversationHandler) With(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
		return
	}

	peerID := chi.URLParam(r, "userID")
	conv, err := h.service.FindOrCreate(r.Context(), claims.UserID, peerID, "")
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, conv.View())
}

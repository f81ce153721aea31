package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/seid21/topia-estate-be/internal/auth"
	"github.com/seid21/topia-estate-be/internal/services"
)

// MessageHandler handles HTTP requests for conversation messages.
type MessageHandler struct {
	service services.MessageServiceProvider
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service services.MessageServiceProvider) *MessageHandler {
	return &MessageHandler{service: service}
}

// SendMessagePayload defines the structure for message send requests.
// ReceiverID may be omitted; the recorder derives it from the thread.
type SendMessagePayload struct {
	ConversationID string `json:"conversationId" validate:"required"`
	ReceiverID     string `json:"receiverId" validate:"omitempty"`
	Content        string `json:"content" validate:"required"`
}

// Create appends a message to a conversation on behalf of the caller.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
		return
	}

	var payload SendMessagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	msg, err := h.service.Record(r.Context(), payload.ConversationID, claims.UserID, payload.ReceiverID, payload.Content)
	if err != nil {
		log.Warn().Err(err).Str("conversation_id", payload.ConversationID).Str("sender_id", claims.UserID).Msg("Failed to record message")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// ListByConversation returns a thread's messages, oldest first.
func (h *MessageHandler) ListByConversation(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
		return
	}

	conversationID := chi.URLParam(r, "id")
	msgs, err := h.service.ListByConversation(r.Context(), conversationID, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, msgs)
}

package models

import "time"

// Conversation is a thread between exactly two users, optionally scoped to a
// property. The participant pair is stored canonically: ParticipantLo is the
// lexicographically smaller user id, so (A,B) and (B,A) land on the same row.
// PropertyID is the empty string for threads not tied to a listing; the
// uniqueness index over (participant_lo, participant_hi, property_id) relies
// on that (sqlite treats NULLs as distinct in unique indexes).
type Conversation struct {
	ID            string    `json:"id"`
	ParticipantLo string    `json:"-"`
	ParticipantHi string    `json:"-"`
	PropertyID    string    `json:"propertyId,omitempty"`
	LastMessage   string    `json:"lastMessage"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Participants returns both participant ids, canonical order.
func (c Conversation) Participants() [2]string {
	return [2]string{c.ParticipantLo, c.ParticipantHi}
}

// HasParticipant reports whether the given user belongs to the conversation.
func (c Conversation) HasParticipant(userID string) bool {
	return userID == c.ParticipantLo || userID == c.ParticipantHi
}

// OtherParticipant returns the participant that is not userID. Callers must
// check HasParticipant first.
func (c Conversation) OtherParticipant(userID string) string {
	if userID == c.ParticipantLo {
		return c.ParticipantHi
	}
	return c.ParticipantLo
}

// ConversationView is the serializable shape of a conversation, with the
// participant pair exposed as a list instead of the storage columns.
type ConversationView struct {
	Conversation
	Participants []string `json:"participants"`
}

// View wraps the conversation with its participants in serializable form.
func (c Conversation) View() ConversationView {
	return ConversationView{
		Conversation: c,
		Participants: []string{c.ParticipantLo, c.ParticipantHi},
	}
}

package models

import "time"

// Message is a single entry in a conversation. IDs are ULIDs, so ordering by
// id matches insertion order when timestamps collide.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	ReceiverID     string    `json:"receiverId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

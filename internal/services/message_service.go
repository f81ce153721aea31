package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/seid21/topia-estate-be/internal/models"
)

// Notifier pushes an event to a connected user. Implemented by the websocket
// hub; nil disables push.
type Notifier interface {
	NotifyUser(userID, action string, payload interface{})
}

// MessageServiceProvider defines the interface for message services.
type MessageServiceProvider interface {
	Record(ctx context.Context, conversationID, senderID, receiverID, content string) (models.Message, error)
	ListByConversation(ctx context.Context, conversationID, requesterID string) ([]models.Message, error)
}

// MessageService appends messages to conversations and maintains the
// denormalized last-message summary.
type MessageService struct {
	db       *sql.DB
	convs    ConversationServiceProvider
	notifier Notifier
}

// NewMessageService creates a new MessageService.
func NewMessageService(db *sql.DB, convs ConversationServiceProvider, notifier Notifier) *MessageService {
	return &MessageService{db: db, convs: convs, notifier: notifier}
}

// Record appends a message to a conversation and updates the parent's
// last-message text and modification timestamp in the same transaction.
// Sender and receiver must both be participants of the thread.
func (s *MessageService) Record(ctx context.Context, conversationID, senderID, receiverID, content string) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, ErrEmptyMessage
	}

	conv, err := s.convs.GetByID(ctx, conversationID)
	if err != nil {
		return models.Message{}, err
	}
	if !conv.HasParticipant(senderID) {
		return models.Message{}, ErrUnauthorized
	}
	if receiverID == "" {
		receiverID = conv.OtherParticipant(senderID)
	}
	if receiverID == senderID || !conv.HasParticipant(receiverID) {
		return models.Message{}, ErrInvalidParticipants
	}

	now := time.Now().UTC()
	msg := models.Message{
		ID:             ulid.Make().String(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		CreatedAt:      now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Message{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, receiver_id, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, msg.SenderID, msg.ReceiverID, msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return models.Message{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE conversations SET last_message = ?, updated_at = ? WHERE id = ?`,
		msg.Content, now, conv.ID,
	)
	if err != nil {
		return models.Message{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Message{}, err
	}

	if s.notifier != nil {
		s.notifier.NotifyUser(receiverID, "message.new", msg)
	}
	log.Debug().Str("conversation_id", conv.ID).Str("sender_id", senderID).Msg("Message recorded")

	return msg, nil
}

// ListByConversation returns a conversation's messages oldest first. Ties on
// the creation timestamp fall back to id order, which for ULIDs is insertion
// order. Only participants may read the thread.
func (s *MessageService) ListByConversation(ctx context.Context, conversationID, requesterID string) ([]models.Message, error) {
	conv, err := s.convs.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(requesterID) {
		return nil, ErrUnauthorized
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, sender_id, receiver_id, content, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

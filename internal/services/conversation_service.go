package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/seid21/topia-estate-be/internal/models"
)

// ConversationServiceProvider defines the interface for conversation services.
type ConversationServiceProvider interface {
	FindOrCreate(ctx context.Context, userA, userB, propertyID string) (models.Conversation, error)
	GetByID(ctx context.Context, id string) (models.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]models.Conversation, error)
}

// ConversationService resolves participant pairs to conversation threads.
type ConversationService struct {
	db *sql.DB
}

// NewConversationService creates a new ConversationService.
func NewConversationService(db *sql.DB) *ConversationService {
	return &ConversationService{db: db}
}

// canonicalPair orders two user ids so (A,B) and (B,A) map to the same key.
func canonicalPair(a, b string) (lo, hi string) {
	if a < b {
		return a, b
	}
	return b, a
}

// FindOrCreate returns the unique conversation for the participant pair and
// optional property, creating it if absent. Participants are an unordered
// set: argument order never matters. Under concurrent calls for the same key
// the unique index on (participant_lo, participant_hi, property_id) decides
// the winner and the loser re-reads the winner's row.
func (s *ConversationService) FindOrCreate(ctx context.Context, userA, userB, propertyID string) (models.Conversation, error) {
	if userA == "" || userB == "" {
		return models.Conversation{}, ErrMissingParticipant
	}
	if _, err := uuid.Parse(userA); err != nil {
		return models.Conversation{}, ErrMalformedID
	}
	if _, err := uuid.Parse(userB); err != nil {
		return models.Conversation{}, ErrMalformedID
	}
	if propertyID != "" {
		if _, err := uuid.Parse(propertyID); err != nil {
			return models.Conversation{}, ErrMalformedID
		}
	}
	if userA == userB {
		return models.Conversation{}, ErrInvalidParticipants
	}

	lo, hi := canonicalPair(userA, userB)

	conv, err := s.getByKey(ctx, lo, hi, propertyID)
	if err == nil {
		return conv, nil
	}
	if err != sql.ErrNoRows {
		return models.Conversation{}, err
	}

	now := time.Now().UTC()
	conv = models.Conversation{
		ID:            uuid.New().String(),
		ParticipantLo: lo,
		ParticipantHi: hi,
		PropertyID:    propertyID,
		LastMessage:   "",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, participant_lo, participant_hi, property_id, last_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, '', ?, ?)`,
		conv.ID, conv.ParticipantLo, conv.ParticipantHi, conv.PropertyID, conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race: another request created the thread first.
			return s.getByKey(ctx, lo, hi, propertyID)
		}
		return models.Conversation{}, err
	}
	return conv, nil
}

// GetByID retrieves a conversation by its id.
func (s *ConversationService) GetByID(ctx context.Context, id string) (models.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, participant_lo, participant_hi, property_id, last_message, created_at, updated_at
		FROM conversations WHERE id = ?`, id)
	conv, err := scanConversation(row)
	if err == sql.ErrNoRows {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// ListForUser returns the user's conversations, most recently active first.
func (s *ConversationService) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, participant_lo, participant_hi, property_id, last_message, created_at, updated_at
		FROM conversations
		WHERE participant_lo = ? OR participant_hi = ?
		ORDER BY updated_at DESC`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

func (s *ConversationService) getByKey(ctx context.Context, lo, hi, propertyID string) (models.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, participant_lo, participant_hi, property_id, last_message, created_at, updated_at
		FROM conversations
		WHERE participant_lo = ? AND participant_hi = ? AND property_id = ?`,
		lo, hi, propertyID)
	return scanConversation(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConversation(row rowScanner) (models.Conversation, error) {
	var conv models.Conversation
	err := row.Scan(&conv.ID, &conv.ParticipantLo, &conv.ParticipantHi, &conv.PropertyID,
		&conv.LastMessage, &conv.CreatedAt, &conv.UpdatedAt)
	return conv, err
}

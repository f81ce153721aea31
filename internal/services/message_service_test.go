package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/seid21/topia-estate-be/internal/models"
)

type stubNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *stubNotifier) NotifyUser(userID, action string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, userID+":"+action)
}

func newMessageFixture(t *testing.T) (*MessageService, *ConversationService, models.Conversation, string, string, *stubNotifier) {
	t.Helper()

	db := newTestDB(t)
	convs := NewConversationService(db)
	notifier := &stubNotifier{}
	msgs := NewMessageService(db, convs, notifier)

	buyer := insertUser(t, db, "buyer")
	seller := insertUser(t, db, "seller")
	conv, err := convs.FindOrCreate(context.Background(), buyer, seller, "")
	require.NoError(t, err)

	return msgs, convs, conv, buyer, seller, notifier
}

func TestRecordUpdatesConversationSummary(t *testing.T) {
	req := require.New(t)
	msgs, convs, conv, buyer, seller, notifier := newMessageFixture(t)
	ctx := context.Background()

	req.Empty(conv.LastMessage)
	time.Sleep(5 * time.Millisecond)

	msg, err := msgs.Record(ctx, conv.ID, buyer, seller, "Hello")
	req.NoError(err)
	req.Equal("Hello", msg.Content)
	req.Equal(buyer, msg.SenderID)
	req.Equal(seller, msg.ReceiverID)

	updated, err := convs.GetByID(ctx, conv.ID)
	req.NoError(err)
	req.Equal("Hello", updated.LastMessage)
	req.True(updated.UpdatedAt.After(conv.UpdatedAt), "modification timestamp must advance")

	req.Equal([]string{seller + ":message.new"}, notifier.events)
}

func TestRecordDerivesReceiver(t *testing.T) {
	req := require.New(t)
	msgs, _, conv, buyer, seller, _ := newMessageFixture(t)

	msg, err := msgs.Record(context.Background(), conv.ID, seller, "", "Sure, it's available")
	req.NoError(err)
	req.Equal(buyer, msg.ReceiverID)
}

func TestRecordValidation(t *testing.T) {
	req := require.New(t)
	msgs, _, conv, buyer, seller, _ := newMessageFixture(t)
	ctx := context.Background()

	_, err := msgs.Record(ctx, conv.ID, buyer, seller, "   ")
	req.ErrorIs(err, ErrEmptyMessage)

	_, err = msgs.Record(ctx, "missing-conversation", buyer, seller, "hi")
	req.ErrorIs(err, ErrConversationNotFound)

	outsider := "b2a11dfb-3a1e-4b73-9d52-2f5e1d11a001"
	_, err = msgs.Record(ctx, conv.ID, outsider, seller, "hi")
	req.ErrorIs(err, ErrUnauthorized)

	// A participant cannot address someone outside the thread.
	_, err = msgs.Record(ctx, conv.ID, buyer, outsider, "hi")
	req.ErrorIs(err, ErrInvalidParticipants)

	// Or themselves.
	_, err = msgs.Record(ctx, conv.ID, buyer, buyer, "hi")
	req.ErrorIs(err, ErrInvalidParticipants)
}

func TestRecordRejectedMessageLeavesSummaryAlone(t *testing.T) {
	req := require.New(t)
	msgs, convs, conv, buyer, seller, _ := newMessageFixture(t)
	ctx := context.Background()

	_, err := msgs.Record(ctx, conv.ID, buyer, seller, "first")
	req.NoError(err)

	_, err = msgs.Record(ctx, conv.ID, buyer, seller, "")
	req.ErrorIs(err, ErrEmptyMessage)

	current, err := convs.GetByID(ctx, conv.ID)
	req.NoError(err)
	req.Equal("first", current.LastMessage)
}

func TestListByConversationOldestFirst(t *testing.T) {
	req := require.New(t)
	msgs, _, conv, buyer, seller, _ := newMessageFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		sender, receiver := buyer, seller
		if i%2 == 1 {
			sender, receiver = seller, buyer
		}
		_, err := msgs.Record(ctx, conv.ID, sender, receiver, fmt.Sprintf("msg-%d", i))
		req.NoError(err)
	}

	listed, err := msgs.ListByConversation(ctx, conv.ID, buyer)
	req.NoError(err)
	req.Len(listed, 5)
	for i, msg := range listed {
		req.Equal(fmt.Sprintf("msg-%d", i), msg.Content)
	}
}

func TestListByConversationStableOnEqualTimestamps(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	convs := NewConversationService(db)
	msgs := NewMessageService(db, convs, nil)
	ctx := context.Background()

	buyer := insertUser(t, db, "buyer")
	seller := insertUser(t, db, "seller")
	conv, err := convs.FindOrCreate(ctx, buyer, seller, "")
	req.NoError(err)

	// Force identical creation timestamps; ULIDs generated in sequence keep
	// the insertion order as the tie-break.
	at := time.Now().UTC()
	for i := 0; i < 3; i++ {
		_, err := db.Exec(
			"INSERT INTO messages (id, conversation_id, sender_id, receiver_id, content, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			ulid.Make().String(), conv.ID, buyer, seller, fmt.Sprintf("tied-%d", i), at,
		)
		req.NoError(err)
	}

	listed, err := msgs.ListByConversation(ctx, conv.ID, seller)
	req.NoError(err)
	req.Len(listed, 3)
	for i, msg := range listed {
		req.Equal(fmt.Sprintf("tied-%d", i), msg.Content)
	}
}

func TestListByConversationParticipantsOnly(t *testing.T) {
	req := require.New(t)
	msgs, _, conv, buyer, seller, _ := newMessageFixture(t)
	ctx := context.Background()

	_, err := msgs.Record(ctx, conv.ID, buyer, seller, "private")
	req.NoError(err)

	_, err = msgs.ListByConversation(ctx, conv.ID, "c3a11dfb-3a1e-4b73-9d52-2f5e1d11a002")
	req.ErrorIs(err, ErrUnauthorized)
}

package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateOrderIndependent(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewConversationService(db)
	ctx := context.Background()

	buyer := insertUser(t, db, "buyer")
	seller := insertUser(t, db, "seller")

	first, err := svc.FindOrCreate(ctx, buyer, seller, "")
	req.NoError(err)
	req.NotEmpty(first.ID)
	req.Empty(first.LastMessage)

	second, err := svc.FindOrCreate(ctx, seller, buyer, "")
	req.NoError(err)
	req.Equal(first.ID, second.ID)

	var count int
	req.NoError(db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&count))
	req.Equal(1, count)
}

func TestFindOrCreatePropertyScoped(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewConversationService(db)
	ctx := context.Background()

	buyer := insertUser(t, db, "buyer")
	seller := insertUser(t, db, "seller")
	propertyID := uuid.New().String()

	scoped, err := svc.FindOrCreate(ctx, buyer, seller, propertyID)
	req.NoError(err)
	req.Equal(propertyID, scoped.PropertyID)

	// A thread without a property is a different thread.
	unscoped, err := svc.FindOrCreate(ctx, buyer, seller, "")
	req.NoError(err)
	req.NotEqual(scoped.ID, unscoped.ID)

	// Same key resolves to the same thread again.
	again, err := svc.FindOrCreate(ctx, seller, buyer, propertyID)
	req.NoError(err)
	req.Equal(scoped.ID, again.ID)
}

func TestFindOrCreateRejectsSelfConversation(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewConversationService(db)

	user := insertUser(t, db, "loner")

	_, err := svc.FindOrCreate(context.Background(), user, user, "")
	req.ErrorIs(err, ErrInvalidParticipants)

	// Validation fails before any write.
	var count int
	req.NoError(db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&count))
	req.Zero(count)
}

func TestFindOrCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewConversationService(db)
	ctx := context.Background()

	valid := insertUser(t, db, "valid")

	tests := []struct {
		name     string
		a, b     string
		property string
		want     error
	}{
		{"missing first", "", valid, "", ErrMissingParticipant},
		{"missing second", valid, "", "", ErrMissingParticipant},
		{"malformed first", "not-a-uuid", valid, "", ErrMalformedID},
		{"malformed second", valid, "42", "", ErrMalformedID},
		{"malformed property", valid, uuid.New().String(), "prop-1", ErrMalformedID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.FindOrCreate(ctx, tt.a, tt.b, tt.property)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFindOrCreateConcurrentSingleRow(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewConversationService(db)
	ctx := context.Background()

	buyer := insertUser(t, db, "buyer")
	seller := insertUser(t, db, "seller")
	propertyID := uuid.New().String()

	const callers = 8
	ids := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conv, err := svc.FindOrCreate(ctx, buyer, seller, propertyID)
			ids[i], errs[i] = conv.ID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		req.NoError(errs[i])
		req.Equal(ids[0], ids[i])
	}

	var count int
	req.NoError(db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&count))
	req.Equal(1, count)
}

func TestListForUserMostRecentFirst(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	svc := NewConversationService(db)
	msgs := NewMessageService(db, svc, nil)
	ctx := context.Background()

	buyer := insertUser(t, db, "buyer")
	sellerA := insertUser(t, db, "sellerA")
	sellerB := insertUser(t, db, "sellerB")

	withA, err := svc.FindOrCreate(ctx, buyer, sellerA, "")
	req.NoError(err)
	withB, err := svc.FindOrCreate(ctx, buyer, sellerB, "")
	req.NoError(err)

	// Activity in the older thread bumps it to the top.
	_, err = msgs.Record(ctx, withA.ID, buyer, sellerA, "still interested?")
	req.NoError(err)

	convs, err := svc.ListForUser(ctx, buyer)
	req.NoError(err)
	req.Len(convs, 2)
	req.Equal(withA.ID, convs[0].ID)
	req.Equal(withB.ID, convs[1].ID)

	// Sellers only see their own thread.
	convs, err = svc.ListForUser(ctx, sellerB)
	req.NoError(err)
	req.Len(convs, 1)
	req.Equal(withB.ID, convs[0].ID)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"foundling/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageRepoStub struct {
	createFn      func(context.Context, *models.Message) error
	listForUserFn func(context.Context, uint) ([]*models.Message, error)
}

func (s *messageRepoStub) Create(ctx context.Context, msg *models.Message) error {
	return s.createFn(ctx, msg)
}
func (s *messageRepoStub) ListForUser(ctx context.Context, userID uint) ([]*models.Message, error) {
	return s.listForUserFn(ctx, userID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn: func(_ context.Context, msg *models.Message) error {
			msg.ID = 1
			return nil
		},
		listForUserFn: func(context.Context, uint) ([]*models.Message, error) { return nil, nil },
	}
}

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid message stored trimmed", func(t *testing.T) {
		repo := noopMessageRepo()
		var saved *models.Message
		repo.createFn = func(_ context.Context, msg *models.Message) error {
			msg.ID = 1
			saved = msg
			return nil
		}
		svc := NewMessageService(repo, noopUserRepo())

		msg, err := svc.Send(ctx, SendMessageInput{SenderID: 1, ReceiverID: 2, ItemID: 3, Content: "  found it!  "})
		require.NoError(t, err)
		assert.Equal(t, "found it!", msg.Content)
		assert.Equal(t, saved, msg)
	})

	validationCases := []struct {
		name string
		in   SendMessageInput
	}{
		{"Empty content", SendMessageInput{SenderID: 1, ReceiverID: 2, ItemID: 3, Content: "   "}},
		{"Missing receiver", SendMessageInput{SenderID: 1, ItemID: 3, Content: "hi"}},
		{"Missing item", SendMessageInput{SenderID: 1, ReceiverID: 2, Content: "hi"}},
		{"Self message", SendMessageInput{SenderID: 1, ReceiverID: 1, ItemID: 3, Content: "hi"}},
	}
	for _, tt := range validationCases {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMessageService(noopMessageRepo(), noopUserRepo())
			_, err := svc.Send(ctx, tt.in)
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}

	t.Run("Unknown receiver", func(t *testing.T) {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := NewMessageService(noopMessageRepo(), users)

		_, err := svc.Send(ctx, SendMessageInput{SenderID: 1, ReceiverID: 404, ItemID: 3, Content: "hello"})
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}

func TestMessageService_Conversations(t *testing.T) {
	now := time.Now()
	repo := noopMessageRepo()
	// Newest first, as the repository returns them.
	repo.listForUserFn = func(context.Context, uint) ([]*models.Message, error) {
		return []*models.Message{
			{ID: 4, SenderID: 2, ReceiverID: 1, ItemID: 10, Content: "any luck?", CreatedAt: now},
			{ID: 3, SenderID: 1, ReceiverID: 3, ItemID: 11, Content: "is this yours?", CreatedAt: now.Add(-time.Minute)},
			{ID: 2, SenderID: 1, ReceiverID: 2, ItemID: 10, Content: "still looking", CreatedAt: now.Add(-2 * time.Minute)},
			{ID: 1, SenderID: 2, ReceiverID: 1, ItemID: 12, Content: "different item", CreatedAt: now.Add(-3 * time.Minute)},
		}, nil
	}
	svc := NewMessageService(repo, noopUserRepo())

	conversations, err := svc.Conversations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, conversations, 3)

	// Ordered by most recent activity
	first := conversations[0]
	assert.Equal(t, uint(10), first.ItemID)
	assert.Equal(t, uint(2), first.OtherUserID)
	assert.Len(t, first.Messages, 2)
	assert.Equal(t, now, first.LastMessage)

	second := conversations[1]
	assert.Equal(t, uint(11), second.ItemID)
	assert.Equal(t, uint(3), second.OtherUserID)

	third := conversations[2]
	assert.Equal(t, uint(12), third.ItemID)
	assert.Equal(t, uint(2), third.OtherUserID)
}

func TestMessageService_Conversations_Empty(t *testing.T) {
	svc := NewMessageService(noopMessageRepo(), noopUserRepo())
	conversations, err := svc.Conversations(context.Background(), 1)
	assert.NoError(t, err)
	assert.Empty(t, conversations)
}

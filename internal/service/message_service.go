package service

import (
	"context"
	"strings"

	"foundling/internal/models"
	"foundling/internal/repository"
)

// MessageService provides direct messaging business logic.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

// SendMessageInput is the input for sending a direct message.
type SendMessageInput struct {
	SenderID   uint
	ReceiverID uint
	ItemID     uint
	Content    string
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, userRepo: userRepo}
}

// Send validates and stores a direct message about an item.
func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if in.ReceiverID == 0 {
		return nil, models.NewValidationError("Receiver is required")
	}
	if in.ItemID == 0 {
		return nil, models.NewValidationError("Item is required")
	}
	if in.ReceiverID == in.SenderID {
		return nil, models.NewValidationError("Cannot message yourself")
	}

	// Reject messages addressed to accounts that do not exist.
	if _, err := s.userRepo.GetByID(ctx, in.ReceiverID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		ItemID:     in.ItemID,
		Content:    strings.TrimSpace(in.Content),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Conversations groups the user's recent messages by item and counterpart.
// Messages arrive newest first, so groups come out ordered by most recent
// activity and each group's first message sets LastMessage.
func (s *MessageService) Conversations(ctx context.Context, userID uint) ([]*models.Conversation, error) {
	messages, err := s.messageRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	type key struct {
		itemID      uint
		otherUserID uint
	}
	grouped := make(map[key]*models.Conversation)
	var order []key

	for _, msg := range messages {
		otherUserID := msg.SenderID
		if msg.SenderID == userID {
			otherUserID = msg.ReceiverID
		}
		k := key{itemID: msg.ItemID, otherUserID: otherUserID}

		conv, ok := grouped[k]
		if !ok {
			conv = &models.Conversation{
				ItemID:      msg.ItemID,
				OtherUserID: otherUserID,
				LastMessage: msg.CreatedAt,
			}
			grouped[k] = conv
			order = append(order, k)
		}
		conv.Messages = append(conv.Messages, msg)
	}

	conversations := make([]*models.Conversation, 0, len(order))
	for _, k := range order {
		conversations = append(conversations, grouped[k])
	}
	return conversations, nil
}
